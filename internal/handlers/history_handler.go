package handlers

import (
	"errors"
	"net/http"

	"character-merge-api/internal/history"
	"character-merge-api/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// X-Cache header values.
const (
	cacheHit  = "HIT"
	cacheMiss = "MISS"
	cacheNA   = "N/A"
)

// GetHistory returns one page of merged records, served through the cache.
// GET /api/historial?page=&limit=
func (h *Handler) GetHistory(c *gin.Context) {
	page, limit, err := history.ParsePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		c.Header("X-Cache", cacheNA)
		var ve *validation.Error
		if errors.As(err, &ve) {
			fail(c, http.StatusBadRequest, CodeValidation, ve.Message, ve.Details)
			return
		}
		internalError(c)
		return
	}

	result, hit, err := h.history.Cached(c.Request.Context(), page, limit)
	if err != nil {
		c.Header("X-Cache", cacheNA)
		h.log.Error("list history", zap.Int("page", page), zap.Int("limit", limit), zap.Error(err))
		internalError(c)
		return
	}

	message := "history retrieved"
	c.Header("X-Cache", cacheMiss)
	if hit {
		message = "history retrieved from cache"
		c.Header("X-Cache", cacheHit)
	}
	c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Data:      result,
		FromCache: &hit,
	})
}
