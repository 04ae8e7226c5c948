package handlers

import (
	"errors"
	"net/http"

	"character-merge-api/internal/merge"
	"character-merge-api/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Merge classifies a stored character by age range and records the result.
// Responds 201 when the merged record is new and 200 when it was replaced.
// GET /api/fusionados?nombre=
func (h *Handler) Merge(c *gin.Context) {
	name := c.Query("nombre")

	res, err := h.merge.Merge(c.Request.Context(), name)
	if err != nil {
		var ve *validation.Error
		switch {
		case errors.As(err, &ve):
			fail(c, http.StatusBadRequest, CodeValidation, ve.Message, ve.Details)
		case errors.Is(err, merge.ErrCharacterNotFound):
			fail(c, http.StatusNotFound, CodeCharacterNotFound, `no character named "`+name+`"`, nil)
		case errors.Is(err, merge.ErrNoAgeRanges):
			h.log.Error("merge", zap.String("nombre", name), zap.Error(err))
			fail(c, http.StatusInternalServerError, CodeAgeRangesNotFound, "no age ranges are configured", nil)
		case errors.Is(err, merge.ErrNoMatchingRange):
			h.log.Error("merge", zap.String("nombre", name), zap.Error(err))
			fail(c, http.StatusInternalServerError, CodeAgeRangeNotFound, err.Error(), nil)
		default:
			h.log.Error("merge", zap.String("nombre", name), zap.Error(err))
			internalError(c)
		}
		return
	}

	status, message := http.StatusCreated, "merged record created"
	if !res.Created {
		status, message = http.StatusOK, "merged record updated"
	}
	c.JSON(status, Response{Success: true, Message: message, Data: res.Record})
}
