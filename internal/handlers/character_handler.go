package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"character-merge-api/internal/characters"
	"character-merge-api/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreCharacter creates or updates a character by name.
// POST /api/almacenar
func (h *Handler) StoreCharacter(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, CodeInvalidJSON, "request body could not be read", nil)
		return
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		fail(c, http.StatusBadRequest, CodeInvalidJSON, "request body must be valid JSON", nil)
		return
	}

	in, err := characters.Validate(body)
	var ve *validation.Error
	if errors.As(err, &ve) {
		fail(c, http.StatusBadRequest, CodeValidation, ve.Message, ve.Details)
		return
	}

	character, updated, err := h.characters.Store(c.Request.Context(), in)
	if err != nil {
		h.log.Error("store character", zap.String("nombre", in.Name), zap.Error(err))
		internalError(c)
		return
	}

	message := "character created"
	if updated {
		message = "character updated"
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: character})
}
