package handlers

import (
	"net/http"
	"time"

	"character-merge-api/internal/auth"
	"character-merge-api/internal/characters"
	"character-merge-api/internal/history"
	"character-merge-api/internal/merge"
	"character-merge-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler groups the HTTP endpoints and the services behind them.
type Handler struct {
	characters *characters.Service
	merge      *merge.Service
	history    *history.Service
	auth       *auth.Manager
	hub        *realtime.Hub
	log        *zap.Logger
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Characters *characters.Service
	Merge      *merge.Service
	History    *history.Service
	Auth       *auth.Manager
	Hub        *realtime.Hub
	Logger     *zap.Logger
}

func New(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		characters: d.Characters,
		merge:      d.Merge,
		history:    d.History,
		auth:       d.Auth,
		hub:        d.Hub,
		log:        log.Named("http"),
	}
}

// Response is the envelope every /api JSON reply uses.
type Response struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	Details   []string `json:"details,omitempty"`
	FromCache *bool    `json:"fromCache,omitempty"`
}

// Error codes returned in Response.Error.
const (
	CodeInvalidJSON         = "INVALID_JSON"
	CodeValidation          = "VALIDATION_ERROR"
	CodeCharacterNotFound   = "PERSONAJE_NOT_FOUND"
	CodeAgeRangesNotFound   = "RANGOS_EDAD_NOT_FOUND"
	CodeAgeRangeNotFound    = "RANGO_EDAD_NOT_FOUND"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

func fail(c *gin.Context, status int, code, message string, details []string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Error:   code,
		Details: details,
	})
}

func internalError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, CodeInternalServerError, "internal server error", nil)
}

// Echo reports back the request line so clients can check their token works.
// GET /api/test
func (h *Handler) Echo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "test endpoint is working",
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"user_id":   c.GetString("user_id"),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
