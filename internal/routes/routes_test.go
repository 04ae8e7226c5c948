package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"character-merge-api/internal/auth"
	"character-merge-api/internal/config"
	"character-merge-api/internal/handlers"
	"character-merge-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mgr := auth.NewManager(config.JWTConfig{Secret: "s", Issuer: "i", Audience: "a", TTL: time.Hour})
	reg := prometheus.NewRegistry()
	metrics.NewCache(reg).Hit()
	return SetupRoutes(handlers.New(handlers.Deps{Auth: mgr}), mgr, reg)
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "cache_hits_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()
	for _, path := range []string{"/api/test", "/api/historial", "/api/fusionados?nombre=x", "/api/ws"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/almacenar", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/historial", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
