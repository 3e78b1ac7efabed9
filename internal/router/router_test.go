package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/handler"
)

func TestSetupRouterServesHealthWithCORS(t *testing.T) {
	h := handler.NewHandlers(handler.Deps{Config: &config.Config{}})
	r := SetupRouter(h, config.ServerConfig{CORSOrigins: []string{"https://forms.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/health/liveness", nil)
	req.Header.Set("Origin", "https://forms.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://forms.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	c := corsConfig([]string{"https://a.example.com"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example.com"}, c.AllowOrigins)
	assert.NoError(t, c.Validate())
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	h := handler.NewHandlers(handler.Deps{Config: &config.Config{}})
	r := SetupRouter(h, config.ServerConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
