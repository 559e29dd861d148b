package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"phonics-audio/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(handler.Handler{OutputDir: t.TempDir()})

	routes := map[string]bool{}
	for _, info := range r.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /api/assets",
		"GET /api/runs",
		"GET /api/runs/:runId",
		"GET /sounds/*filepath",
	} {
		assert.True(t, routes[want], want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
