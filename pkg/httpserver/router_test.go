package httpserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"hookr/pkg/config"
	"hookr/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	buf := &bytes.Buffer{}

	r := NewRouter("post", "post", cfg, logger.NewWithWriter(buf, "info"))
	r.GET("/api/v1/boom", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"error": "nope"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"post"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/boom", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, buf.String(), "/api/v1/boom 418")
}
