package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"https://vegist-fdd93.web.app/", "http://localhost:*"}

	assert.True(t, isOriginAllowed("https://vegist-fdd93.web.app", allowed))
	assert.True(t, isOriginAllowed("http://localhost:5173", allowed))
	assert.False(t, isOriginAllowed("http://localhost:", allowed))
	assert.False(t, isOriginAllowed("http://localhost:80.evil.com", allowed))
	assert.False(t, isOriginAllowed("https://evil.example", allowed))
	assert.False(t, isOriginAllowed("", allowed))
	assert.True(t, isOriginAllowed("https://any.example", []string{"*"}))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/addToCard/abc", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
