package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsHandler(origins []string) http.Handler {
	config := DefaultCORSConfig("development")
	config.AllowedOrigins = origins
	return CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	handler := corsHandler([]string{"http://localhost:3000"})

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	handler := corsHandler([]string{"http://localhost:3000"})

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handled := false
	config := DefaultCORSConfig("development")
	config.AllowedOrigins = []string{"http://localhost:3000"}

	handler := CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled = true
	}))

	req := httptest.NewRequest("OPTIONS", "/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, handled)
}

func TestDefaultCORSConfig_CredentialsOffInProduction(t *testing.T) {
	assert.False(t, DefaultCORSConfig("production").AllowCredentials)
	assert.True(t, DefaultCORSConfig("development").AllowCredentials)
}
