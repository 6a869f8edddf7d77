package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyage-planner/voyage/internal/middleware"
)

const devOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSHandler_SimpleRequests(t *testing.T) {
	h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

	tests := []struct {
		name        string
		origin      string
		wantAllowed string
	}{
		{"allowed origin", devOrigin, devOrigin},
		{"foreign origin", "http://evil.example.com", ""},
		{"no origin", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			// A refused origin is still served; the browser drops the response.
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantAllowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSHandler_Preflight(t *testing.T) {
	h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

	// Browsers send Access-Control-Request-Headers in lowercase and rs/cors
	// compares them verbatim.
	tests := []struct {
		method  string
		headers string
		path    string
	}{
		{http.MethodPost, "content-type", "/trips/finalize"},
		{http.MethodPatch, "authorization", "/trips/7"},
		{http.MethodDelete, "authorization", "/itineraries/7"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, tt.path, nil)
			req.Header.Set("Origin", devOrigin)
			req.Header.Set("Access-Control-Request-Method", tt.method)
			req.Header.Set("Access-Control-Request-Headers", tt.headers)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Less(t, rec.Code, 300, "preflight status")
			assert.Equal(t, devOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), tt.method)
		})
	}
}

func TestCORSHandler_ExposesCacheAndRetryHeaders(t *testing.T) {
	h := middleware.NewCORSHandler([]string{devOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/flights/popular-destinations", nil)
	req.Header.Set("Origin", devOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "X-Cache")
	assert.Contains(t, exposed, "Retry-After")
}
