package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// contentTypeCheck serves one request through ContentTypeJSON and reports
// whether the inner handler ran.
func contentTypeCheck(method, contentType string, body string) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/test", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, called
}

func TestContentTypeJSON_Accepts(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
	}{
		{"POST with json", http.MethodPost, "application/json"},
		{"POST with json charset", http.MethodPost, "application/json; charset=utf-8"},
		{"POST with no header", http.MethodPost, ""},
		{"PUT with no header", http.MethodPut, ""},
		{"PATCH with no header", http.MethodPatch, ""},
		{"GET with no header", http.MethodGet, ""},
		{"DELETE with no header", http.MethodDelete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, called := contentTypeCheck(tt.method, tt.contentType, `{"key":"value"}`)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.True(t, called, "inner handler should have run")
		})
	}
}

func TestContentTypeJSON_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"form encoded", "application/x-www-form-urlencoded", "key=value"},
		{"plain text", "text/plain", "data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, called := contentTypeCheck(http.MethodPost, tt.contentType, tt.body)

			assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
			assert.False(t, called, "inner handler should not have run")
			assert.Contains(t, rr.Body.String(), "UNSUPPORTED_MEDIA_TYPE")
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}
