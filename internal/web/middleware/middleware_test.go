package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/daman/internal/config"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	secured := config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"alpha", "beta"}}

	tests := []struct {
		name   string
		cfg    config.SecurityConfig
		header map[string]string
		want   int
	}{
		{"auth disabled", config.SecurityConfig{}, nil, http.StatusOK},
		{"missing key", secured, nil, http.StatusUnauthorized},
		{"invalid key", secured, map[string]string{"X-API-Key": "gamma"}, http.StatusForbidden},
		{"valid header key", secured, map[string]string{"X-API-Key": "beta"}, http.StatusOK},
		{"valid bearer token", secured, map[string]string{"Authorization": "Bearer alpha"}, http.StatusOK},
		{"lowercase bearer", secured, map[string]string{"Authorization": "bearer alpha"}, http.StatusOK},
		{"basic auth ignored", secured, map[string]string{"Authorization": "Basic YWxwaGE="}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/qr/records", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			APIKeyAuth(tt.cfg)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestTrustedRealIP(t *testing.T) {
	var seen string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	})

	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no proxies configured", nil, "203.0.113.5:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.5"},
		{"untrusted source", []string{"10.0.0.0/8"}, "203.0.113.5:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.5"},
		{"trusted x-real-ip", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "1.1.1.1"},
		{"trusted forwarded-for", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.1.2.3"}, "2.2.2.2"},
		{"trusted single host", []string{"127.0.0.1"}, "127.0.0.1:80", map[string]string{"X-Real-IP": "3.3.3.3"}, "3.3.3.3"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3"},
		{"invalid cidr skipped", []string{"bogus"}, "10.1.2.3:1234", map[string]string{"X-Real-IP": "1.1.1.1"}, "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			TrustedRealIP(tt.trusted)(capture).ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestLogger_RecordsStatusAndBytes(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestResponseWriter_IgnoresSecondWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	ww.WriteHeader(http.StatusCreated)
	ww.WriteHeader(http.StatusInternalServerError)
	n, err := ww.Write([]byte("ok"))

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, http.StatusCreated, ww.status)
	assert.Equal(t, 2, ww.bytes)
	assert.Same(t, rec, ww.Unwrap())
}
