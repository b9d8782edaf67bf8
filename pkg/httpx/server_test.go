package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shelfaware/pkg/httpx"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	return rr
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	r := httpx.NewRouter(httpx.ServerConfig{ServiceName: "test"}, httpx.Middlewares{})
	r.Get("/", okHandler)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestNewRouter_RecoveryIsOutermost(t *testing.T) {
	var recovered bool
	recovery := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recover() != nil {
					recovered = true
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
	r := httpx.NewRouter(httpx.ServerConfig{}, httpx.Middlewares{Recovery: recovery})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.True(t, recovered)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRateLimit(t *testing.T) {
	h := httpx.RateLimit(2)(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.RemoteAddr = "10.0.0.7:5000"
		codes = append(codes, serve(h, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "10.0.0.7:5000"
	rr := serve(h, req)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["error"])

	other := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	other.RemoteAddr = "10.0.0.8:5000"
	assert.Equal(t, http.StatusOK, serve(h, other).Code, "limits are per client IP")
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		allowed     string
		origin      string
		wantOrigin  string
		credentials string
	}{
		{"explicit origin", "https://app.example.com", "https://app.example.com", "https://app.example.com", "true"},
		{"unlisted origin", "https://app.example.com", "https://evil.example.com", "", ""},
		{"wildcard", "*", "https://anywhere.example.com", "any", ""},
		{"empty means wildcard", "", "https://anywhere.example.com", "any", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.CORSMiddleware(tt.allowed)(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set("Origin", tt.origin)

			rr := serve(h, req)

			got := rr.Header().Get("Access-Control-Allow-Origin")
			if tt.wantOrigin == "any" {
				assert.NotEmpty(t, got)
			} else {
				assert.Equal(t, tt.wantOrigin, got)
			}
			assert.Equal(t, tt.credentials, rr.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	const limit = 10
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"within limit", limit / 2, false},
		{"at limit", limit, false},
		{"over limit", limit + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			h := httpx.RequestBodyLimit(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				buf := make([]byte, 64)
				for readErr == nil {
					_, readErr = r.Body.Read(buf)
				}
				w.WriteHeader(http.StatusOK)
			}))
			body := strings.NewReader(strings.Repeat("x", tt.size))
			serve(h, httptest.NewRequest(http.MethodPost, "/", body))

			var tooLarge *http.MaxBytesError
			assert.Equal(t, tt.wantErr, errors.As(readErr, &tooLarge))
		})
	}
}

func TestNewServer_WriteTimeoutOutlastsHandler(t *testing.T) {
	srv := httpx.NewServer(":0", http.NotFoundHandler())

	assert.Greater(t, srv.WriteTimeout, httpx.DefaultHandlerTimeout)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}
