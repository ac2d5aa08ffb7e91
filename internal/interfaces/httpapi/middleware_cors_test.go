package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantCode    int
		wantAllow   string
		wantVary    bool
		wantHeaders bool
	}{
		{
			name:    "configured origin is echoed",
			allowed: []string{"https://ladder.example.com"},
			method:  http.MethodGet, origin: "https://ladder.example.com",
			wantCode: http.StatusOK, wantAllow: "https://ladder.example.com", wantVary: true, wantHeaders: true,
		},
		{
			name:    "wildcard preflight",
			allowed: []string{"*"},
			method:  http.MethodOptions, origin: "https://ladder.example.com",
			wantCode: http.StatusNoContent, wantAllow: "*", wantHeaders: true,
		},
		{
			name:    "unknown origin gets no grant",
			allowed: []string{"https://allowed.example.com"},
			method:  http.MethodGet, origin: "https://not-allowed.example.com",
			wantCode: http.StatusOK,
		},
		{
			name:    "same origin request passes through",
			allowed: []string{"https://allowed.example.com"},
			method:  http.MethodOptions,
			wantCode: http.StatusTeapot,
		},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/leagues", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tc.wantVary {
				t.Fatalf("unexpected Vary header: %q", rec.Header().Get("Vary"))
			}
			allowHeaders := rec.Header().Get("Access-Control-Allow-Headers")
			if tc.wantHeaders != strings.Contains(allowHeaders, internalJobTokenHeader) {
				t.Fatalf("unexpected Access-Control-Allow-Headers: %q", allowHeaders)
			}
		})
	}
}
