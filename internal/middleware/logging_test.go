package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"implicit ok", 0, zapcore.InfoLevel},
		{"conflict", http.StatusConflict, zapcore.InfoLevel},
		{"unavailable", http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
			}))

			req := httptest.NewRequest("GET", "/restaurants/x/floor?limit=5", nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("entries: got %d, want 1", len(entries))
			}
			e := entries[0]
			if e.Level != tt.wantLevel {
				t.Errorf("level: got %s, want %s", e.Level, tt.wantLevel)
			}
			fields := e.ContextMap()
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if fields["status"] != int64(want) || fields["path"] != "/restaurants/x/floor" || fields["query"] != "limit=5" {
				t.Errorf("fields: %v", fields)
			}
		})
	}
}

func TestRequestLogger_RedactsToken(t *testing.T) {
	const secret = "eyJhbGciOiJIUzI1NiJ9.c2VjcmV0.c2ln"
	tests := []struct {
		name      string
		target    string
		wantQuery string
	}{
		{"token only", "/ws/restaurants/x/floor?token=" + secret, "token=redacted"},
		{"token with others", "/ws/restaurants/x/floor?v=2&token=" + secret, "token=redacted&v=2"},
		{"malformed query", "/ws/restaurants/x/floor?token=" + secret + "&bad=%zz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tt.target, nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("entries: got %d, want 1", len(entries))
			}
			fields := entries[0].ContextMap()
			if strings.Contains(fmt.Sprint(fields), secret) {
				t.Fatalf("token leaked into log fields: %v", fields)
			}
			if fields["query"] != tt.wantQuery {
				t.Errorf("query: got %q, want %q", fields["query"], tt.wantQuery)
			}
		})
	}
}
