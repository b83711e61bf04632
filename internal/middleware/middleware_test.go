package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestIDGeneratesAndReuses(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id %q not echoed (%q)", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Fatalf("inbound id not reused: %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "has space")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "has space" || seen == "" {
		t.Fatalf("unsafe inbound id accepted: %q", seen)
	}
}

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := RequestID(Logger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/resolve", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["level"] != "warn" || line["path"] != "/api/resolve" {
		t.Fatalf("unexpected log line %v", line)
	}
	if line["status"].(float64) != 400 || line["bytes"].(float64) != 4 {
		t.Fatalf("status/bytes not recorded: %v", line)
	}
	if line["request_id"] == "" {
		t.Fatalf("request id missing: %v", line)
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantOrigin string
		wantCreds  bool
		wantStatus int
	}{
		{"listed origin", []string{"https://a.test"}, "https://a.test", http.MethodGet, "https://a.test", true, http.StatusOK},
		{"unlisted origin", []string{"https://a.test"}, "https://b.test", http.MethodGet, "", false, http.StatusOK},
		{"wildcard", []string{"*"}, "https://b.test", http.MethodGet, "*", false, http.StatusOK},
		{"preflight", []string{"https://a.test"}, "https://a.test", http.MethodOptions, "https://a.test", true, http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/generate-embed", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			CORS(tc.origins)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow-origin = %q, want %q", got, tc.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials") == "true"; got != tc.wantCreds {
				t.Fatalf("credentials = %v, want %v", got, tc.wantCreds)
			}
			if tc.wantOrigin != "" && !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-Locale") {
				t.Fatalf("allow-headers missing X-Locale")
			}
		})
	}
}
