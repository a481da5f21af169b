package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/types"
)

func TestRequestIDEchoesSafeHeader(t *testing.T) {
	var seen string
	handler := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "edge-7f3a.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "edge-7f3a.1" || rec.Header().Get(requestIDHeader) != "edge-7f3a.1" {
		t.Fatalf("expected caller id to pass through, got ctx=%q header=%q", seen, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, bad := range []string{"", "has space", strings.Repeat("a", 129)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestIDHeader, bad)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		if got == "" || got == bad {
			t.Fatalf("expected generated id for %q, got %q", bad, got)
		}
	}
}

func TestRecovererWritesInternalEnvelope(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &logs})
	handler := Recoverer(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("needle snapped")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" || strings.Contains(body.Error.Message, "needle") {
		t.Fatalf("unexpected envelope %+v", body.Error)
	}
	if !strings.Contains(logs.String(), "needle snapped") || !strings.Contains(logs.String(), "/api/v1/orders") {
		t.Fatalf("expected panic details in logs, got %s", logs.String())
	}
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestLoggingRecordsStatusAndBytes(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &logs})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil))

	out := logs.String()
	for _, want := range []string{`"status":201`, `"bytes":5`, `"request.complete"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in logs, got %s", want, out)
		}
	}
}

func TestLoggingKeepsProbesAtDebug(t *testing.T) {
	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &logs})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if logs.Len() != 0 {
		t.Fatalf("expected probe logs to be suppressed at info, got %s", logs.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{" https://studio.example ", ""})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://studio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://studio.example" {
		t.Fatalf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected foreign origin to be refused, got %q", got)
	}
}
