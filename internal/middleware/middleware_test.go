package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogging_AssignsRequestID(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/data/regions", nil)
	rr := httptest.NewRecorder()
	Logging(l)(next).ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated X-Request-ID header")
	}
}

func TestLogging_KeepsCallerRequestID(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/data/regions", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	Logging(l)(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "" {
		t.Fatalf("header overwritten: got %q, want caller id left alone", got)
	}
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/data/regions", nil)
	rr := httptest.NewRecorder()
	Recover()(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", rr.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not run on preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/data/regions", nil)
	rr := httptest.NewRecorder()
	CORS()(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing allow-origin header")
	}
}
