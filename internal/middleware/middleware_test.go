package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octobees/vc-scout/internal/config"
	"github.com/octobees/vc-scout/internal/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	entries := logs.FilterField(zap.String("request_id", "rid-123")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry with request id, got %d", len(entries))
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusOK) {
		t.Fatalf("expected status field 200, got %v", entries[0].ContextMap()["status"])
	}

	// ensure errors are propagated and logged
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	failed := logs.FilterField(zap.String("request_id", "rid-456")).All()
	if len(failed) != 1 || failed[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected second log entry at warn level, got %+v", failed)
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
}

func TestEnrichRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Second}
	mw := EnrichRateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodPost, "/enrich", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(EnrichPath)

	_ = mw(next)(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/enrich", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	c2.SetPath(EnrichPath)
	_ = mw(next)(c2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", rec2.Code)
	}
	if ct := rec2.Header().Get(echo.HeaderContentType); ct != echo.MIMETextPlainCharsetUTF8 {
		t.Fatalf("expected plain text rejection, got %s", ct)
	}

	// Other paths bypass the limiter.
	req3 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec3 := httptest.NewRecorder()
	c3 := e.NewContext(req3, rec3)
	_ = mw(next)(c3)
	if rec3.Code != http.StatusOK {
		t.Fatalf("expected non-enrich request to pass")
	}

	// zero config should behave as passthrough
	mw = EnrichRateLimiter(config.RateLimitConfig{})
	req4 := httptest.NewRequest(http.MethodPost, "/enrich", nil)
	rec4 := httptest.NewRecorder()
	c4 := e.NewContext(req4, rec4)
	c4.SetPath(EnrichPath)
	_ = mw(next)(c4)
	if rec4.Code != http.StatusOK {
		t.Fatalf("expected passthrough when limiter disabled")
	}
	if nextCalls != 3 {
		t.Fatalf("expected next handler to be invoked 3 times, got %d", nextCalls)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := Metrics(reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies/acme", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/companies/:id")

	if err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := testutil.CollectAndCount(reg, "vcscout_http_request_duration_seconds"); n != 1 {
		t.Fatalf("expected one series, got %d", n)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			if got := logger.RequestID(c.Request().Context()); got != "incoming" {
				t.Fatalf("expected request context to carry id, got %q", got)
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			rid := RequestIDFromContext(c)
			if rid == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})
}

func TestRequestIDMiddlewareReplacesMalformedHeader(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	for name, incoming := range map[string]string{
		"whitespace": "two words",
		"too long":   strings.Repeat("a", maxRequestIDLength+1),
		"control":    "id\x00",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen string
			if err := handler(func(c echo.Context) error {
				seen = logger.RequestID(c.Request().Context())
				return c.NoContent(http.StatusOK)
			})(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if seen == "" || seen == incoming {
				t.Fatalf("expected a generated id, got %q", seen)
			}
			if rec.Header().Get("X-Request-ID") != seen {
				t.Fatalf("expected response header %q, got %q", seen, rec.Header().Get("X-Request-ID"))
			}
		})
	}
}
