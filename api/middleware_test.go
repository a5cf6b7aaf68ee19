package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/staticd/log"
)

func TestLoggingMiddlewareExclusions(t *testing.T) {
	c := qt.New(t)

	previous := log.Level()
	log.Init(log.LogLevelDebug, "stderr", nil)
	defer log.Init(previous, "stderr", nil)

	config := LoggingConfig{ExcludedPrefixes: LogExcludedPrefixes}
	tests := []struct {
		path string
		skip bool
	}{
		{PingEndpoint, true},
		{StatsEndpoint, false},
		{InfoEndpoint, false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		c.Assert(config.shouldSkipLogging(req), qt.Equals, tt.skip, qt.Commentf("path %s", tt.path))
	}

	DisabledLogging = true
	defer func() { DisabledLogging = false }()
	c.Assert(config.shouldSkipLogging(httptest.NewRequest(http.MethodGet, StatsEndpoint, nil)), qt.IsTrue)
}

func TestLoggingMiddlewarePreservesResponse(t *testing.T) {
	c := qt.New(t)

	previous := log.Level()
	log.Init(log.LogLevelDebug, "stderr", nil)
	defer log.Init(previous, "stderr", nil)

	handler := loggingMiddleware(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, StatsEndpoint, nil))
	c.Assert(rr.Code, qt.Equals, http.StatusTeapot)
	c.Assert(rr.Body.String(), qt.Equals, "short and stout")
}
