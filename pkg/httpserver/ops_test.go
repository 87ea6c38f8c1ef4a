package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/httpserver"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

func TestOpsRouter(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "ops_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	healthy := httpserver.Check{Name: "ok", Fn: func(context.Context) error { return nil }}
	broken := httpserver.Check{Name: "db", Fn: func(context.Context) error { return errors.New("down") }}

	tests := []struct {
		name     string
		checks   []httpserver.Check
		path     string
		wantCode int
		wantBody string
	}{
		{name: "liveness", path: "/healthz", wantCode: http.StatusOK, wantBody: "ALIVE"},
		{name: "ready", checks: []httpserver.Check{healthy}, path: "/readyz", wantCode: http.StatusOK, wantBody: "READY"},
		{name: "not ready", checks: []httpserver.Check{healthy, broken}, path: "/readyz", wantCode: http.StatusServiceUnavailable, wantBody: "NOT_READY"},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, wantBody: "ops_test_total 1"},
		{name: "unknown", path: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := httpserver.NewOpsRouter(logger.NewNop(), reg, tt.checks...)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
