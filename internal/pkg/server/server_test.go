package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sigs.k8s.io/controller-runtime/pkg/healthz"

	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
	"github.com/autopeer-io/fleetclient/pkg/options"
)

func TestHTTPServerRoutes(t *testing.T) {
	ready := false
	srv := NewHTTPServer(options.NewHttpOptions(), nil, map[string]healthz.Checker{
		"fleet-state": func(*http.Request) error {
			if !ready {
				return errors.New("no snapshot yet")
			}
			return nil
		},
	})
	metrics.SnapshotsTotal.Inc()

	tests := []struct {
		name     string
		path     string
		setReady bool
		wantCode int
		wantBody string
	}{
		{name: "healthz", path: "/healthz", wantCode: http.StatusOK},
		{name: "not ready", path: "/readyz", wantCode: http.StatusInternalServerError},
		{name: "ready", path: "/readyz", setReady: true, wantCode: http.StatusOK},
		{name: "single check", path: "/readyz/fleet-state", setReady: true, wantCode: http.StatusOK},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, wantBody: "fleetclient_snapshots_received_total"},
		{name: "unknown", path: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ready = tt.setReady
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("GET %s body does not contain %q", tt.path, tt.wantBody)
			}
		})
	}
}

func TestManagerStopsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	stopped := make(chan struct{})

	m := NewManager(nil,
		Func(func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return nil
		}),
		Func(func(context.Context) error { return boom }),
	)

	if err := m.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Start() error = %v, want %v", err, boom)
	}
	<-stopped
}

func TestHTTPServerShutdown(t *testing.T) {
	opts := options.NewHttpOptions()
	opts.Addr = "127.0.0.1:0"
	srv := NewHTTPServer(opts, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}
