package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/autopeer-io/fleetclient/pkg/log"
	"github.com/autopeer-io/fleetclient/pkg/options"
)

// HTTPServer serves liveness, readiness and Prometheus metrics.
type HTTPServer struct {
	server  *http.Server
	options *options.HttpOptions
	logger  log.Logger
}

// NewHTTPServer creates the server. readyChecks decide /readyz; /healthz only
// reports that the process is serving.
func NewHTTPServer(opts *options.HttpOptions, logger log.Logger, readyChecks map[string]healthz.Checker) *HTTPServer {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	r := mux.NewRouter()
	addChecks(r, "/healthz", map[string]healthz.Checker{"ping": healthz.Ping})
	addChecks(r, "/readyz", readyChecks)
	r.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return &HTTPServer{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
		},
		options: opts,
		logger:  logger.WithName("http"),
	}
}

// addChecks serves the aggregate of checks on path and each check on path/<name>.
func addChecks(r *mux.Router, path string, checks map[string]healthz.Checker) {
	h := http.StripPrefix(path, &healthz.Handler{Checks: checks})
	r.Handle(path, h).Methods(http.MethodGet)
	r.PathPrefix(path + "/").Handler(h).Methods(http.MethodGet)
}

// Handler returns the router, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("Starting HTTP server", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeout := s.options.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(shutdownCtx)
	}
}
