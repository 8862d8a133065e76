// Package server owns the HTTP listeners and their lifecycle.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paralympics-api/internal/metrics"
)

// Config holds the listener settings
type Config struct {
	Addr            string
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// Server serves the API and, optionally, the metrics endpoint
type Server struct {
	cfg     Config
	api     *http.Server
	metrics *http.Server
	logger  *zap.Logger
}

// New creates a server for the given API handler
func New(cfg Config, api http.Handler, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		api: &http.Server{
			Addr:              cfg.Addr,
			Handler:           api,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		s.metrics = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// Run serves until ctx is cancelled or a listener fails, then shuts every
// listener down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	servers := []*http.Server{s.api}
	if s.metrics != nil {
		servers = append(servers, s.metrics)
	}

	for _, srv := range servers {
		g.Go(func() error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
