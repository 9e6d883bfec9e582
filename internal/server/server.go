// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes velocity reports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sirseerhq/sirseer-velocity/internal/cache"
	"github.com/sirseerhq/sirseer-velocity/internal/config"
	"github.com/sirseerhq/sirseer-velocity/internal/logger"
	"github.com/sirseerhq/sirseer-velocity/internal/output"
	"github.com/sirseerhq/sirseer-velocity/internal/report"
)

const shutdownGrace = 15 * time.Second

// Reporter runs one report. *report.Runner implements it.
type Reporter interface {
	Run(ctx context.Context, req report.Request) (*report.Result, error)
}

// Server serves the HTTP API.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

// New builds a Server for cfg backed by rep.
func New(cfg config.ServerConfig, rep Reporter, log *zap.Logger) (*Server, error) {
	reports, err := cache.New[output.ReportDocument](cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("creating report cache: %w", err)
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(rep, reports, log, cfg.RequestTimeout),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// NewRouter wires the API routes.
func NewRouter(rep Reporter, reports *cache.Cache[output.ReportDocument], log *zap.Logger, requestTimeout time.Duration) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.MiddlewareLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/health", Health(log))
	router.Route("/api", func(r chi.Router) {
		r.Get("/metrics/{owner}/{repo}", GetMetrics(rep, reports, requestTimeout, log))
	})

	return router
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("starting http server", zap.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		s.log.Info("http server stopped")
		return nil
	})

	return g.Wait()
}
