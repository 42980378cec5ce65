// Package server wires the HTTP surface: routing, middleware and lifecycle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klacilab/region-rankings/internal/config"
	"github.com/klacilab/region-rankings/internal/health"
	"github.com/klacilab/region-rankings/internal/middleware"
)

func newRouter(logger *slog.Logger, svc DataService, db health.Pinger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(db))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	h := NewHandler(logger, svc)
	r.Route("/data", func(r chi.Router) {
		r.Get("/regions", h.ListRegions)
		r.Get("/regions/{id}", h.GetRegion)
		r.Get("/regions/{id}/key-index-scores", h.RegionKeyIndexScores)
		r.Get("/regions/{id}/key-index-scores/{year}", h.RegionKeyIndexScoresByYear)
		r.Get("/provinces-with-regions", h.ProvincesWithRegions)
		r.Get("/province/{id}", h.ProvinceWithRegions)
	})
	return r
}

// sets up http and starts serving
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, svc DataService, db health.Pinger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(logger, svc, db),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
