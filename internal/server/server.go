// Package server exposes the competitor store over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

// Researcher is the remote research API the server drives.
type Researcher interface {
	DiscoverMarket(ctx context.Context) (*model.MarketScan, error)
	ResearchCompetitor(ctx context.Context, name string) (*model.DeepDive, error)
	FetchNews(ctx context.Context, name string) ([]model.NewsItem, error)
}

// Server serves the competitor API.
type Server struct {
	store    *store.CompetitorStore
	research Researcher
	logger   *zap.Logger
	router   chi.Router

	scanning atomic.Bool
}

// New builds a server. research may be nil, in which case remote routes
// answer 503.
func New(st *store.CompetitorStore, research Researcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{store: st, research: research, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/competitors", s.handleList)
		r.Post("/competitors", s.handleAdd)
		r.Get("/competitors/{id}", s.handleGet)
		r.Delete("/competitors/{id}", s.handleDelete)
		r.Post("/competitors/{id}/logs", s.handleAppendLog)
		r.Post("/competitors/{id}/refresh", s.handleRefresh)
		r.Get("/competitors/{id}/news", s.handleNews)
		r.Get("/competitors/{id}/segments", s.handleSegments)

		r.Post("/scan", s.handleScan)
		r.Get("/overview", s.handleOverview)
		r.Get("/quadrant", s.handleQuadrant)
		r.Get("/rank", s.handleRank)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)))
	})
}
