// Package server provides the HTTP API for the invoice reimbursement
// analyzer.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/analyzer"
	"github.com/Vishal-meena/Invoice-Reimbursement-Analysis/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP server for the analysis API.
type Server struct {
	analyzer *analyzer.Analyzer
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(a *analyzer.Analyzer, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		analyzer: a,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the request router. The timeout middleware is the only
// ceiling on the model round trip; there is no application-level retry.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze-invoices", s.handleAnalyzeInvoices)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
