// Package app wires configuration, storage, repositories and the HTTP
// server into a runnable service.
package app

import (
	"context"

	"legal-docs-service/internal/config"
	"legal-docs-service/internal/http"
	"legal-docs-service/internal/service"

	"go.uber.org/zap"
)

// Service represents the legal document management application.
type Service struct {
	config   *config.Config
	log      *zap.Logger
	analyses *service.AnalysisService
	server   *http.Server

	closeDB      func()
	reaperCancel context.CancelFunc
}

// NewService creates and initializes a new Service instance.
// This is a convenience wrapper around InitializeService.
func NewService() (*Service, error) {
	return InitializeService()
}

// Start launches the stale-analysis reaper and the HTTP server. It
// blocks until the server stops.
func (s *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.reaperCancel = cancel

	go s.analyses.RunReaper(ctx, s.config.Analysis.ReaperInterval, s.config.Analysis.Timeout)

	s.log.Info("starting http server", zap.String("port", s.config.Server.Port))
	return s.server.Start(":" + s.config.Server.Port)
}

// Shutdown stops the HTTP server, waits for in-flight analysis runs to
// finish and releases the database.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.reaperCancel != nil {
		s.reaperCancel()
	}

	err := s.server.Shutdown(ctx)

	s.analyses.Drain()
	if s.closeDB != nil {
		s.closeDB()
	}
	_ = s.log.Sync()
	return err
}
