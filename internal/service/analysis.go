package service

import (
	"context"
	"sync"
	"time"

	"legal-docs-service/internal/analyzer"
	"legal-docs-service/internal/domain/analysis"
	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/repository"
	"legal-docs-service/internal/storage"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	errDocumentArchivedMsg = "archived documents cannot be analyzed"
	staleAnalysisMessage   = "analysis timed out"

	// jobTimeout bounds a single background analysis run.
	jobTimeout = 10 * time.Minute
)

type AnalysisService struct {
	docs     repository.DocumentRepository
	analyses repository.AnalysisRepository
	store    storage.ObjectStore
	analyzer analyzer.Analyzer
	log      *zap.Logger

	// wg tracks in-flight background runs so shutdown can drain them.
	wg sync.WaitGroup
}

func NewAnalysisService(
	docs repository.DocumentRepository,
	analyses repository.AnalysisRepository,
	store storage.ObjectStore,
	az analyzer.Analyzer,
	log *zap.Logger,
) *AnalysisService {
	return &AnalysisService{docs: docs, analyses: analyses, store: store, analyzer: az, log: log}
}

// Start validates the request, records a processing run and launches
// the analysis in the background. It returns as soon as the run exists;
// callers poll with Get. The repository's one-non-terminal-run rule
// serializes concurrent starts for the same document.
func (s *AnalysisService) Start(ctx context.Context, documentID uuid.UUID) (*analysis.Result, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == document.StatusArchived {
		return nil, apperrors.DocumentArchived(errDocumentArchivedMsg)
	}

	run, err := s.analyses.CreateRun(ctx, documentID, analyzer.Version)
	if err != nil {
		return nil, err
	}

	if document.CanTransition(doc.Status, document.StatusProcessing) {
		if err := s.docs.UpdateStatus(ctx, documentID, document.StatusProcessing); err != nil {
			s.log.Warn("failed to mark document processing",
				zap.String("document_id", documentID.String()), zap.Error(err))
		}
	}

	s.wg.Add(1)
	go s.run(doc, run)

	s.log.Info("analysis started",
		zap.String("document_id", documentID.String()),
		zap.String("analysis_id", run.ID.String()))
	return run, nil
}

// run executes one analysis in the background. It deliberately does not
// inherit the request context: the job outlives the triggering request.
func (s *AnalysisService) run(doc *document.Document, run *analysis.Result) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	payload, err := s.produce(ctx, doc)
	if err != nil {
		s.fail(ctx, doc, run, err)
		return
	}

	if err := s.analyses.Complete(ctx, run.ID, *payload); err != nil {
		// Most likely the reaper already failed the run.
		s.log.Warn("failed to complete analysis run",
			zap.String("analysis_id", run.ID.String()), zap.Error(err))
		return
	}
	s.restoreDocumentStatus(ctx, doc.ID, document.StatusAnalyzed)

	s.log.Info("analysis completed",
		zap.String("document_id", doc.ID.String()),
		zap.String("analysis_id", run.ID.String()),
		zap.Duration("processing_time", payload.ProcessingTime))
}

func (s *AnalysisService) produce(ctx context.Context, doc *document.Document) (*analysis.Payload, error) {
	content, err := s.store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, err
	}
	defer content.Close()

	return s.analyzer.Analyze(ctx, content, doc.OriginalName, doc.MimeType)
}

// fail is terminal: the run records the error and the document returns
// to uploaded. No automatic retry.
func (s *AnalysisService) fail(ctx context.Context, doc *document.Document, run *analysis.Result, cause error) {
	if err := s.analyses.Fail(ctx, run.ID, cause.Error()); err != nil {
		s.log.Warn("failed to record analysis failure",
			zap.String("analysis_id", run.ID.String()), zap.Error(err))
		return
	}
	s.restoreDocumentStatus(ctx, doc.ID, document.StatusUploaded)

	s.log.Error("analysis failed",
		zap.String("document_id", doc.ID.String()),
		zap.String("analysis_id", run.ID.String()),
		zap.Error(cause))
}

// restoreDocumentStatus moves the document out of processing once its
// run reaches a terminal state, unless something else (signing,
// archiving) got there first.
func (s *AnalysisService) restoreDocumentStatus(ctx context.Context, documentID uuid.UUID, status document.Status) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return
	}
	if doc.Status != document.StatusProcessing || !document.CanTransition(doc.Status, status) {
		return
	}
	if err := s.docs.UpdateStatus(ctx, documentID, status); err != nil {
		s.log.Warn("failed to update document status after analysis",
			zap.String("document_id", documentID.String()), zap.Error(err))
	}
}

// Get returns the latest run for a document; poll it until terminal.
// Terminal reads are stable.
func (s *AnalysisService) Get(ctx context.Context, documentID uuid.UUID) (*analysis.Result, error) {
	if _, err := s.docs.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.analyses.LatestByDocument(ctx, documentID)
}

// GetResult returns a run by its own id.
func (s *AnalysisService) GetResult(ctx context.Context, analysisID uuid.UUID) (*analysis.Result, error) {
	return s.analyses.GetByID(ctx, analysisID)
}

// RunReaper periodically fails processing runs older than timeout and
// restores their documents, so an orphaned job nobody polls cannot stay
// in processing forever. Blocks until ctx is cancelled.
func (s *AnalysisService) RunReaper(ctx context.Context, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reap(ctx, timeout)
		}
	}
}

func (s *AnalysisService) reap(ctx context.Context, timeout time.Duration) {
	stale, err := s.analyses.FailStale(ctx, time.Now().Add(-timeout), staleAnalysisMessage)
	if err != nil {
		s.log.Error("analysis reaper sweep failed", zap.Error(err))
		return
	}
	for _, run := range stale {
		s.restoreDocumentStatus(ctx, run.DocumentID, document.StatusUploaded)
		s.log.Warn("reaped stale analysis run",
			zap.String("analysis_id", run.ID.String()),
			zap.String("document_id", run.DocumentID.String()))
	}
}

// Drain waits for in-flight background runs; used on shutdown and in
// tests.
func (s *AnalysisService) Drain() {
	s.wg.Wait()
}
