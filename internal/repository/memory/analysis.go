package memory

import (
	"context"
	"time"

	"legal-docs-service/internal/domain/analysis"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
)

type AnalysisRepository struct {
	store   *Store
	results []*analysis.Result
}

func (r *AnalysisRepository) CreateRun(ctx context.Context, documentID uuid.UUID, version string) (*analysis.Result, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, res := range r.results {
		if res.DocumentID == documentID && !res.Status.Terminal() {
			return nil, apperrors.AnalysisInProgress(errAnalysisActive)
		}
	}

	ts := now()
	res := &analysis.Result{
		ID:              uuid.New(),
		DocumentID:      documentID,
		Status:          analysis.StatusProcessing,
		AnalysisVersion: version,
		Metadata:        map[string]any{},
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	r.results = append(r.results, res)

	out := *res
	return &out, nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*analysis.Result, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, res := range r.results {
		if res.ID == id {
			out := *res
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errAnalysisNotFound)
}

func (r *AnalysisRepository) LatestByDocument(ctx context.Context, documentID uuid.UUID) (*analysis.Result, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].DocumentID == documentID {
			out := *r.results[i]
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errAnalysisNotFound)
}

func (r *AnalysisRepository) Complete(ctx context.Context, id uuid.UUID, payload analysis.Payload) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res := r.find(id)
	if res == nil {
		return apperrors.NotFound(errAnalysisNotFound)
	}
	if res.Status.Terminal() {
		return apperrors.Conflict(errAnalysisTerminal)
	}

	ts := now()
	res.Status = analysis.StatusCompleted
	res.Entities = payload.Entities
	res.Clauses = payload.Clauses
	res.Risks = payload.Risks
	res.Summary = payload.Summary
	res.ProcessingTime = payload.ProcessingTime
	res.Metadata = cloneMap(payload.Metadata)
	res.UpdatedAt = ts
	res.CompletedAt = &ts
	return nil
}

func (r *AnalysisRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res := r.find(id)
	if res == nil {
		return apperrors.NotFound(errAnalysisNotFound)
	}
	if res.Status.Terminal() {
		return apperrors.Conflict(errAnalysisTerminal)
	}

	ts := now()
	res.Status = analysis.StatusFailed
	res.ErrorMessage = errorMessage
	res.UpdatedAt = ts
	res.CompletedAt = &ts
	return nil
}

func (r *AnalysisRepository) FailStale(ctx context.Context, cutoff time.Time, errorMessage string) ([]*analysis.Result, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var stale []*analysis.Result
	ts := now()
	for _, res := range r.results {
		if res.Status.Terminal() || !res.CreatedAt.Before(cutoff) {
			continue
		}
		res.Status = analysis.StatusFailed
		res.ErrorMessage = errorMessage
		res.UpdatedAt = ts
		res.CompletedAt = &ts
		out := *res
		stale = append(stale, &out)
	}
	return stale, nil
}

// deleteByDocument assumes the store lock is held.
func (r *AnalysisRepository) deleteByDocument(documentID uuid.UUID) {
	kept := r.results[:0]
	for _, res := range r.results {
		if res.DocumentID != documentID {
			kept = append(kept, res)
		}
	}
	r.results = kept
}

// find assumes the store lock is held.
func (r *AnalysisRepository) find(id uuid.UUID) *analysis.Result {
	for _, res := range r.results {
		if res.ID == id {
			return res
		}
	}
	return nil
}
