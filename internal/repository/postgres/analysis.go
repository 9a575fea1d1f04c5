package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legal-docs-service/internal/domain/analysis"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AnalysisRepository struct {
	db *DB
}

func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, document_id, status, entities, clauses, risks, summary,
		analysis_version, processing_time_ms, error_message, metadata,
		created_at, updated_at, completed_at`

// CreateRun relies on the partial unique index over non-terminal runs
// (see migrations) so concurrent starts for one document serialize in
// the database rather than in process memory.
func (r *AnalysisRepository) CreateRun(ctx context.Context, documentID uuid.UUID, version string) (*analysis.Result, error) {
	query := `
		INSERT INTO analysis_results (document_id, status, analysis_version)
		VALUES ($1, 'processing', $2)
		RETURNING ` + analysisColumns

	res, err := scanAnalysis(r.db.Pool.QueryRow(ctx, query, documentID, version))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AnalysisInProgress(errAnalysisActive)
		}
		return nil, fmt.Errorf(errFailedCreateAnalysisFmt, err)
	}
	return res, nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*analysis.Result, error) {
	query := `SELECT ` + analysisColumns + ` FROM analysis_results WHERE id = $1`

	res, err := scanAnalysis(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAnalysisNotFound)
		}
		return nil, fmt.Errorf(errFailedGetAnalysisFmt, err)
	}
	return res, nil
}

func (r *AnalysisRepository) LatestByDocument(ctx context.Context, documentID uuid.UUID) (*analysis.Result, error) {
	query := `SELECT ` + analysisColumns + ` FROM analysis_results
		WHERE document_id = $1 ORDER BY created_at DESC LIMIT 1`

	res, err := scanAnalysis(r.db.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errAnalysisNotFound)
		}
		return nil, fmt.Errorf(errFailedGetAnalysisFmt, err)
	}
	return res, nil
}

func (r *AnalysisRepository) Complete(ctx context.Context, id uuid.UUID, payload analysis.Payload) error {
	entities, clauses, risks, metadata, err := encodePayload(payload)
	if err != nil {
		return fmt.Errorf(errFailedEncodeAnalysisFmt, err)
	}

	query := `
		UPDATE analysis_results
		SET status = 'completed', entities = $2, clauses = $3, risks = $4,
			summary = $5, processing_time_ms = $6, metadata = $7,
			updated_at = now(), completed_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	tag, err := r.db.Pool.Exec(ctx, query, id, entities, clauses, risks,
		payload.Summary, payload.ProcessingTime.Milliseconds(), metadata)
	if err != nil {
		return fmt.Errorf(errFailedUpdateAnalysisFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return r.terminalOrMissing(ctx, id)
	}
	return nil
}

func (r *AnalysisRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE analysis_results
		SET status = 'failed', error_message = $2, updated_at = now(), completed_at = now()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	tag, err := r.db.Pool.Exec(ctx, query, id, errorMessage)
	if err != nil {
		return fmt.Errorf(errFailedUpdateAnalysisFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return r.terminalOrMissing(ctx, id)
	}
	return nil
}

func (r *AnalysisRepository) FailStale(ctx context.Context, cutoff time.Time, errorMessage string) ([]*analysis.Result, error) {
	query := `
		UPDATE analysis_results
		SET status = 'failed', error_message = $2, updated_at = now(), completed_at = now()
		WHERE status IN ('pending', 'processing') AND created_at < $1
		RETURNING ` + analysisColumns

	rows, err := r.db.Pool.Query(ctx, query, cutoff, errorMessage)
	if err != nil {
		return nil, fmt.Errorf(errFailedUpdateAnalysisFmt, err)
	}
	defer rows.Close()

	var results []*analysis.Result
	for rows.Next() {
		res, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedScanAnalysisFmt, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// terminalOrMissing distinguishes an update that matched no rows because
// the run is already terminal from one where the run does not exist.
func (r *AnalysisRepository) terminalOrMissing(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict(errAnalysisTerminal)
}

func encodePayload(payload analysis.Payload) (entities, clauses, risks, metadata []byte, err error) {
	if entities, err = json.Marshal(orEmptyEntities(payload.Entities)); err != nil {
		return
	}
	if clauses, err = json.Marshal(orEmptyClauses(payload.Clauses)); err != nil {
		return
	}
	if risks, err = json.Marshal(orEmptyRisks(payload.Risks)); err != nil {
		return
	}
	metadata, err = json.Marshal(orEmptyMap(payload.Metadata))
	return
}

func scanAnalysis(row pgx.Row) (*analysis.Result, error) {
	res := &analysis.Result{}
	var status string
	var entities, clauses, risks, metadata []byte
	var processingMs int64

	err := row.Scan(
		&res.ID, &res.DocumentID, &status, &entities, &clauses, &risks, &res.Summary,
		&res.AnalysisVersion, &processingMs, &res.ErrorMessage, &metadata,
		&res.CreatedAt, &res.UpdatedAt, &res.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	res.Status = analysis.Status(status)
	res.ProcessingTime = time.Duration(processingMs) * time.Millisecond

	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &res.Entities); err != nil {
			return nil, fmt.Errorf(errFailedDecodeAnalysisFmt, err)
		}
	}
	if len(clauses) > 0 {
		if err := json.Unmarshal(clauses, &res.Clauses); err != nil {
			return nil, fmt.Errorf(errFailedDecodeAnalysisFmt, err)
		}
	}
	if len(risks) > 0 {
		if err := json.Unmarshal(risks, &res.Risks); err != nil {
			return nil, fmt.Errorf(errFailedDecodeAnalysisFmt, err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &res.Metadata); err != nil {
			return nil, fmt.Errorf(errFailedDecodeAnalysisFmt, err)
		}
	}
	return res, nil
}

func orEmptyEntities(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

func orEmptyClauses(m map[string]analysis.Clause) map[string]analysis.Clause {
	if m == nil {
		return map[string]analysis.Clause{}
	}
	return m
}

func orEmptyRisks(r []analysis.Risk) []analysis.Risk {
	if r == nil {
		return []analysis.Risk{}
	}
	return r
}
