package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"legal-docs-service/internal/domain/analysis"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var analysisColumnNames = []string{
	"id", "document_id", "status", "entities", "clauses", "risks", "summary",
	"analysis_version", "processing_time_ms", "error_message", "metadata",
	"created_at", "updated_at", "completed_at",
}

func analysisRow(id, documentID uuid.UUID, status string) *pgxmock.Rows {
	now := time.Now().UTC()
	empty, _ := json.Marshal(map[string]any{})
	return pgxmock.NewRows(analysisColumnNames).AddRow(
		id, documentID, status, empty, empty, []byte(`[]`), "",
		"stub-1.0", int64(0), "", empty,
		now, now, (*time.Time)(nil),
	)
}

func TestAnalysisRepo_CreateRun(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	ctx := context.Background()
	id := uuid.New()
	docID := uuid.New()

	mock.ExpectQuery(`INSERT INTO analysis_results`).
		WithArgs(docID, "stub-1.0").
		WillReturnRows(analysisRow(id, docID, "processing"))

	run, err := r.CreateRun(ctx, docID, "stub-1.0")
	require.NoError(t, err)
	require.Equal(t, id, run.ID)
	require.Equal(t, analysis.StatusProcessing, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_CreateRun_ActiveRunConflict(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	docID := uuid.New()

	// The partial unique index over non-terminal runs refuses a second
	// concurrent run for the same document.
	mock.ExpectQuery(`INSERT INTO analysis_results`).
		WithArgs(docID, "stub-1.0").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := r.CreateRun(context.Background(), docID, "stub-1.0")
	require.ErrorIs(t, err, apperrors.ErrAnalysisInProgress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM analysis_results WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(analysisRow(id, uuid.New(), "completed"))
	run, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, analysis.StatusCompleted, run.Status)

	mock.ExpectQuery(`SELECT .+ FROM analysis_results WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_Complete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec(`UPDATE analysis_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := r.Complete(ctx, id, analysis.Payload{
		Summary:        "fine",
		ProcessingTime: 120 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_Complete_TerminalRunConflicts(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	ctx := context.Background()
	id := uuid.New()

	// Zero rows matched but the run exists: it is already terminal.
	mock.ExpectExec(`UPDATE analysis_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT .+ FROM analysis_results WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(analysisRow(id, uuid.New(), "completed"))

	err := r.Complete(ctx, id, analysis.Payload{})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_Complete_MissingRun(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec(`UPDATE analysis_results`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT .+ FROM analysis_results WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	err := r.Complete(ctx, id, analysis.Payload{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_Fail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE analysis_results`).
		WithArgs(id, "analyzer unreachable").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.Fail(context.Background(), id, "analyzer unreachable"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepo_FailStale(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAnalysisRepository(db)
	id := uuid.New()
	docID := uuid.New()
	cutoff := time.Now().Add(-5 * time.Minute)

	mock.ExpectQuery(`UPDATE analysis_results`).
		WithArgs(cutoff, "analysis timed out").
		WillReturnRows(analysisRow(id, docID, "failed"))

	stale, err := r.FailStale(context.Background(), cutoff, "analysis timed out")
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, docID, stale[0].DocumentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
