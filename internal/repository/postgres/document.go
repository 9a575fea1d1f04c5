package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"legal-docs-service/internal/domain/document"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DocumentRepository struct {
	db *DB
}

func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, name, original_name, storage_key, mime_type, size_bytes,
		category, status, version, description, tags, metadata, uploaded_by,
		created_at, updated_at, deleted_at`

func (r *DocumentRepository) Create(ctx context.Context, input document.CreateDocumentInput) (*document.Document, error) {
	if input.Name == "" || input.StorageKey == "" || input.MimeType == "" || input.SizeBytes <= 0 {
		return nil, apperrors.Validation(errMissingRequiredFields)
	}

	category := input.Category
	if category == "" {
		category = document.CategoryOther
	}

	metadata, err := json.Marshal(orEmptyMap(input.Metadata))
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateDocumentFmt, err)
	}

	query := `
		INSERT INTO documents (name, original_name, storage_key, mime_type, size_bytes, category, description, tags, metadata, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + documentColumns

	row := r.db.Pool.QueryRow(ctx, query,
		input.Name, input.OriginalName, input.StorageKey, input.MimeType, input.SizeBytes,
		string(category), input.Description, input.Tags, metadata, input.UploadedBy,
	)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateDocumentFmt, err)
	}
	return doc, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`

	doc, err := scanDocument(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errDocumentNotFound)
		}
		return nil, fmt.Errorf(errFailedGetDocumentFmt, err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE deleted_at IS NULL`
	var args []any

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errFailedListDocumentsFmt, err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedScanDocumentFmt, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	query := `UPDATE documents SET status = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf(errFailedUpdateDocumentFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errDocumentNotFound)
	}
	return nil
}

// Delete removes the document row; signatures and analysis results go
// with it via ON DELETE CASCADE.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteDocumentFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errDocumentNotFound)
	}
	return nil
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	doc := &document.Document{}
	var category, status string
	var metadata []byte

	err := row.Scan(
		&doc.ID, &doc.Name, &doc.OriginalName, &doc.StorageKey, &doc.MimeType, &doc.SizeBytes,
		&category, &status, &doc.Version, &doc.Description, &doc.Tags, &metadata, &doc.UploadedBy,
		&doc.CreatedAt, &doc.UpdatedAt, &doc.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Category = document.Category(category)
	doc.Status = document.Status(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
