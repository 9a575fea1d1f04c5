package memory

import (
	"context"

	"legal-docs-service/internal/domain/document"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
)

type DocumentRepository struct {
	store *Store
	docs  []*document.Document
}

func (r *DocumentRepository) Create(ctx context.Context, input document.CreateDocumentInput) (*document.Document, error) {
	if input.Name == "" || input.StorageKey == "" || input.MimeType == "" || input.SizeBytes <= 0 {
		return nil, apperrors.Validation(errMissingRequiredFields)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category := input.Category
	if category == "" {
		category = document.CategoryOther
	}

	ts := now()
	doc := &document.Document{
		ID:           uuid.New(),
		Name:         input.Name,
		OriginalName: input.OriginalName,
		StorageKey:   input.StorageKey,
		MimeType:     input.MimeType,
		SizeBytes:    input.SizeBytes,
		Category:     category,
		Status:       document.StatusUploaded,
		Version:      1,
		Description:  input.Description,
		Tags:         append([]string(nil), input.Tags...),
		Metadata:     cloneMap(input.Metadata),
		UploadedBy:   input.UploadedBy,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	r.docs = append(r.docs, doc)

	out := *doc
	return &out, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc := r.find(id)
	if doc == nil {
		return nil, apperrors.NotFound(errDocumentNotFound)
	}
	out := *doc
	return &out, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	// Most-recent-first for display.
	var out []*document.Document
	for i := len(r.docs) - 1; i >= 0; i-- {
		doc := r.docs[i]
		if doc.DeletedAt != nil {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		c := *doc
		out = append(out, &c)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status document.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc := r.find(id)
	if doc == nil {
		return apperrors.NotFound(errDocumentNotFound)
	}
	doc.Status = status
	doc.UpdatedAt = now()
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc := r.find(id)
	if doc == nil {
		return apperrors.NotFound(errDocumentNotFound)
	}

	for i, d := range r.docs {
		if d.ID == id {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			break
		}
	}

	// Cascade, mirroring the postgres foreign keys.
	r.store.analyses.deleteByDocument(id)
	r.store.signatures.deleteByDocument(id)
	return nil
}

// find assumes the store lock is held.
func (r *DocumentRepository) find(id uuid.UUID) *document.Document {
	for _, doc := range r.docs {
		if doc.ID == id && doc.DeletedAt == nil {
			return doc
		}
	}
	return nil
}
