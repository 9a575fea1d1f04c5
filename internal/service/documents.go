// Package service implements the document lifecycle, analysis pipeline
// and signature recording on top of the storage adapters.
package service

import (
	"context"
	"fmt"
	"io"

	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/repository"
	"legal-docs-service/internal/storage"
	"legal-docs-service/internal/upload"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	errUnknownCategoryFmt   = "unknown category %q"
	errUnknownStatusFmt     = "unknown status %q"
	errIllegalTransitionFmt = "cannot transition document from %s to %s"
	errStoreUploadMsg       = "failed to store uploaded file"
)

type DocumentService struct {
	docs      repository.DocumentRepository
	store     storage.ObjectStore
	validator *upload.Validator
	log       *zap.Logger
}

func NewDocumentService(docs repository.DocumentRepository, store storage.ObjectStore, validator *upload.Validator, log *zap.Logger) *DocumentService {
	return &DocumentService{docs: docs, store: store, validator: validator, log: log}
}

type UploadInput struct {
	Content      io.Reader
	OriginalName string
	MimeType     string
	// DeclaredSize is what the client claims; actual written bytes are
	// authoritative and re-checked against the limit.
	DeclaredSize int64
	Name         string
	Category     document.Category
	Description  string
	Tags         []string
	UploadedBy   *uuid.UUID
}

// Upload validates the file, persists its bytes, then creates the
// metadata record. Bytes land in storage before the record exists, so a
// crash in between orphans at most an unreferenced object, never a
// record pointing at missing or partial bytes.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*document.Document, error) {
	accepted, err := s.validator.Validate(input.OriginalName, input.MimeType, input.DeclaredSize)
	if err != nil {
		return nil, err
	}
	if input.Category != "" && !document.ValidCategory(input.Category) {
		return nil, apperrors.Validation(fmt.Sprintf(errUnknownCategoryFmt, input.Category))
	}

	// Bound the stream too: the declared size can lie.
	limited := io.LimitReader(input.Content, s.validator.MaxSizeBytes()+1)
	written, err := s.store.Put(ctx, accepted.StorageKey, limited)
	if err != nil {
		return nil, apperrors.Storage(errStoreUploadMsg, err)
	}
	if written > s.validator.MaxSizeBytes() {
		s.removeObject(ctx, accepted.StorageKey)
		return nil, apperrors.FileTooLarge(fmt.Sprintf("file size exceeds the limit of %d MB", s.validator.MaxSizeBytes()/(1024*1024)))
	}

	name := input.Name
	if name == "" {
		name = accepted.OriginalName
	}

	doc, err := s.docs.Create(ctx, document.CreateDocumentInput{
		Name:         name,
		OriginalName: accepted.OriginalName,
		StorageKey:   accepted.StorageKey,
		MimeType:     accepted.MimeType,
		SizeBytes:    written,
		Category:     input.Category,
		Description:  input.Description,
		Tags:         input.Tags,
		UploadedBy:   input.UploadedBy,
	})
	if err != nil {
		// No record was created; remove the stored bytes as well.
		s.removeObject(ctx, accepted.StorageKey)
		return nil, err
	}

	s.log.Info("document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("original_name", doc.OriginalName),
		zap.Int64("size_bytes", doc.SizeBytes))
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return s.docs.GetByID(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	if filter.Category != "" && !document.ValidCategory(filter.Category) {
		return nil, apperrors.Validation(fmt.Sprintf(errUnknownCategoryFmt, filter.Category))
	}
	if filter.Status != "" && !document.ValidStatus(filter.Status) {
		return nil, apperrors.Validation(fmt.Sprintf(errUnknownStatusFmt, filter.Status))
	}
	return s.docs.List(ctx, filter)
}

// Delete removes the metadata record (cascading to signatures and
// analysis results) and then the stored bytes. A missing object is
// logged and ignored so metadata and storage converge.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		s.log.Warn("failed to delete stored file, metadata removed",
			zap.String("document_id", id.String()),
			zap.String("storage_key", doc.StorageKey),
			zap.Error(err))
	}

	s.log.Info("document deleted", zap.String("document_id", id.String()))
	return nil
}

// UpdateStatus enforces the monotonic transition table before
// persisting.
func (s *DocumentService) UpdateStatus(ctx context.Context, id uuid.UUID, status document.Status) (*document.Document, error) {
	if !document.ValidStatus(status) {
		return nil, apperrors.Validation(fmt.Sprintf(errUnknownStatusFmt, status))
	}

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !document.CanTransition(doc.Status, status) {
		return nil, apperrors.Validation(fmt.Sprintf(errIllegalTransitionFmt, doc.Status, status))
	}

	if err := s.docs.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	doc.Status = status
	return doc, nil
}

// Archive moves a document to its terminal status.
func (s *DocumentService) Archive(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return s.UpdateStatus(ctx, id, document.StatusArchived)
}

func (s *DocumentService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to clean up stored object", zap.String("storage_key", key), zap.Error(err))
	}
}
