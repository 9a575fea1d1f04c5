// Package repository defines the storage adapter interfaces shared by
// the in-memory and postgres implementations.
package repository

import (
	"context"
	"time"

	"legal-docs-service/internal/domain/analysis"
	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/domain/signature"
	"legal-docs-service/internal/domain/user"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, input document.CreateDocumentInput) (*document.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*document.Document, error)
	List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error)
	// UpdateStatus persists an already-validated status transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, status document.Status) error
	// Delete removes the record and, by cascade, its signatures and
	// analysis results.
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnalysisRepository interface {
	// CreateRun inserts a new processing record for the document. It
	// fails with ErrAnalysisInProgress when a non-terminal run already
	// exists; this is the serialization point for concurrent starts.
	CreateRun(ctx context.Context, documentID uuid.UUID, version string) (*analysis.Result, error)
	GetByID(ctx context.Context, id uuid.UUID) (*analysis.Result, error)
	// LatestByDocument returns the most recent run for the document.
	LatestByDocument(ctx context.Context, documentID uuid.UUID) (*analysis.Result, error)
	// Complete moves a non-terminal run to completed with its payload.
	Complete(ctx context.Context, id uuid.UUID, payload analysis.Payload) error
	// Fail moves a non-terminal run to failed with an error message.
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
	// FailStale marks processing runs started before the cutoff as
	// failed and returns them so document statuses can be restored.
	FailStale(ctx context.Context, cutoff time.Time, errorMessage string) ([]*analysis.Result, error)
}

type SignatureRepository interface {
	Create(ctx context.Context, input signature.CreateSignatureInput) (*signature.Signature, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*signature.Signature, error)
}

type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*user.User, error)
}
