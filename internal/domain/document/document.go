package document

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a legal document.
type Category string

const (
	CategoryContracts            Category = "contracts"
	CategoryCompliance           Category = "compliance"
	CategoryLitigation           Category = "litigation"
	CategoryEmployment           Category = "employment"
	CategoryIntellectualProperty Category = "intellectual_property"
	CategoryRegulatory           Category = "regulatory"
	CategoryOther                Category = "other"
)

// Status tracks a document through its lifecycle.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusAnalyzed   Status = "analyzed"
	StatusSigned     Status = "signed"
	StatusArchived   Status = "archived"
)

type Document struct {
	ID           uuid.UUID
	Name         string
	OriginalName string
	StorageKey   string
	MimeType     string
	SizeBytes    int64
	Category     Category
	Status       Status
	Version      int
	Description  string
	Tags         []string
	Metadata     map[string]any
	UploadedBy   *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type CreateDocumentInput struct {
	Name         string
	OriginalName string
	StorageKey   string
	MimeType     string
	SizeBytes    int64
	Category     Category
	Description  string
	Tags         []string
	Metadata     map[string]any
	UploadedBy   *uuid.UUID
}

type ListFilter struct {
	Category Category
	Status   Status
	Limit    int
	Offset   int
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryContracts, CategoryCompliance, CategoryLitigation,
		CategoryEmployment, CategoryIntellectualProperty, CategoryRegulatory, CategoryOther:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusAnalyzed, StatusSigned, StatusArchived:
		return true
	}
	return false
}

// CanTransition reports whether a document may move from one status to
// another. Transitions are monotonic forward: analysis may cycle a
// document between uploaded/processing/analyzed, signing is allowed from
// any non-archived state, and archived is terminal. A signed document
// keeps its status; re-analysis of it runs without touching the marker.
func CanTransition(from, to Status) bool {
	if from == StatusArchived {
		return false
	}
	if to == StatusArchived || to == StatusSigned {
		return true
	}

	switch from {
	case StatusUploaded:
		return to == StatusProcessing
	case StatusProcessing:
		// Analysis failure returns the document to uploaded.
		return to == StatusAnalyzed || to == StatusUploaded
	case StatusAnalyzed:
		// Re-analysis is the one allowed backward edge.
		return to == StatusProcessing
	}
	return false
}
