package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks one analysis run. Completed and failed are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is a final status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Risk is a single flagged concern in a document.
type Risk struct {
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// Clause is an extracted clause with its page location.
type Clause struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Result is one run of the analysis pipeline against a document.
type Result struct {
	ID              uuid.UUID
	DocumentID      uuid.UUID
	Status          Status
	Entities        map[string][]string
	Clauses         map[string]Clause
	Risks           []Risk
	Summary         string
	AnalysisVersion string
	ProcessingTime  time.Duration
	ErrorMessage    string
	Metadata        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

// Payload is what an analyzer produces for a completed run.
type Payload struct {
	Entities       map[string][]string
	Clauses        map[string]Clause
	Risks          []Risk
	Summary        string
	ProcessingTime time.Duration
	Metadata       map[string]any
}
