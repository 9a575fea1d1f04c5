// Package analyzer defines the external content-analysis contract and a
// built-in stub implementation.
package analyzer

import (
	"context"
	"io"

	"legal-docs-service/internal/domain/analysis"
)

// Analyzer produces structured findings for a document's bytes. The
// pipeline's state machine does not care how: a real NLP backend and
// the stub are interchangeable behind this interface.
type Analyzer interface {
	Analyze(ctx context.Context, content io.Reader, originalName, mimeType string) (*analysis.Payload, error)
}
