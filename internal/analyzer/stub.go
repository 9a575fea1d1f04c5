package analyzer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"legal-docs-service/internal/domain/analysis"
)

const (
	// Version tags results produced by the stub.
	Version = "stub-1.0"

	errUnsupportedFileTypeFmt = "unsupported file type for analysis: %s"
)

// Stub returns canned findings per file type with a randomized risk
// score and simulated processing latency. It stands in for a real NLP
// service during development and tests.
type Stub struct {
	// Delay simulates backend latency; zero means no delay.
	Delay time.Duration
}

func NewStub(delay time.Duration) *Stub {
	return &Stub{Delay: delay}
}

func (s *Stub) Analyze(ctx context.Context, content io.Reader, originalName, mimeType string) (*analysis.Payload, error) {
	start := time.Now()

	// Drain the content so the stub exercises the same read path a real
	// backend would.
	if _, err := io.Copy(io.Discard, content); err != nil {
		return nil, err
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	var payload *analysis.Payload
	switch ext {
	case ".pdf":
		payload = pdfFindings()
	case ".doc", ".docx":
		payload = wordFindings()
	case ".txt":
		payload = textFindings()
	default:
		return nil, fmt.Errorf(errUnsupportedFileTypeFmt, ext)
	}

	payload.Metadata = map[string]any{
		"fileName":   originalName,
		"fileType":   ext,
		"mimeType":   mimeType,
		"riskScore":  rand.Intn(100),
		"analyzedAt": time.Now().UTC().Format(time.RFC3339),
	}
	payload.ProcessingTime = time.Since(start)
	return payload, nil
}

func pdfFindings() *analysis.Payload {
	return &analysis.Payload{
		Entities: map[string][]string{
			"parties": {"ABC Corporation", "XYZ LLC"},
			"dates":   {"January 1, 2023", "December 31, 2023"},
		},
		Clauses: map[string]analysis.Clause{
			"liability":     {Text: "Standard liability clause found", Page: 2},
			"payment_terms": {Text: "Clear payment terms defined", Page: 3},
		},
		Risks: []analysis.Risk{
			{
				Severity:       "medium",
				Title:          "Liability Clause",
				Description:    "Standard liability clause found",
				Recommendation: "Review liability clause on page 2",
			},
			{
				Severity:       "low",
				Title:          "Payment Terms",
				Description:    "Clear payment terms defined",
				Recommendation: "Ensure payment terms align with company policy",
			},
		},
		Summary: "This document appears to be a standard legal agreement with typical clauses.",
	}
}

func wordFindings() *analysis.Payload {
	return &analysis.Payload{
		Entities: map[string][]string{
			"parties": {"ABC Corporation", "XYZ LLC"},
		},
		Clauses: map[string]analysis.Clause{
			"confidentiality": {Text: "Unusually broad confidentiality requirements", Page: 1},
			"termination":     {Text: "Termination terms favor the other party", Page: 4},
		},
		Risks: []analysis.Risk{
			{
				Severity:       "high",
				Title:          "Confidentiality Clause",
				Description:    "Unusually broad confidentiality requirements",
				Recommendation: "Have legal counsel review confidentiality clause",
			},
			{
				Severity:       "medium",
				Title:          "Termination Terms",
				Description:    "Termination terms favor the other party",
				Recommendation: "Consider negotiating more balanced termination terms",
			},
		},
		Summary: "This document contains some clauses that may require legal review.",
	}
}

func textFindings() *analysis.Payload {
	return &analysis.Payload{
		Entities: map[string][]string{},
		Clauses: map[string]analysis.Clause{
			"general_terms": {Text: "Basic terms outlined", Page: 1},
		},
		Risks: []analysis.Risk{
			{
				Severity:       "low",
				Title:          "General Terms",
				Description:    "Basic terms outlined",
				Recommendation: "Consider converting to a formal legal document if intended for legal use",
			},
		},
		Summary: "This appears to be a simple text document with minimal legal complexity.",
	}
}
