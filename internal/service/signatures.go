package service

import (
	"context"
	"fmt"

	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/domain/signature"
	"legal-docs-service/internal/repository"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	errSignatureDataRequired = "signature data is required"
	errUnknownSignatureFmt   = "unknown signature type %q"
	errSignaturePageMsg      = "page must be at least 1"
	errSignDocumentArchived  = "archived documents cannot be signed"
	errSignatureExtentNegFmt = "signature %s cannot be negative"
)

type SignatureService struct {
	docs repository.DocumentRepository
	sigs repository.SignatureRepository
	log  *zap.Logger
}

func NewSignatureService(docs repository.DocumentRepository, sigs repository.SignatureRepository, log *zap.Logger) *SignatureService {
	return &SignatureService{docs: docs, sigs: sigs, log: log}
}

// Save validates and persists a signature, then moves the document to
// signed. Signing is independent of analysis.
func (s *SignatureService) Save(ctx context.Context, input signature.CreateSignatureInput) (*signature.Signature, error) {
	if input.Data == "" {
		return nil, apperrors.InvalidSignature(errSignatureDataRequired)
	}
	if !signature.ValidType(input.Type) {
		return nil, apperrors.InvalidSignature(fmt.Sprintf(errUnknownSignatureFmt, input.Type))
	}
	if input.Page < 0 {
		return nil, apperrors.InvalidSignature(errSignaturePageMsg)
	}
	if input.PositionX < 0 || input.PositionY < 0 {
		return nil, apperrors.InvalidSignature(fmt.Sprintf(errSignatureExtentNegFmt, "position"))
	}
	if input.Width < 0 || input.Height < 0 {
		return nil, apperrors.InvalidSignature(fmt.Sprintf(errSignatureExtentNegFmt, "size"))
	}

	doc, err := s.docs.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == document.StatusArchived {
		return nil, apperrors.DocumentArchived(errSignDocumentArchived)
	}

	applyDefaults(&input)

	sig, err := s.sigs.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	if doc.Status != document.StatusSigned && document.CanTransition(doc.Status, document.StatusSigned) {
		if err := s.docs.UpdateStatus(ctx, input.DocumentID, document.StatusSigned); err != nil {
			s.log.Warn("failed to mark document signed",
				zap.String("document_id", input.DocumentID.String()), zap.Error(err))
		}
	}

	s.log.Info("signature saved",
		zap.String("signature_id", sig.ID.String()),
		zap.String("document_id", input.DocumentID.String()),
		zap.String("type", string(sig.Type)))
	return sig, nil
}

// ListByDocument returns all signatures on a document.
func (s *SignatureService) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*signature.Signature, error) {
	if _, err := s.docs.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.sigs.ListByDocument(ctx, documentID)
}

func applyDefaults(input *signature.CreateSignatureInput) {
	if input.Page == 0 {
		input.Page = signature.DefaultPage
	}
	if input.Width == 0 {
		input.Width = signature.DefaultWidth
	}
	if input.Height == 0 {
		input.Height = signature.DefaultHeight
	}
}
