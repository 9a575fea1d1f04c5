package memory

import (
	"context"

	"legal-docs-service/internal/domain/signature"

	"github.com/google/uuid"
)

type SignatureRepository struct {
	store *Store
	sigs  []*signature.Signature
}

func (r *SignatureRepository) Create(ctx context.Context, input signature.CreateSignatureInput) (*signature.Signature, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sig := &signature.Signature{
		ID:         uuid.New(),
		DocumentID: input.DocumentID,
		UserID:     input.UserID,
		Type:       input.Type,
		Data:       input.Data,
		Page:       input.Page,
		PositionX:  input.PositionX,
		PositionY:  input.PositionY,
		Width:      input.Width,
		Height:     input.Height,
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
		Metadata:   cloneMap(input.Metadata),
		CreatedAt:  now(),
	}
	r.sigs = append(r.sigs, sig)

	out := *sig
	return &out, nil
}

func (r *SignatureRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*signature.Signature, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*signature.Signature
	for _, sig := range r.sigs {
		if sig.DocumentID == documentID {
			c := *sig
			out = append(out, &c)
		}
	}
	return out, nil
}

// deleteByDocument assumes the store lock is held.
func (r *SignatureRepository) deleteByDocument(documentID uuid.UUID) {
	kept := r.sigs[:0]
	for _, sig := range r.sigs {
		if sig.DocumentID != documentID {
			kept = append(kept, sig)
		}
	}
	r.sigs = kept
}
