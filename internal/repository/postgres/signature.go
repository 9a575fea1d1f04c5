package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"legal-docs-service/internal/domain/signature"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SignatureRepository struct {
	db *DB
}

func NewSignatureRepository(db *DB) *SignatureRepository {
	return &SignatureRepository{db: db}
}

const signatureColumns = `id, document_id, user_id, signature_type, signature_data,
		page, position_x, position_y, width, height, ip_address, user_agent,
		verified, verification_method, metadata, created_at`

func (r *SignatureRepository) Create(ctx context.Context, input signature.CreateSignatureInput) (*signature.Signature, error) {
	metadata, err := json.Marshal(orEmptyMap(input.Metadata))
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSignatureFmt, err)
	}

	query := `
		INSERT INTO signatures (document_id, user_id, signature_type, signature_data, page, position_x, position_y, width, height, ip_address, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + signatureColumns

	row := r.db.Pool.QueryRow(ctx, query,
		input.DocumentID, input.UserID, string(input.Type), input.Data,
		input.Page, input.PositionX, input.PositionY, input.Width, input.Height,
		input.IPAddress, input.UserAgent, metadata,
	)

	sig, err := scanSignature(row)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSignatureFmt, err)
	}
	return sig, nil
}

func (r *SignatureRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*signature.Signature, error) {
	query := `SELECT ` + signatureColumns + ` FROM signatures WHERE document_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf(errFailedListSignaturesFmt, err)
	}
	defer rows.Close()

	var sigs []*signature.Signature
	for rows.Next() {
		sig, err := scanSignature(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedScanSignatureFmt, err)
		}
		sigs = append(sigs, sig)
	}
	return sigs, rows.Err()
}

func scanSignature(row pgx.Row) (*signature.Signature, error) {
	sig := &signature.Signature{}
	var sigType string
	var metadata []byte

	err := row.Scan(
		&sig.ID, &sig.DocumentID, &sig.UserID, &sigType, &sig.Data,
		&sig.Page, &sig.PositionX, &sig.PositionY, &sig.Width, &sig.Height,
		&sig.IPAddress, &sig.UserAgent, &sig.Verified, &sig.VerificationMethod,
		&metadata, &sig.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sig.Type = signature.Type(sigType)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &sig.Metadata); err != nil {
			return nil, err
		}
	}
	return sig, nil
}
