package handler

import (
	"net/http"
	"time"

	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/domain/signature"
	"legal-docs-service/internal/http/middleware"
	"legal-docs-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SignatureHandler struct {
	signatures *service.SignatureService
	auditor    audit.Recorder
}

func NewSignatureHandler(signatures *service.SignatureService, auditor audit.Recorder) *SignatureHandler {
	return &SignatureHandler{signatures: signatures, auditor: auditor}
}

type SaveSignatureRequest struct {
	Type      signature.Type `json:"type"`
	Data      string         `json:"data"`
	Page      int            `json:"page"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Metadata  map[string]any `json:"metadata"`
}

type SignatureResponse struct {
	ID                 string         `json:"id"`
	DocumentID         string         `json:"document_id"`
	UserID             string         `json:"user_id,omitempty"`
	Type               signature.Type `json:"type"`
	Page               int            `json:"page"`
	PositionX          int            `json:"position_x"`
	PositionY          int            `json:"position_y"`
	Width              int            `json:"width"`
	Height             int            `json:"height"`
	Verified           bool           `json:"verified"`
	VerificationMethod string         `json:"verification_method,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Save records a signature against the document and marks the document
// signed. The signature image itself is never echoed back.
func (h *SignatureHandler) Save(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	var req SaveSignatureRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	var userID *uuid.UUID
	if uid, err := auth.GetUserID(c); err == nil {
		userID = &uid
	}

	sig, err := h.signatures.Save(c.Request().Context(), signature.CreateSignatureInput{
		DocumentID: id,
		UserID:     userID,
		Type:       req.Type,
		Data:       req.Data,
		Page:       req.Page,
		PositionX:  req.PositionX,
		PositionY:  req.PositionY,
		Width:      req.Width,
		Height:     req.Height,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
		Metadata:   req.Metadata,
	})
	if err != nil {
		h.record(c, &id, audit.StatusFailure, err)
		return respondAppError(c, err)
	}

	h.record(c, &sig.ID, audit.StatusSuccess, nil)
	return c.JSON(http.StatusCreated, map[string]any{jsonKeySignature: toSignatureResponse(sig)})
}

func (h *SignatureHandler) ListByDocument(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	sigs, err := h.signatures.ListByDocument(c.Request().Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	out := make([]SignatureResponse, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, toSignatureResponse(sig))
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeySignatures: out, jsonKeyCount: len(out)})
}

func (h *SignatureHandler) record(c echo.Context, resourceID *uuid.UUID, status audit.Status, cause error) {
	event := audit.Event{
		Action:       audit.ActionSign,
		ResourceType: audit.ResourceTypeSignature,
		ResourceID:   resourceID,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    middleware.GetRequestID(c),
	}
	if userID, err := auth.GetUserID(c); err == nil {
		event.ActorID = &userID
	}
	if cause != nil {
		event.ErrorMessage = cause.Error()
	}
	h.auditor.Record(c.Request().Context(), event)
}

func toSignatureResponse(sig *signature.Signature) SignatureResponse {
	resp := SignatureResponse{
		ID:                 sig.ID.String(),
		DocumentID:         sig.DocumentID.String(),
		Type:               sig.Type,
		Page:               sig.Page,
		PositionX:          sig.PositionX,
		PositionY:          sig.PositionY,
		Width:              sig.Width,
		Height:             sig.Height,
		Verified:           sig.Verified,
		VerificationMethod: sig.VerificationMethod,
		CreatedAt:          sig.CreatedAt,
	}
	if sig.UserID != nil {
		resp.UserID = sig.UserID.String()
	}
	return resp
}
