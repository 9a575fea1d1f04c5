package handler

import (
	"net/http"
	"strings"
	"time"

	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/http/middleware"
	"legal-docs-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DocumentHandler struct {
	documents *service.DocumentService
	auditor   audit.Recorder
}

func NewDocumentHandler(documents *service.DocumentService, auditor audit.Recorder) *DocumentHandler {
	return &DocumentHandler{documents: documents, auditor: auditor}
}

type DocumentResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	OriginalName string            `json:"original_name"`
	MimeType     string            `json:"mime_type"`
	SizeBytes    int64             `json:"size_bytes"`
	Category     document.Category `json:"category"`
	Status       document.Status   `json:"status"`
	Version      int               `json:"version"`
	Description  string            `json:"description,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Upload accepts a multipart form with the file plus optional name,
// category, description and tags fields.
func (h *DocumentHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile(formKeyFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgNoFileUploaded)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgNoFileUploaded)
	}
	defer src.Close()

	var uploadedBy *uuid.UUID
	if userID, err := auth.GetUserID(c); err == nil {
		uploadedBy = &userID
	}

	doc, err := h.documents.Upload(c.Request().Context(), service.UploadInput{
		Content:      src,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get(echo.HeaderContentType),
		DeclaredSize: fileHeader.Size,
		Name:         c.FormValue(formKeyName),
		Category:     document.Category(c.FormValue(formKeyCategory)),
		Description:  c.FormValue(formKeyDescription),
		Tags:         parseTags(c.FormValue(formKeyTags)),
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		h.record(c, audit.ActionUpload, nil, audit.StatusFailure, err)
		return respondAppError(c, err)
	}

	h.record(c, audit.ActionUpload, &doc.ID, audit.StatusSuccess, nil)
	return c.JSON(http.StatusCreated, map[string]any{jsonKeyDocument: toDocumentResponse(doc)})
}

func (h *DocumentHandler) List(c echo.Context) error {
	docs, err := h.documents.List(c.Request().Context(), document.ListFilter{
		Category: document.Category(c.QueryParam(formKeyCategory)),
		Status:   document.Status(c.QueryParam(queryKeyStatus)),
		Limit:    defaultPageSize,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyDocuments: out, jsonKeyCount: len(out)})
}

func (h *DocumentHandler) Get(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	doc, err := h.documents.Get(c.Request().Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyDocument: toDocumentResponse(doc)})
}

func (h *DocumentHandler) Delete(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	if err := h.documents.Delete(c.Request().Context(), id); err != nil {
		h.record(c, audit.ActionDelete, &id, audit.StatusFailure, err)
		return respondAppError(c, err)
	}

	h.record(c, audit.ActionDelete, &id, audit.StatusSuccess, nil)
	return respondMessage(c, http.StatusOK, msgDocumentDeleted)
}

// Archive is admin-only, enforced by route middleware.
func (h *DocumentHandler) Archive(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	doc, err := h.documents.Archive(c.Request().Context(), id)
	if err != nil {
		h.record(c, audit.ActionArchive, &id, audit.StatusFailure, err)
		return respondAppError(c, err)
	}

	h.record(c, audit.ActionArchive, &id, audit.StatusSuccess, nil)
	return c.JSON(http.StatusOK, map[string]any{jsonKeyDocument: toDocumentResponse(doc)})
}

func (h *DocumentHandler) record(c echo.Context, action audit.Action, resourceID *uuid.UUID, status audit.Status, cause error) {
	event := audit.Event{
		Action:       action,
		ResourceType: audit.ResourceTypeDocument,
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

func parseDocumentID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param(paramID))
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func toDocumentResponse(doc *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID.String(),
		Name:         doc.Name,
		OriginalName: doc.OriginalName,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		Category:     doc.Category,
		Status:       doc.Status,
		Version:      doc.Version,
		Description:  doc.Description,
		Tags:         doc.Tags,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
