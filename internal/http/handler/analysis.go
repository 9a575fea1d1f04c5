package handler

import (
	"net/http"
	"time"

	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/domain/analysis"
	"legal-docs-service/internal/http/middleware"
	"legal-docs-service/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AnalysisHandler struct {
	analyses *service.AnalysisService
	auditor  audit.Recorder
}

func NewAnalysisHandler(analyses *service.AnalysisService, auditor audit.Recorder) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses, auditor: auditor}
}

type AnalysisResponse struct {
	ID               string                     `json:"id"`
	DocumentID       string                     `json:"document_id"`
	Status           analysis.Status            `json:"status"`
	Entities         map[string][]string        `json:"entities,omitempty"`
	Clauses          map[string]analysis.Clause `json:"clauses,omitempty"`
	Risks            []analysis.Risk            `json:"risks,omitempty"`
	Summary          string                     `json:"summary,omitempty"`
	AnalysisVersion  string                     `json:"analysis_version,omitempty"`
	ProcessingTimeMs int64                      `json:"processing_time_ms,omitempty"`
	ErrorMessage     string                     `json:"error_message,omitempty"`
	Metadata         map[string]any             `json:"metadata,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	CompletedAt      *time.Time                 `json:"completed_at,omitempty"`
}

// Start schedules a background analysis run for the document and
// returns the run id before the analyzer finishes. Clients poll Get
// until the run reaches a terminal status.
func (h *AnalysisHandler) Start(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	run, err := h.analyses.Start(c.Request().Context(), id)
	if err != nil {
		h.record(c, &id, audit.StatusFailure, err)
		return respondAppError(c, err)
	}

	h.record(c, &id, audit.StatusSuccess, nil)
	return c.JSON(http.StatusOK, map[string]any{
		jsonKeyAnalysisID: run.ID.String(),
		queryKeyStatus:    run.Status,
	})
}

// Get returns the most recent analysis run for the document.
func (h *AnalysisHandler) Get(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidDocumentID)
	}

	run, err := h.analyses.Get(c.Request().Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyAnalysis: toAnalysisResponse(run)})
}

// GetResult looks a run up by its own id rather than its document.
func (h *AnalysisHandler) GetResult(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidAnalysisID)
	}

	run, err := h.analyses.GetResult(c.Request().Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{jsonKeyAnalysis: toAnalysisResponse(run)})
}

func (h *AnalysisHandler) record(c echo.Context, documentID *uuid.UUID, status audit.Status, cause error) {
	event := audit.Event{
		Action:       audit.ActionAnalyze,
		ResourceType: audit.ResourceTypeAnalysis,
		ResourceID:   documentID,
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

func toAnalysisResponse(run *analysis.Result) AnalysisResponse {
	return AnalysisResponse{
		ID:               run.ID.String(),
		DocumentID:       run.DocumentID.String(),
		Status:           run.Status,
		Entities:         run.Entities,
		Clauses:          run.Clauses,
		Risks:            run.Risks,
		Summary:          run.Summary,
		AnalysisVersion:  run.AnalysisVersion,
		ProcessingTimeMs: run.ProcessingTime.Milliseconds(),
		ErrorMessage:     run.ErrorMessage,
		Metadata:         run.Metadata,
		CreatedAt:        run.CreatedAt,
		CompletedAt:      run.CompletedAt,
	}
}
