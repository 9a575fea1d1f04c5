// Package audit records an append-only trail of user actions.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeDocument  ResourceType = "document"
	ResourceTypeAnalysis  ResourceType = "analysis"
	ResourceTypeSignature ResourceType = "signature"
	ResourceTypeUser      ResourceType = "user"
)

// Action represents the action being performed
type Action string

const (
	ActionUpload  Action = "upload"
	ActionRead    Action = "read"
	ActionDelete  Action = "delete"
	ActionArchive Action = "archive"
	ActionAnalyze Action = "analyze"
	ActionSign    Action = "sign"
	ActionSignup  Action = "signup"
	ActionLogin   Action = "login"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event is one audit record. Events are append-only: never updated or
// deleted.
type Event struct {
	ActorID      *uuid.UUID
	Action       Action
	ResourceType ResourceType
	ResourceID   *uuid.UUID
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
}

// Recorder persists audit events. Recording must never fail a user
// request; implementations log and swallow their own errors.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

const writeTimeout = 2 * time.Second

// Execer is the single pool method the postgres recorder needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRecorder writes events to the audit_logs table
// asynchronously so request latency is unaffected.
type PostgresRecorder struct {
	pool Execer
	log  *zap.Logger
}

func NewPostgresRecorder(pool Execer, log *zap.Logger) *PostgresRecorder {
	return &PostgresRecorder{pool: pool, log: log}
}

func (r *PostgresRecorder) Record(ctx context.Context, event Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		metadata, err := json.Marshal(orEmpty(event.Metadata))
		if err != nil {
			r.log.Warn("failed to encode audit metadata", zap.Error(err))
			metadata = []byte("{}")
		}

		query := `
			INSERT INTO audit_logs (actor_id, action, resource_type, resource_id, status, ip_address, user_agent, request_id, metadata, error_message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

		_, err = r.pool.Exec(ctx, query,
			event.ActorID, string(event.Action), string(event.ResourceType), event.ResourceID,
			string(event.Status), event.IPAddress, event.UserAgent, event.RequestID,
			metadata, event.ErrorMessage)
		if err != nil {
			r.log.Warn("failed to write audit event",
				zap.String("action", string(event.Action)),
				zap.Error(err))
		}
	}()
}

// LogRecorder emits events to the structured log; used when running
// without a database.
type LogRecorder struct {
	log *zap.Logger
}

func NewLogRecorder(log *zap.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(ctx context.Context, event Event) {
	fields := []zap.Field{
		zap.String("action", string(event.Action)),
		zap.String("resource_type", string(event.ResourceType)),
		zap.String("status", string(event.Status)),
		zap.String("request_id", event.RequestID),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.String()))
	}
	if event.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", event.ResourceID.String()))
	}
	if event.ErrorMessage != "" {
		fields = append(fields, zap.String("error_message", event.ErrorMessage))
	}
	r.log.Info("audit", fields...)
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
