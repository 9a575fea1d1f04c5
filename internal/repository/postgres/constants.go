package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errDocumentNotFound = "document not found"
	errAnalysisNotFound = "analysis result not found"
	errUserNotFound     = "user not found"

	errMissingRequiredFields = "name, storage key, mime type and size are required"
	errAnalysisActive        = "an analysis is already running for this document"
	errAnalysisTerminal      = "analysis result is terminal"
	errEmailRegistered       = "email already registered"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateDocumentFmt = "failed to create document: %w"
	errFailedGetDocumentFmt    = "failed to get document: %w"
	errFailedListDocumentsFmt  = "failed to list documents: %w"
	errFailedScanDocumentFmt   = "failed to scan document: %w"
	errFailedUpdateDocumentFmt = "failed to update document: %w"
	errFailedDeleteDocumentFmt = "failed to delete document: %w"

	errFailedCreateAnalysisFmt = "failed to create analysis result: %w"
	errFailedGetAnalysisFmt    = "failed to get analysis result: %w"
	errFailedScanAnalysisFmt   = "failed to scan analysis result: %w"
	errFailedUpdateAnalysisFmt = "failed to update analysis result: %w"
	errFailedEncodeAnalysisFmt = "failed to encode analysis payload: %w"
	errFailedDecodeAnalysisFmt = "failed to decode analysis payload: %w"

	errFailedCreateSignatureFmt = "failed to create signature: %w"
	errFailedListSignaturesFmt  = "failed to list signatures: %w"
	errFailedScanSignatureFmt   = "failed to scan signature: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"
	errFailedListUsersFmt  = "failed to list users: %w"
	errFailedScanUserFmt   = "failed to scan user: %w"
	errFailedUpdateUserFmt = "failed to update user: %w"
)

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf(errFailedParseDatabaseConfigFmt, err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf(errFailedCreateConnectionPoolFmt, err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf(errFailedPingDatabaseFmt, err)
}
