package memory

const (
	errDocumentNotFound      = "document not found"
	errAnalysisNotFound      = "analysis result not found"
	errUserNotFound          = "user not found"
	errMissingRequiredFields = "name, storage key, mime type and size are required"
	errAnalysisActive        = "an analysis is already running for this document"
	errAnalysisTerminal      = "analysis result is terminal"
	errStaleAnalysisMessage  = "analysis timed out"
)
