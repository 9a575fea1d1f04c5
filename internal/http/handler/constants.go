package handler

const (
	jsonKeyError      = "error"
	jsonKeyMessage    = "message"
	jsonKeyToken      = "token"
	jsonKeyUser       = "user"
	jsonKeyUsers      = "users"
	jsonKeyDocument   = "document"
	jsonKeyDocuments  = "documents"
	jsonKeyCount      = "count"
	jsonKeySignature  = "signature"
	jsonKeySignatures = "signatures"
	jsonKeyAnalysis   = "analysis"
	jsonKeyAnalysisID = "analysis_id"

	formKeyFile        = "file"
	formKeyName        = "name"
	formKeyCategory    = "category"
	formKeyDescription = "description"
	formKeyTags        = "tags"

	queryKeyStatus = "status"

	paramID = "id"

	defaultPageSize = 100

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidDocumentID       = "invalid document id"
	msgInvalidAnalysisID       = "invalid analysis id"
	msgNoFileUploaded          = "no file was uploaded"
	msgDocumentDeleted         = "document deleted successfully"
)
