package auth

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"

	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2

	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgMissingAuthorization    = "missing authorization header"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgInsufficientRole        = "insufficient permissions"
	msgUserIDNotInContext      = "user id not found in context"
)
