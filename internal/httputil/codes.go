package httputil

// Machine-readable error codes returned alongside error messages.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeInternalError      = "internal_error"
	CodeNotFound           = "not_found"
	CodeForbidden          = "forbidden"

	CodeInvalidCredentials  = "invalid_credentials"
	CodeAccountNotActivated = "account_not_activated"
	CodeInvalidActivation   = "invalid_activation"
	CodeInvalidResetToken   = "invalid_reset_token"
	CodeResetTokenExpired   = "reset_token_expired"

	CodeMissingAuth        = "missing_auth"
	CodeInvalidAuthHeader  = "invalid_auth_header"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeInvalidTokenUserID = "invalid_token_user_id"

	CodeTooManyRequests = "too_many_requests"
	CodeCooldownActive  = "cooldown_active"
)
