package auth

// Error is a classified authentication or authorization failure. Every value
// below is terminal for the request that produced it.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidInput       = &Error{Code: "VALIDATION_ERROR", Message: "email and password are required"}
	ErrDuplicateEmail     = &Error{Code: "DUPLICATE_EMAIL", Message: "email is already registered"}
	ErrDuplicateHandle    = &Error{Code: "DUPLICATE_HANDLE", Message: "handle is already taken"}
	ErrPrincipalNotFound  = &Error{Code: "PRINCIPAL_NOT_FOUND", Message: "account not found"}
	ErrCredentialMismatch = &Error{Code: "CREDENTIAL_MISMATCH", Message: "password does not match"}
	ErrTokenInvalid       = &Error{Code: "INVALID_TOKEN", Message: "token is invalid"}
	ErrTokenExpired       = &Error{Code: "TOKEN_EXPIRED", Message: "token has expired"}
	ErrForbidden          = &Error{Code: "FORBIDDEN", Message: "insufficient permissions"}
	ErrHandleCollision    = &Error{Code: "HANDLE_COLLISION", Message: "could not allocate a unique handle"}
	ErrInvalidLocation    = &Error{Code: "INVALID_LOCATION", Message: "country, region and city must all be given and belong together"}
	ErrInvalidProfile     = &Error{Code: "INVALID_PROFILE", Message: "external profile has no email"}
	ErrUnknownVariant     = &Error{Code: "UNKNOWN_VARIANT", Message: "unknown account variant"}
)
