package utils

type AppError struct {
	Code    string
	Message string
	Origin  error             // Original error that caused this error, if any
	Fields  map[string]string // Per-field messages for validation failures
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Actor is authenticated but doesn't have permission
	ErrInvalidToken = "INVALID_TOKEN"

	// Account-specific errors
	ErrAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrAccountExists      = "ACCOUNT_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Content-specific errors
	ErrQuestionNotFound = "QUESTION_NOT_FOUND"
	ErrAnswerNotFound   = "ANSWER_NOT_FOUND"
	ErrAlreadyLiked     = "ALREADY_LIKED"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrDatabase = "database_error"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// NewValidationError carries per-field messages for a 400 response.
func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: "validation failed",
		Fields:  fields,
	}
}

// Specific error creators for common cases
func NewAccountNotFoundError(accountID string) *AppError {
	return &AppError{
		Code:    ErrAccountNotFound,
		Message: "Account not found: " + accountID,
	}
}

func NewQuestionNotFoundError(questionID string) *AppError {
	return &AppError{
		Code:    ErrQuestionNotFound,
		Message: "Question not found: " + questionID,
	}
}

func NewAnswerNotFoundError(answerID string) *AppError {
	return &AppError{
		Code:    ErrAnswerNotFound,
		Message: "Answer not found: " + answerID,
	}
}

func NewUnauthorizedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "Unauthorized: " + reason,
	}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "Forbidden: " + reason,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthorized ||
			appErr.Code == ErrForbidden ||
			appErr.Code == ErrInvalidToken
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrAccountNotFound, ErrQuestionNotFound, ErrAnswerNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrInvalidCredentials:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrAccountExists, ErrAlreadyLiked:
		return 409 // http.StatusConflict
	case ErrDatabase, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
