package search

import "fmt"

const (
	CodeValidation  = "validation"   // bad request: missing/short query, missing country
	CodeNoCoverage  = "no_coverage"  // requested country has no records in the index
	CodeUnavailable = "unavailable"  // index missing or unreadable
	CodeInternal    = "internal"
)

// Error is a code-carrying error for everything the HTTP shell surfaces.
// Validation and coverage problems are the caller's to fix; unavailable is an
// operational precondition and maps to a distinct status.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation, CodeNoCoverage:
		return 400
	case CodeUnavailable:
		return 503
	default:
		return 500
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

// NewValidationError reports a rejected request.
func NewValidationError(message string) error {
	return newError(CodeValidation, message)
}

// NewNoCoverageError reports a country selector with no records in the index.
func NewNoCoverageError(message string) error {
	return newError(CodeNoCoverage, message)
}

// NewUnavailableError reports a missing or unreadable index.
func NewUnavailableError(message string) error {
	return newError(CodeUnavailable, message)
}

// NewInternalError reports an unexpected query failure.
func NewInternalError(message string) error {
	return newError(CodeInternal, message)
}
