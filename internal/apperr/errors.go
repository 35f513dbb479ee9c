package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by every layer
const (
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodePersistence         = "PERSISTENCE"
	CodeMalformedCredential = "MALFORMED_CREDENTIAL"
	CodeUnauthorized        = "UNAUTHORIZED"
)

// DomainError carries a stable code next to a human readable message.
// Two DomainErrors match under errors.Is when their codes are equal.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on code so a specialised message still classifies as its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a domain error with the given code
func New(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinels for errors.Is checks
var (
	ErrDuplicateKey        = New(CodeDuplicateKey, "record already exists")
	ErrNotFound            = New(CodeNotFound, "record not found")
	ErrValidation          = New(CodeValidation, "invalid input")
	ErrInsufficientStock   = New(CodeInsufficientStock, "insufficient stock")
	ErrAccessDenied        = New(CodeAccessDenied, "access denied")
	ErrPersistence         = New(CodePersistence, "failed to persist changes")
	ErrMalformedCredential = New(CodeMalformedCredential, "malformed credential")
	ErrUnauthorized        = New(CodeUnauthorized, "invalid credentials")
)

func DuplicateKey(collection, key string) error {
	return New(CodeDuplicateKey, fmt.Sprintf("%s %q already exists", collection, key))
}

func NotFound(collection, key string) error {
	return New(CodeNotFound, fmt.Sprintf("%s %q not found", collection, key))
}

func Validation(format string, args ...any) error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func InsufficientStock(product string, available, requested int) error {
	return New(CodeInsufficientStock, fmt.Sprintf("insufficient stock for %q: available %d, requested %d", product, available, requested))
}

func AccessDenied(role, module string) error {
	return New(CodeAccessDenied, fmt.Sprintf("role %q may not access module %q", role, module))
}

// Persistence wraps a storage failure, keeping the cause reachable via errors.Unwrap.
func Persistence(op string, cause error) error {
	return &DomainError{Code: CodePersistence, Message: "failed to " + op, Cause: cause}
}

// CodeOf returns the code of the first DomainError in the chain, or "" if none.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeDuplicateKey, CodeInsufficientStock:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeUnauthorized, CodeMalformedCredential:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
