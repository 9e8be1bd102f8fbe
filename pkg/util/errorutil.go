package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewAllocationConflict signals that concurrent identifier allocations
// collided. Transient; the caller should retry the request.
func NewAllocationConflict(err error) error {
	return &DomainError{
		Code:       "ALLOCATION_CONFLICT",
		Message:    "identifier allocation conflicted with a concurrent request, try again",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"retryable": true},
		Err:        err,
	}
}

// NewDuplicateIdentifier reports a member identifier uniqueness violation.
// Under correct allocator locking this indicates a logic defect.
func NewDuplicateIdentifier(memberNo string, err error) error {
	return &DomainError{
		Code:       "DUPLICATE_IDENTIFIER",
		Message:    "member identifier already exists",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"member_no": memberNo},
		Err:        err,
	}
}

// NewInvalidTransferTarget rejects a transfer whose destination equals the
// member's current sector.
func NewInvalidTransferTarget() error {
	return NewDomainError(
		"INVALID_TRANSFER_TARGET",
		"destination sector equals the member's current sector",
		http.StatusUnprocessableEntity,
		nil,
	)
}

// NewMissingRecorder reports that no operator identity is available to
// attribute a ledger entry. This is a configuration error, never swallowed.
func NewMissingRecorder(err error) error {
	return &DomainError{
		Code:       "MISSING_RECORDER",
		Message:    "no operator identity available to record sector history",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}

// Postgres error codes that matter to the registry.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFail   = "40001"
	pgLockNotAvailable    = "55P03"
)

// MapPgError translates low-level postgres failures into the registry's
// error taxonomy. Unrecognized errors pass through unchanged so the caller
// can still wrap them.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == "members_member_no_key" {
			return NewDuplicateIdentifier("", err)
		}
		return NewConflict("unique constraint violated", map[string]any{"constraint": pgErr.ConstraintName})
	case pgForeignKeyViolation:
		return NewConflict("row is referenced by other records", map[string]any{"constraint": pgErr.ConstraintName})
	case pgSerializationFail, pgLockNotAvailable:
		return NewAllocationConflict(err)
	}
	return err
}
