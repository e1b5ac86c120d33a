package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation        = 4000
	CodeInvalidAmount     = 4002
	CodeInvalidType       = 4003
	CodeAmountOverflow    = 4006
	CodeMissingNotes      = 4007
	CodeBulkResolution    = 4008
	CodeForbidden         = 4030
	CodeNotFound          = 4040
	CodeAccountNotFound   = 4041
	CodeInvalidState      = 4090
	CodeInsufficientFunds = 4220

	// 5xxx - Server errors
	CodePersistence    = 5001
	CodeBulkPartial    = 5002
	CodeInternalServer = 5000
)

// Root errors. Every error surfaced by the domain wraps exactly one of these.
var (
	// ErrValidation is returned for malformed or out-of-range input
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the actor lacks ownership or role
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned for transitions out of terminal or illegal states
	ErrInvalidState = errors.New("invalid state transition")

	// ErrInsufficientFunds is returned when a balance is too low for a requested debit
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPersistence is returned when the store operation itself failed
	ErrPersistence = errors.New("persistence failure")
)

// Specific errors
var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive integer", ErrValidation)
	ErrInvalidType        = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrAmountOverflow     = fmt.Errorf("%w: amount is too large and would cause overflow", ErrValidation)
	ErrInvalidCurrency    = fmt.Errorf("%w: unknown currency", ErrValidation)
	ErrInvalidID          = fmt.Errorf("%w: identifier cannot be empty", ErrValidation)
	ErrMissingNotes       = fmt.Errorf("%w: review notes are required", ErrValidation)
	ErrMissingReason      = fmt.Errorf("%w: reason is required", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: invalid status value", ErrValidation)
	ErrInvalidPoints      = fmt.Errorf("%w: points must be a non-negative integer", ErrValidation)
	ErrCustomAmountTooLow = fmt.Errorf("%w: crowdfunded contribution must be at least 2", ErrValidation)
	ErrPrizeUnavailable   = fmt.Errorf("%w: prize is not available", ErrValidation)
	ErrEmptySubmission    = fmt.Errorf("%w: at least one goal is required", ErrValidation)
	ErrDuplicateAccount   = fmt.Errorf("%w: account already exists for student and class", ErrValidation)
	ErrDailyLimitReached  = fmt.Errorf("%w: daily goal submission limit reached", ErrValidation)
	ErrAmbiguousClass     = fmt.Errorf("%w: class is required when enrolled in several classes", ErrValidation)

	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrClassNotFound       = fmt.Errorf("%w: class", ErrNotFound)
	ErrPrizeNotFound       = fmt.Errorf("%w: prize", ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("%w: goal", ErrNotFound)
	ErrRequestNotFound     = fmt.Errorf("%w: prize request", ErrNotFound)
	ErrSubmissionNotFound  = fmt.Errorf("%w: goal submission", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	ErrNotClassOwner   = fmt.Errorf("%w: teacher does not own the class", ErrForbidden)
	ErrRoleNotAllowed  = fmt.Errorf("%w: role not allowed for this operation", ErrForbidden)
	ErrNotOwner        = fmt.Errorf("%w: not the owner of this resource", ErrForbidden)
	ErrEditWindowEnded = fmt.Errorf("%w: only same-day pending submissions can be changed", ErrForbidden)

	ErrRequestNotPending    = fmt.Errorf("%w: prize request is no longer pending", ErrInvalidState)
	ErrSubmissionNotPending = fmt.Errorf("%w: goal submission is no longer pending", ErrInvalidState)

	ErrDatabaseConnection = fmt.Errorf("%w: database connection error", ErrPersistence)
	ErrConcurrentUpdate   = fmt.Errorf("%w: concurrent update conflict", ErrPersistence)
	ErrShuttingDown       = fmt.Errorf("%w: ledger is shutting down", ErrPersistence)
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	var bulkErr *BulkAwardError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &bulkErr):
		return CodeBulkPartial
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidType):
		return CodeInvalidType
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrMissingNotes):
		return CodeMissingNotes
	case IsBulkResolutionError(err):
		return CodeBulkResolution
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps a domain error to the HTTP status the API answers with
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID string
	Required  int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: required %d, available %d",
		e.AccountID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID string, required, available int64) error {
	return &InsufficientFundsError{
		AccountID: accountID,
		Required:  required,
		Available: available,
	}
}

// TransitionError reports a status change that the state machine refuses
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
	Err    error
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s cannot move from %s to %s: %v", e.Entity, e.ID, e.From, e.To, e.Err)
}

// Unwrap returns the underlying error
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_transition",
		"entity":     e.Entity,
		"id":         e.ID,
		"from":       e.From,
		"to":         e.To,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewTransitionError creates a detailed transition error
func NewTransitionError(entity, id, from, to string, err error) error {
	return &TransitionError{Entity: entity, ID: id, From: from, To: to, Err: err}
}

// BulkResolutionError lists the students a bulk award could not resolve to a single account
type BulkResolutionError struct {
	Missing   []string
	Ambiguous []string
}

// Error implements the error interface
func (e *BulkResolutionError) Error() string {
	return fmt.Sprintf("could not resolve student accounts (missing: %v, ambiguous: %v)", e.Missing, e.Ambiguous)
}

// Is checks if the target error is an ErrValidation
func (e *BulkResolutionError) Is(target error) bool {
	return target == ErrValidation
}

// LogFields returns a map of fields for structured logging
func (e *BulkResolutionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "bulk_resolution",
		"missing":    e.Missing,
		"ambiguous":  e.Ambiguous,
		"error_code": CodeBulkResolution,
	}
}

// BulkAwardError reports a failure in the middle of a bulk award.
// Completed deposits are not rolled back.
type BulkAwardError struct {
	Completed int
	Total     int
	StudentID string
	Err       error
}

// Error implements the error interface
func (e *BulkAwardError) Error() string {
	return fmt.Sprintf("bulk award stopped at student %s after %d of %d transactions: %v",
		e.StudentID, e.Completed, e.Total, e.Err)
}

// Unwrap returns the underlying error
func (e *BulkAwardError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *BulkAwardError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "bulk_award_partial",
		"completed":  e.Completed,
		"total":      e.Total,
		"student_id": e.StudentID,
		"error":      e.Err.Error(),
		"error_code": CodeBulkPartial,
	}
}

// IsBulkResolutionError checks if the error carries unresolved bulk students
func IsBulkResolutionError(err error) bool {
	var target *BulkResolutionError
	return errors.As(err, &target)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// LogFields extracts structured fields from err when it carries them
func LogFields(err error) map[string]any {
	var carrier interface{ LogFields() map[string]any }
	if errors.As(err, &carrier) {
		return carrier.LogFields()
	}
	if err == nil {
		return map[string]any{}
	}
	return map[string]any{"error": err.Error(), "error_code": ErrorCode(err)}
}
