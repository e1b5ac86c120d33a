package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsWrapTheirRoot(t *testing.T) {
	tests := []struct {
		name string
		err  error
		root error
	}{
		{"invalid amount", ErrInvalidAmount, ErrValidation},
		{"invalid type", ErrInvalidType, ErrValidation},
		{"missing notes", ErrMissingNotes, ErrValidation},
		{"custom amount", ErrCustomAmountTooLow, ErrValidation},
		{"account not found", ErrAccountNotFound, ErrNotFound},
		{"request not found", ErrRequestNotFound, ErrNotFound},
		{"not class owner", ErrNotClassOwner, ErrForbidden},
		{"edit window", ErrEditWindowEnded, ErrForbidden},
		{"request not pending", ErrRequestNotPending, ErrInvalidState},
		{"submission not pending", ErrSubmissionNotPending, ErrInvalidState},
		{"database connection", ErrDatabaseConnection, ErrPersistence},
		{"shutting down", ErrShuttingDown, ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.root)
			assert.ErrorIs(t, fmt.Errorf("context: %w", tt.err), tt.root)
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid amount", ErrInvalidAmount, CodeInvalidAmount},
		{"generic validation", ErrInvalidStatus, CodeValidation},
		{"forbidden", ErrNotClassOwner, CodeForbidden},
		{"account not found", ErrAccountNotFound, CodeAccountNotFound},
		{"prize not found", ErrPrizeNotFound, CodeNotFound},
		{"invalid state", ErrRequestNotPending, CodeInvalidState},
		{"insufficient funds", NewInsufficientFundsError("acc", 10, 5), CodeInsufficientFunds},
		{"persistence", ErrDatabaseConnection, CodePersistence},
		{"bulk resolution", &BulkResolutionError{Ambiguous: []string{"s1"}}, CodeBulkResolution},
		{"bulk partial", &BulkAwardError{Completed: 1, Total: 3, Err: ErrDatabaseConnection}, CodeBulkPartial},
		{"unknown", errors.New("boom"), CodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrMissingReason))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&BulkResolutionError{Missing: []string{"x"}}))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrEditWindowEnded))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrGoalNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrSubmissionNotPending))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(NewInsufficientFundsError("a", 2, 1)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrDatabaseConnection))
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError("acc-1", 200, 150)

	assert.True(t, IsInsufficientFundsError(err))
	assert.Contains(t, err.Error(), "required 200, available 150")

	var detailed *InsufficientFundsError
	assert.True(t, errors.As(err, &detailed))
	fields := detailed.LogFields()
	assert.Equal(t, "acc-1", fields["account_id"])
	assert.Equal(t, int64(200), fields["required"])
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("prize_request", "req-1", "denied", "denied", ErrRequestNotPending)

	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.Contains(t, err.Error(), "from denied to denied")
	assert.Equal(t, CodeInvalidState, LogFields(err)["error_code"])
}

func TestBulkErrors(t *testing.T) {
	resolution := &BulkResolutionError{Missing: []string{"s2"}, Ambiguous: []string{"s3"}}
	assert.ErrorIs(t, resolution, ErrValidation)
	assert.True(t, IsBulkResolutionError(fmt.Errorf("wrapped: %w", resolution)))

	partial := &BulkAwardError{Completed: 2, Total: 3, StudentID: "s3", Err: ErrDatabaseConnection}
	assert.ErrorIs(t, partial, ErrPersistence)
	assert.False(t, IsBulkResolutionError(partial))
	assert.Equal(t, 2, LogFields(partial)["completed"])
}

func TestLogFieldsFallback(t *testing.T) {
	fields := LogFields(ErrPrizeNotFound)
	assert.Equal(t, ErrPrizeNotFound.Error(), fields["error"])
	assert.Equal(t, CodeNotFound, fields["error_code"])
	assert.Empty(t, LogFields(nil))
}
