package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrLoanAlreadyClosed = errors.New("loan is already paid off")
	ErrCorruptState      = errors.New("stored ledger snapshot is corrupt")
	ErrPromptNotFound    = errors.New("payment prompt not found")
	ErrStorage           = errors.New("storage operation failed")
	ErrNotify            = errors.New("notice delivery failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeLoanNotFound      = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyClosed = "LOAN_ALREADY_CLOSED"
	ErrCodeCorruptState      = "CORRUPT_STATE"
	ErrCodePromptNotFound    = "PROMPT_NOT_FOUND"
	ErrCodeStorageError      = "STORAGE_ERROR"
	ErrCodeNotifyError       = "NOTIFY_ERROR"
)

// CodeOf returns the business code carried by err, or "" when err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapInvalidInput(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidInput, message, ErrInvalidInput)
}

func WrapLoanNotFound(borrowerID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Borrower with ID %d not found", borrowerID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyClosed(borrowerID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyClosed,
		fmt.Sprintf("Loan for borrower %d is already paid off", borrowerID),
		ErrLoanAlreadyClosed,
	)
}

func WrapCorruptState(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCorruptState,
		"stored snapshot could not be decoded",
		errors.Join(ErrCorruptState, err),
	)
}

func WrapPromptNotFound(token string) *BusinessError {
	return NewBusinessError(
		ErrCodePromptNotFound,
		fmt.Sprintf("Payment prompt %s not found or expired", token),
		ErrPromptNotFound,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		errors.Join(ErrStorage, err),
	)
}

func WrapNotifyError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeNotifyError,
		"notice delivery failed",
		errors.Join(ErrNotify, err),
	)
}
