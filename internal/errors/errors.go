// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrTradeNotFound     = errors.New("trade not found")
	ErrTradeExists       = errors.New("trade id already exists")
	ErrOrderNotFound     = errors.New("order not found")
	ErrBlockNotFound     = errors.New("time block not found")
	ErrFlowNotFound      = errors.New("trading flow not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrFormulaNotFound   = errors.New("formula not found")
	ErrRuleNotFound      = errors.New("psychology rule not found")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrAlertNotFound     = errors.New("entry alert not found")
	ErrPullbackNotFound  = errors.New("pending pullback not found")
	ErrConditionNotFound = errors.New("condition not found")
	ErrConditionInUse    = errors.New("condition is referenced and cannot be deleted")
	ErrInvalidMode       = errors.New("invalid execution mode")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrTradeClosed       = errors.New("trade already closed")
	ErrSnapshotCorrupt   = errors.New("snapshot is corrupt")
	ErrConfigInvalid     = errors.New("invalid configuration")
)

// LedgerError represents an error from a trade ledger operation.
type LedgerError struct {
	TradeID string
	Op      string
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger error [%s] %s: %v", e.TradeID, e.Op, e.Err)
	}
	return fmt.Sprintf("ledger error [%s] %s", e.TradeID, e.Op)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError.
func NewLedgerError(tradeID, op string, err error) *LedgerError {
	return &LedgerError{
		TradeID: tradeID,
		Op:      op,
		Err:     err,
	}
}

// SnapshotError represents a persistence error on the state snapshot.
type SnapshotError struct {
	Path string
	Op   string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot error [%s] %s: %v", e.Op, e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(path, op string, err error) *SnapshotError {
	return &SnapshotError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
