package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrStorage    = errors.New("storage failure")
)

// Validation reasons are machine codes; callers translate them for display.
const (
	ReasonRequired     = "required"
	ReasonTooLong      = "too_long"
	ReasonUnknownKind  = "unknown_kind"
	ReasonKindMismatch = "kind_mismatch"
	ReasonDetailExists = "detail_exists"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", err.Field, err.Reason)
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", err.Kind, err.ID)
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type StorageError struct {
	Op    string
	Cause error
}

func (err *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Cause)
}

func (err *StorageError) Unwrap() error {
	return err.Cause
}

func (err *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func storageError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *StorageError
	if errors.As(cause, &existing) {
		return cause
	}
	return &StorageError{Op: op, Cause: cause}
}

func invalid(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func notFound(kind string, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
