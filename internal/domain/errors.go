package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid job fields")

	// ErrDuplicateID is matched by every *DuplicateIDError.
	ErrDuplicateID = errors.New("job id already exists")

	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("job store unavailable")

	// ErrJobNotFound is returned when a job cannot be found by ID.
	ErrJobNotFound = errors.New("job not found")
)

// ErrorKind is the stable, wire-level name of a failure category.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindDuplicateID ErrorKind = "duplicate_id"
	KindPersistence ErrorKind = "persistence"
	KindNotFound    ErrorKind = "not_found"
	KindInternal    ErrorKind = "internal"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateIDError carries the conflicting id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("job id %q already exists", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// PersistenceError wraps a failed read or write of the storage medium.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("job store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// KindOf maps an error to its ErrorKind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateID):
		return KindDuplicateID
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrJobNotFound):
		return KindNotFound
	}
	return KindInternal
}

// DetailOf builds the wire form of err, including field or id context when
// the error carries it.
func DetailOf(err error) *ErrorDetail {
	if err == nil {
		return nil
	}
	d := &ErrorDetail{Kind: KindOf(err), Message: err.Error()}

	var ve *ValidationError
	if errors.As(err, &ve) {
		d.Field = ve.Field
	}
	var de *DuplicateIDError
	if errors.As(err, &de) {
		d.ID = de.ID
	}
	return d
}
