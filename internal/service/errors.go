package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/flowcoach-api/pkg/ai"
)

var (
	// ErrInvalidInput marks requests rejected before any external call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates the requested record does not exist for the user.
	ErrNotFound = errors.New("not found")
)

// InputError describes a missing or malformed field. It matches ErrInvalidInput.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is reports ErrInvalidInput as the error's category.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// GenerationError reports a failed completion call. Message is the upstream text.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(err error) *GenerationError {
	var upstream *ai.UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return &GenerationError{Message: upstream.Message, Err: err}
	}
	return &GenerationError{Message: err.Error(), Err: err}
}

// PersistenceError reports a failed insert after the result was already computed. The
// caller still receives the result alongside this error.
type PersistenceError struct {
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err only failed to store an otherwise valid result.
func IsPersistenceError(err error) bool {
	var persistErr *PersistenceError
	return errors.As(err, &persistErr)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
