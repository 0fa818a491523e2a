package model

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable code surfaced to API callers in error payloads.
type ErrorCode string

const (
	CodeSourceUnavailable    ErrorCode = "source_unavailable"
	CodeInsufficientArticles ErrorCode = "insufficient_articles"
	CodeModelUnavailable     ErrorCode = "model_unavailable"
	CodeTranslationFailed    ErrorCode = "translation_failed"
	CodeSynthesisFailed      ErrorCode = "synthesis_failed"
	CodeInvalidInput         ErrorCode = "invalid_input"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrInvalidInput is returned for empty or malformed request input.
// It is one of only two error classes that propagate to the caller;
// every other failure has a documented fallback and is absorbed at
// its stage.
var ErrInvalidInput = errors.New("invalid input")

// StageError wraps a failure with the pipeline stage it occurred in and
// its taxonomy code.
type StageError struct {
	Stage string
	Code  ErrorCode
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError builds a StageError.
func NewStageError(stage string, code ErrorCode, err error) *StageError {
	return &StageError{Stage: stage, Code: code, Err: err}
}

// CodeOf extracts the taxonomy code from an error chain. Unknown errors
// map to internal_error, invalid input to invalid_input.
func CodeOf(err error) ErrorCode {
	var se *StageError
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, ErrInvalidInput) {
		return CodeInvalidInput
	}
	return CodeInternalError
}
