// Package errors defines the error taxonomy shared by every analysis
// component in rfx.
package errors

import (
	"fmt"
	"time"

	"github.com/refactorlab/rfx/internal/types"
)

// ErrorType classifies which subsystem produced an AnalysisError.
type ErrorType string

const (
	ErrorTypeNormalization ErrorType = "normalization"
	ErrorTypeScoring       ErrorType = "scoring"
	ErrorTypeCache         ErrorType = "cache"
	ErrorTypeGraph         ErrorType = "graph"
	ErrorTypeDirectory     ErrorType = "directory"
	ErrorTypeFileSplit     ErrorType = "filesplit"
	ErrorTypePipeline      ErrorType = "pipeline"
	ErrorTypeParse         ErrorType = "parse"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeInternal      ErrorType = "internal"
)

// AnalysisError is the single error type returned by every component.
// Component-specific constructors (NewScoringError, NewCacheError, ...)
// just fill in Type and Component.
type AnalysisError struct {
	Type        ErrorType
	Component   string
	EntityID    types.EntityID
	FileID      types.FileID
	FilePath    string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

func newAnalysisError(t ErrorType, component string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       t,
		Component:  component,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func NewNormalizationError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeNormalization, component, err)
}

func NewScoringError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeScoring, component, err)
}

func NewCacheError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeCache, component, err)
}

func NewGraphError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeGraph, component, err)
}

func NewDirectoryError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeDirectory, component, err)
}

func NewFileSplitError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeFileSplit, component, err)
}

func NewPipelineError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypePipeline, component, err)
}

func NewParseError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeParse, component, err)
}

func NewConfigError(component string, err error) *AnalysisError {
	return newAnalysisError(ErrorTypeConfig, component, err)
}

// WithEntity attaches the entity the error occurred on.
func (e *AnalysisError) WithEntity(id types.EntityID) *AnalysisError {
	e.EntityID = id
	return e
}

// WithFile attaches the file the error occurred on.
func (e *AnalysisError) WithFile(fileID types.FileID, path string) *AnalysisError {
	e.FileID = fileID
	e.FilePath = path
	return e
}

// WithRecoverable marks whether the caller can skip this error and continue.
func (e *AnalysisError) WithRecoverable(recoverable bool) *AnalysisError {
	e.Recoverable = recoverable
	return e
}

func (e *AnalysisError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s(%s) on %s: %v", e.Type, e.Component, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s(%s): %v", e.Type, e.Component, e.Underlying)
}

func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

func (e *AnalysisError) IsRecoverable() bool {
	return e.Recoverable
}

// MultiError aggregates independent component failures that do not abort
// the whole pipeline (e.g. one file failing to parse).
type MultiError struct {
	Errors []error
}

func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors[0])
	}
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
