package qfold

import (
	"context"
	"errors"
	"fmt"

	"github.com/qfold/qfold/blobstore"
	"github.com/qfold/qfold/container"
	"github.com/qfold/qfold/convert"
	"github.com/qfold/qfold/resource"
)

// Machine-readable codes carried by DetailedError. Callers that branch on
// failure modes should match on these rather than on message text.
const (
	CodeInvalidConfig      = "invalid_config"
	CodeInvalidParameter   = "invalid_parameter"
	CodeEmptyInput         = "empty_input"
	CodeResourceExhausted  = "resource_exhausted"
	CodeIntegrityFailure   = "integrity_failure"
	CodeUnsupportedVersion = "unsupported_version"
	CodeMalformedContainer = "malformed_container"
	CodeNotFound           = "not_found"
	CodeCanceled           = "canceled"
	CodeProcessingFailure  = "processing_failure"
)

// ErrInvalidParameter is returned when a parameter is invalid.
type ErrInvalidParameter struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}

// DetailedError is the error type surfaced by Engine operations. It pairs a
// machine-readable Code with a human-readable Message and concrete recovery
// suggestions, and unwraps to the underlying cause so errors.Is and
// errors.As keep working across the translation boundary.
type DetailedError struct {
	Code        string
	Message     string
	Suggestions []string

	cause error
}

func (e *DetailedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *DetailedError) Unwrap() error {
	return e.cause
}

// translateError maps errors from the pipeline packages into DetailedError
// values with a stable code and recovery suggestions. Already-translated
// errors pass through unchanged. op names the public operation for the
// message prefix.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var detailed *DetailedError
	if errors.As(err, &detailed) {
		return err
	}

	var invalid *ErrInvalidParameter
	if errors.As(err, &invalid) {
		return &DetailedError{
			Code:    CodeInvalidParameter,
			Message: fmt.Sprintf("%s: parameter rejected", op),
			Suggestions: []string{
				"check the named parameter against its documented constraint",
			},
			cause: err,
		}
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &DetailedError{
			Code:    CodeCanceled,
			Message: fmt.Sprintf("%s: aborted by context", op),
			cause:   err,
		}

	case errors.Is(err, convert.ErrEmptyInput):
		return &DetailedError{
			Code:    CodeEmptyInput,
			Message: fmt.Sprintf("%s: input is empty", op),
			Suggestions: []string{
				"provide at least one byte of input",
			},
			cause: err,
		}

	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return &DetailedError{
			Code:    CodeResourceExhausted,
			Message: fmt.Sprintf("%s: memory budget exhausted", op),
			Suggestions: []string{
				"raise the memory limit on the resource controller",
				"switch to the low-resource preset",
				"split the input and compress the pieces separately",
			},
			cause: err,
		}

	case errors.Is(err, blobstore.ErrNotFound):
		return &DetailedError{
			Code:    CodeNotFound,
			Message: fmt.Sprintf("%s: archive not found", op),
			Suggestions: []string{
				"list the store to check the archive name",
			},
			cause: err,
		}
	}

	var version *container.ErrUnsupportedVersion
	if errors.As(err, &version) {
		return &DetailedError{
			Code:    CodeUnsupportedVersion,
			Message: fmt.Sprintf("%s: archive format version %d is not supported", op, version.Have),
			Suggestions: []string{
				fmt.Sprintf("decode the archive with a release that writes format version %d", version.Have),
				"re-compress the original data with this release",
			},
			cause: err,
		}
	}

	var checksum *container.ErrChecksumMismatch
	if errors.As(err, &checksum) {
		return &DetailedError{
			Code:    CodeIntegrityFailure,
			Message: fmt.Sprintf("%s: archive failed its integrity check", op),
			Suggestions: []string{
				"restore the archive from a replica",
				"re-compress from the original data",
			},
			cause: err,
		}
	}

	var deser *container.ErrDeserialization
	if errors.As(err, &deser) {
		return &DetailedError{
			Code:    CodeMalformedContainer,
			Message: fmt.Sprintf("%s: archive frame is malformed", op),
			Suggestions: []string{
				"check that the input is a complete archive frame and not a partial download",
			},
			cause: err,
		}
	}

	return &DetailedError{
		Code:    CodeProcessingFailure,
		Message: fmt.Sprintf("%s: pipeline failed", op),
		Suggestions: []string{
			"retry with DefaultQuantumConfig",
			"inspect the wrapped cause for the failing phase",
		},
		cause: err,
	}
}
