package docreader

import (
	"errors"
	"fmt"
)

// Kind classifies why a session aborted.
type Kind string

const (
	KindConfigurationMissing Kind = "configuration_missing"
	KindFileNotFound         Kind = "file_not_found"
	KindUnsupportedFormat    Kind = "unsupported_format"
	KindExtractionFailure    Kind = "extraction_failure"
	KindEmptyInstruction     Kind = "empty_instruction"
	KindInferenceFailure     Kind = "inference_failure"
)

// Error is returned by Session.Run when the session aborts. Message is the
// operator-facing explanation; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a session error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
