// Package errors defines the error taxonomy shared by every pipeline stage.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how the command layer must treat it.
type Kind string

const (
	// KindInput covers missing/unreadable files and malformed per-lesson JSON.
	KindInput Kind = "input_error"
	// KindConfig covers missing credentials and invalid configuration.
	KindConfig Kind = "config_error"
	// KindExternalService covers transcription or reasoning calls that failed after retries.
	KindExternalService Kind = "external_service_error"
	// KindAlignmentDegraded is recoverable: the diff was produced but without confidence.
	KindAlignmentDegraded Kind = "alignment_degraded"
	// KindValue is an internal contract violation.
	KindValue Kind = "value_error"
)

// Error is a classified failure. Op names the stage, Path the offending file if any.
type Error struct {
	Kind    Kind
	Op      string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	} else if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}

	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Op, e.Path, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by Kind so errors.Is(err, &Error{Kind: KindInput}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Path == "" && t.Message == "" && t.Cause == nil
}

// Input returns an InputError naming path.
func Input(op, path string, cause error) *Error {
	return &Error{Kind: KindInput, Op: op, Path: path, Cause: cause}
}

// Inputf returns an InputError with a formatted message.
func Inputf(op, path, format string, args ...any) *Error {
	return &Error{Kind: KindInput, Op: op, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Config returns a ConfigError.
func Config(op, format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Op: op, Message: fmt.Sprintf(format, args...)}
}

// ExternalService wraps cause as an ExternalServiceError.
func ExternalService(op string, cause error) *Error {
	return &Error{Kind: KindExternalService, Op: op, Cause: cause}
}

// AlignmentDegraded wraps the reason alignment fell back.
func AlignmentDegraded(cause error) *Error {
	return &Error{Kind: KindAlignmentDegraded, Op: "align", Message: "alignment degraded", Cause: cause}
}

// Valuef returns a ValueError with a formatted message.
func Valuef(op, format string, args ...any) *Error {
	return &Error{Kind: KindValue, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
