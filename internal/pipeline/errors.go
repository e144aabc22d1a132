package pipeline

import (
	"context"
	"errors"

	"vidmerge/internal/concat"
	"vidmerge/internal/match"
	"vidmerge/internal/pdftext"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindExtractionCapability Kind = "extraction_capability"
	KindExtraction           Kind = "extraction"
	KindNoFilenames          Kind = "no_filenames"
	KindFolderAccess         Kind = "folder_access"
	KindNoMatches            Kind = "no_matches"
	KindPartialCopy          Kind = "partial_copy"
	KindToolNotFound         Kind = "tool_not_found"
	KindInvocation           Kind = "invocation"
	KindMergeExit            Kind = "merge_exit"
	KindCanceled             Kind = "canceled"
	KindUnexpected           Kind = "unexpected"
)

// Error is a classified pipeline failure. Message is the operator-facing
// text; Err is the underlying cause, when there is one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return classify(err, KindUnexpected)
}

// classify maps component errors onto kinds, falling back to fallback.
func classify(err error, fallback Kind) Kind {
	var (
		invocation *concat.InvocationError
		exit       *concat.ExitError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, pdftext.ErrNoBackend):
		return KindExtractionCapability
	case errors.Is(err, pdftext.ErrOpen):
		return KindExtraction
	case errors.Is(err, match.ErrFolderAccess):
		return KindFolderAccess
	case errors.Is(err, concat.ErrToolNotFound):
		return KindToolNotFound
	case errors.As(err, &invocation):
		return KindInvocation
	case errors.As(err, &exit):
		return KindMergeExit
	default:
		return fallback
	}
}

func wrap(err error, fallback Kind, message string) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: classify(err, fallback), Message: message, Err: err}
}
