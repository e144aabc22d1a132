package pdftext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNoBackend reports that no text extraction capability is available.
	ErrNoBackend = errors.New("no pdf text extraction backend available")
	// ErrOpen reports that the PDF could not be opened or parsed.
	ErrOpen = errors.New("open pdf")
)

const (
	BackendAuto      = "auto"
	BackendNative    = "native"
	BackendPDFToText = "pdftotext"
)

// Backend opens PDFs for page-by-page text extraction.
type Backend interface {
	Name() string
	Open(ctx context.Context, path string) (Document, error)
}

// Document exposes the plain text of an opened PDF. Pages are 1-based.
type Document interface {
	NumPages() int
	PageText(page int) (string, error)
	Close() error
}

// LookPathFunc resolves an executable name; exec.LookPath satisfies it.
type LookPathFunc func(file string) (string, error)

// SelectBackend resolves the configured backend name into a concrete Backend.
// "auto" prefers the built-in parser and falls back to pdftotext in builds
// tagged nopdfparser. Explicit names must be available.
func SelectBackend(name, pdftotextBinary string, lookPath LookPathFunc) (Backend, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = BackendAuto
	}

	switch name {
	case BackendNative:
		if !nativeAvailable {
			return nil, fmt.Errorf("%w: native parser disabled in this build", ErrNoBackend)
		}
		return NativeBackend{}, nil
	case BackendPDFToText:
		resolved, err := lookPath(defaultString(pdftotextBinary, "pdftotext"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoBackend, err)
		}
		return &PDFToTextBackend{Binary: resolved}, nil
	case BackendAuto:
		if nativeAvailable {
			return NativeBackend{}, nil
		}
		if resolved, err := lookPath(defaultString(pdftotextBinary, "pdftotext")); err == nil {
			return &PDFToTextBackend{Binary: resolved}, nil
		}
		return nil, ErrNoBackend
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", name)
	}
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
