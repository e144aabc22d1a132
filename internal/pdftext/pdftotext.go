package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// PDFToTextBackend shells out to poppler's pdftotext. The whole document is
// converted in one run; pdftotext separates pages with a form feed.
type PDFToTextBackend struct {
	Binary string
}

func (b *PDFToTextBackend) Name() string { return BackendPDFToText }

func (b *PDFToTextBackend) Open(ctx context.Context, path string) (Document, error) {
	binary := defaultString(b.Binary, "pdftotext")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-enc", "UTF-8", "-q", path, "-")
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w %s: pdftotext exit %d: %s", ErrOpen, path, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%w %s: run pdftotext: %w", ErrOpen, path, err)
	}
	return newTextDocument(string(output)), nil
}

// textDocument holds pre-split page text.
type textDocument struct {
	pages []string
}

func newTextDocument(output string) *textDocument {
	pages := strings.Split(output, "\f")
	// pdftotext terminates the last page with a form feed too.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return &textDocument{pages: pages}
}

func (d *textDocument) NumPages() int { return len(d.pages) }

func (d *textDocument) PageText(index int) (string, error) {
	if index < 1 || index > len(d.pages) {
		return "", fmt.Errorf("page %d out of range (1-%d)", index, len(d.pages))
	}
	return d.pages[index-1], nil
}

func (d *textDocument) Close() error { return nil }
