//go:build !nopdfparser

package pdftext

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

const nativeAvailable = true

// NativeBackend extracts text with the pure-Go github.com/ledongthuc/pdf parser.
type NativeBackend struct{}

func (NativeBackend) Name() string { return BackendNative }

// Open parses the PDF cross-reference table and returns a page reader. The
// parser panics on some malformed inputs; those are reported as ErrOpen.
func (NativeBackend) Open(_ context.Context, path string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w %s: malformed document: %v", ErrOpen, path, r)
		}
	}()

	file, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, openErr)
	}
	return &nativeDocument{file: file, reader: reader}, nil
}

type nativeDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *nativeDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *nativeDocument) PageText(index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: %v", index, r)
		}
	}()

	page := d.reader.Page(index)
	if page.V.IsNull() {
		return "", nil
	}
	// Resource names like /F1 are scoped to the page; the same name may
	// refer to a different font object with its own encoding elsewhere.
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}
	return page.GetPlainText(fonts)
}

func (d *nativeDocument) Close() error {
	return d.file.Close()
}
