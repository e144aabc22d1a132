package pdftext

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"vidmerge/internal/logging"
)

// filenamePattern matches a run of non-whitespace characters ending in a
// supported video extension, case-insensitively.
var filenamePattern = regexp.MustCompile(`\S+\.(?i:mp4|mkv|mov)`)

// Extensions lists the video extensions recognized in PDF text.
var Extensions = []string{".mp4", ".mkv", ".mov"}

// Extractor collects video file names from PDFs using an injected Backend.
type Extractor struct {
	backend Backend
	logger  *slog.Logger
}

// NewExtractor binds an Extractor to backend. A nil backend is allowed; every
// Extract call then fails with ErrNoBackend.
func NewExtractor(backend Backend, logger *slog.Logger) *Extractor {
	return &Extractor{
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "pdftext"),
	}
}

// BackendName reports the active backend, or "" when none is configured.
func (e *Extractor) BackendName() string {
	if e == nil || e.backend == nil {
		return ""
	}
	return e.backend.Name()
}

// Extract returns every video file name found in the PDF at path, in page
// order and in reading order within a page. Duplicates are preserved. Pages
// whose text cannot be read, or is blank, are skipped.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	if e == nil || e.backend == nil {
		return nil, ErrNoBackend
	}
	doc, err := e.backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	logger := logging.WithContext(ctx, e.logger)
	pages := doc.NumPages()
	names := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.PageText(page)
		if err != nil {
			logger.Debug("skipping unreadable page",
				logging.Int("page", page),
				logging.Error(err),
				logging.String(logging.FieldEventType, "pdf_page_skipped"),
			)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		names = append(names, FindFilenames(text)...)
	}

	logger.Debug("pdf text scanned",
		logging.String("backend", e.backend.Name()),
		logging.Int("pages", pages),
		logging.Int("filenames", len(names)),
	)
	return names, nil
}

// FindFilenames returns the video file name tokens in text in the order they appear.
func FindFilenames(text string) []string {
	return filenamePattern.FindAllString(text, -1)
}
