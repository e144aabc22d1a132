//go:build nopdfparser

package pdftext

import (
	"context"
	"fmt"
)

// Builds tagged nopdfparser drop the pure-Go parser and rely on pdftotext.
const nativeAvailable = false

type NativeBackend struct{}

func (NativeBackend) Name() string { return BackendNative }

func (NativeBackend) Open(context.Context, string) (Document, error) {
	return nil, fmt.Errorf("%w: native parser disabled in this build", ErrNoBackend)
}
