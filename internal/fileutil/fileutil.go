package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// ErrMetadata marks a CopyFilePreserve failure that happened after the bytes
// were copied and verified. dst is complete in that case.
var ErrMetadata = errors.New("preserve file metadata")

var (
	chmod   = os.Chmod
	chtimes = os.Chtimes
)

// CopyFilePreserve copies src to dst with CopyFileVerified, then carries over
// the permission bits and modification time. Metadata errors wrap ErrMetadata
// and leave the verified copy in place.
func CopyFilePreserve(src, dst string) error {
	if err := CopyFileVerified(src, dst); err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: stat source: %w", ErrMetadata, err)
	}
	if err := chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: mode: %w", ErrMetadata, err)
	}
	if err := chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("%w: times: %w", ErrMetadata, err)
	}
	return nil
}
