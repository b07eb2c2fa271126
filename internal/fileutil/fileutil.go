// Package fileutil stages media files between the library, run directories
// and the split cache. Copies land under a temporary name and are renamed
// into place, so a reader never sees a half-written part.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

const partialSuffix = ".partial"

// CopyFile copies src to dst, keeping src's permission bits.
func CopyFile(src, dst string) error {
	_, err := copyAtomic(src, dst, nil)
	return err
}

// CopyFileVerified copies src to dst and compares the SHA-256 of what was
// read with what was written. On mismatch dst is not created.
func CopyFileVerified(src, dst string) error {
	sum, err := copyAtomic(src, dst, sha256.New())
	if err != nil {
		return err
	}
	want, err := fileDigest(src)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if !bytes.Equal(sum, want) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s: checksum mismatch", src)
	}
	return nil
}

// LinkOrCopy hard-links src at dst, copying when the two live on different
// filesystems or links are unsupported. dst must not exist.
func LinkOrCopy(src, dst string) error {
	if err := os.Link(src, dst); err == nil {
		return nil
	} else if errors.Is(err, os.ErrExist) {
		return err
	}
	return CopyFile(src, dst)
}

// copyAtomic writes src to dst+partialSuffix and renames it over dst. When
// h is non-nil it returns the digest of the bytes written.
func copyAtomic(src, dst string, h hash.Hash) ([]byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("copy %s: is a directory", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	tmp := dst + partialSuffix
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return nil, err
	}
	w := io.Writer(out)
	if h != nil {
		w = io.MultiWriter(out, h)
	}
	written, copyErr := io.Copy(w, in)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	if written != info.Size() {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("copy %s: wrote %d of %d bytes", src, written, info.Size())
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return h.Sum(nil), nil
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
