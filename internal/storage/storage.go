package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/google/uuid"
)

const maxExtLen = 10

var (
	ErrFileTooLarge = internal.NewValidationError("file exceeds the upload size limit", internal.ErrCodeValidationFailed)
	ErrInvalidRef   = internal.NewValidationError("invalid file reference", internal.ErrCodeValidationFailed)
	ErrBlobNotFound = internal.NewNotFoundError("file not found", internal.ErrCodeDocumentNotFound)
)

// LocalStore keeps uploaded files in a flat directory. A reference is a random
// uuid plus the original extension and never contains a path separator.
type LocalStore struct {
	root    string
	maxSize int64
}

func NewLocalStore(root string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", root, err)
	}
	return &LocalStore{root: root, maxSize: maxSize}, nil
}

// Put streams r to a new file and returns its reference. Partial files are
// removed on failure.
func (s *LocalStore) Put(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := uuid.NewString() + extension(originalName)
	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}

	written, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		return "", ErrFileTooLarge
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, ref)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return ref, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.root, ref), nil
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > maxExtLen {
		return ""
	}
	for _, c := range strings.TrimPrefix(ext, ".") {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
