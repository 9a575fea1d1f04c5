// Package local stores uploaded bytes on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	tempDirName = "tmp"
	dirPerm     = 0o755

	errInvalidKeyFmt      = "invalid storage key %q"
	errFailedCreateDirFmt = "failed to create upload directory: %w"
	errFailedWriteFmt     = "failed to write object: %w"
	errFailedRenameFmt    = "failed to move object into place: %w"
	errFailedOpenFmt      = "failed to open object: %w"
	errFailedDeleteFmt    = "failed to delete object: %w"
)

// Store writes objects to <dir>/<key>, staging them in <dir>/tmp first
// so a failed upload never leaves a partially-written object at its
// final path.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, tempDirName), dirPerm); err != nil {
		return nil, fmt.Errorf(errFailedCreateDirFmt, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.dir, tempDirName), key+".*")
	if err != nil {
		return 0, fmt.Errorf(errFailedWriteFmt, err)
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf(errFailedWriteFmt, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return 0, fmt.Errorf(errFailedRenameFmt, err)
	}
	return n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf(errFailedOpenFmt, err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(errFailedDeleteFmt, err)
	}
	return nil
}

// validateKey rejects anything that could escape the upload directory.
// Keys are always uuid-derived, so this only trips on programming errors.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf(errInvalidKeyFmt, key)
	}
	return nil
}
