package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local writes files under a directory served statically at publicPrefix.
type Local struct {
	dir          string
	publicPrefix string
}

var _ Storage = (*Local)(nil)

// NewLocal creates the upload directory if needed.
func NewLocal(dir, publicPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, publicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Dir is the directory to mount for static serving.
func (l *Local) Dir() string { return l.dir }

// PublicPrefix is the URL path the directory is mounted at.
func (l *Local) PublicPrefix() string { return l.publicPrefix }

func (l *Local) Save(_ context.Context, prefix, filename string, r io.Reader) (string, error) {
	name := UniqueName(prefix, filename)
	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path.Join(l.publicPrefix, name), nil
}

// Delete ignores references it does not own and files already gone.
func (l *Local) Delete(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, l.publicPrefix+"/") {
		return nil
	}
	name := SafeName(strings.TrimPrefix(ref, l.publicPrefix+"/"))
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}
