package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"college-erp/config"
)

var (
	// ErrUnsupportedType the file extension is not accepted for the upload kind
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge the upload exceeds the configured limit
	ErrTooLarge = errors.New("file too large")
)

// Storage persists uploaded files and returns a reference that can be served
// to clients and later passed back to Delete.
type Storage interface {
	Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// New picks the backend named in the config.
func New(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicPrefix)
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL, cfg.Folder, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName strips path components and anything outside [A-Za-z0-9._-].
func SafeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "file"
	}
	return name
}

// UniqueName is prefix_<hex>_<safe name>; the random part keeps re-uploads from colliding.
func UniqueName(prefix, original string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	base := SafeName(original)
	if prefix == "" {
		return token + "_" + base
	}
	return SafeName(prefix) + "_" + token + "_" + base
}

var (
	imageExts    = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true}
	documentExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".pdf": true}
)

// CheckImage accepts logo and photo formats.
func CheckImage(filename string) error {
	if !imageExts[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	return nil
}

// CheckDocument accepts scanned documents.
func CheckDocument(filename string) error {
	if !documentExts[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	return nil
}
