package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// Cloudinary stores uploads in a Cloudinary folder and returns the secure URL.
type Cloudinary struct {
	cld    *cld.Cloudinary
	folder string
	logger *zap.Logger
}

var _ Storage = (*Cloudinary)(nil)

// NewCloudinary builds a client from a cloudinary:// URL.
func NewCloudinary(url, folder string, logger *zap.Logger) (*Cloudinary, error) {
	c, err := cld.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{cld: c, folder: folder, logger: logger}, nil
}

func (c *Cloudinary) Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	name := UniqueName(prefix, filename)
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     strings.TrimSuffix(name, filepath.Ext(name)),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, ref string) error {
	publicID := PublicIDFromURL(ref)
	if publicID == "" {
		return nil
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Result != "ok" {
		c.logger.Warn("cloudinary destroy did not remove asset",
			zap.String("public_id", publicID),
			zap.String("result", res.Result),
		)
	}
	return nil
}

// PublicIDFromURL turns .../upload/v123/folder/name.png into folder/name.
func PublicIDFromURL(url string) string {
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok {
		return ""
	}
	if first, after, found := strings.Cut(rest, "/"); found && len(first) > 1 && first[0] == 'v' && isDigits(first[1:]) {
		rest = after
	}
	return strings.TrimSuffix(rest, filepath.Ext(rest))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
