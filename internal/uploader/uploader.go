// Package uploader copies case directories to object storage.
package uploader

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"diffsql/internal/config"
)

// Uploader publishes a case directory and returns its remote location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no storage backend is configured.
type NoopUploader struct{}

// Enabled implements Uploader.
func (NoopUploader) Enabled() bool { return false }

// UploadDir implements Uploader.
func (NoopUploader) UploadDir(context.Context, string) (string, error) { return "", nil }

// New selects the configured backend. S3 wins when both are enabled.
func New(storage config.StorageConfig) (Uploader, error) {
	switch {
	case storage.S3.Enabled:
		up, err := NewS3(storage.S3)
		if err != nil {
			return nil, errors.Wrap(err, "init s3 uploader")
		}
		return up, nil
	case storage.GCS.Enabled:
		up, err := NewGCS(storage.GCS)
		if err != nil {
			return nil, errors.Wrap(err, "init gcs uploader")
		}
		return up, nil
	default:
		return NoopUploader{}, nil
	}
}

type putFunc func(ctx context.Context, path, key string) error

// uploadTree puts every regular file under dir at prefix/<dir name>/<rel>
// and returns the object prefix used.
func uploadTree(ctx context.Context, dir, prefix string, put putFunc) (string, error) {
	base := objectPrefix(prefix, filepath.Base(dir))
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := base + filepath.ToSlash(rel)
		if err := put(ctx, path, key); err != nil {
			return errors.Wrapf(err, "upload %s", key)
		}
		return nil
	})
	return base, err
}

func objectPrefix(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name + "/"
	}
	return prefix + "/" + name + "/"
}
