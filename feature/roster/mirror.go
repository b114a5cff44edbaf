package roster

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mlist-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
)

// Mirror copies written roster files to object storage.
type Mirror struct {
	client storage.Client
	fs     afero.Fs
	bucket string
	prefix string
	region string
}

// NewMirror creates a mirror that reads files from fsys.
func NewMirror(client storage.Client, fsys afero.Fs, cfg storage.Config) *Mirror {
	return &Mirror{
		client: client,
		fs:     fsys,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
	}
}

// Upload copies every path to the bucket under prefix/<base name>.
// It tries every file and returns the joined errors.
func (m *Mirror) Upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := storage.EnsureBucket(ctx, m.client, m.bucket, m.region); err != nil {
		return err
	}

	var errs []error
	for _, p := range paths {
		if err := m.uploadFile(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Mirror) uploadFile(ctx context.Context, path string) error {
	f, err := m.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for mirroring: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s for mirroring: %w", path, err)
	}

	key := storage.ObjectKey(m.prefix, filepath.Base(path))
	_, err = m.client.PutObject(ctx, m.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "text/csv; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to mirror %s to %s/%s: %w", path, m.bucket, key, err)
	}
	return nil
}
