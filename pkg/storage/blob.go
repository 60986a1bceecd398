// Package storage keeps uploaded media in a gocloud bucket. The bucket URL
// picks the backend: file:// locally, gs:// in production, mem:// in tests.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

type ImageStore struct {
	bucket *blob.Bucket
}

// OpenImageStore opens the bucket at url. The driver for the URL scheme
// must be linked in by the caller (fileblob, gcsblob, memblob).
func OpenImageStore(ctx context.Context, url string) (*ImageStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %q", url)
	}

	return &ImageStore{bucket: bucket}, nil
}

func NewImageStore(bucket *blob.Bucket) *ImageStore {
	return &ImageStore{bucket: bucket}
}

// Save writes r under folder with a random name keeping the extension of
// filename, and returns the object key.
func (s *ImageStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error) {
	key := path.Join(folder, uuid.NewString()+extension(filename, contentType))

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", errors.Wrap(err, "open writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "copy object")
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "close writer")
	}

	return key, nil
}

func (s *ImageStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.bucket.Exists(ctx, key)
}

func (s *ImageStore) Close() error {
	return s.bucket.Close()
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
