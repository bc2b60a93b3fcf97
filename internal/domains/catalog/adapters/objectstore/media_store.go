// Package objectstore stores product pictures in an S3-compatible bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
)

var _ ports.MediaStore = (*MediaStore)(nil)

// MediaStore uploads listing pictures to a MinIO bucket and returns public URLs.
type MediaStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMediaStore wires a MinIO client into a media store adapter. publicURL is
// the externally reachable base under which bucket objects are served.
func NewMediaStore(client *minio.Client, bucket, publicURL string) *MediaStore {
	return &MediaStore{client: client, bucket: bucket, publicURL: publicURL}
}

// Upload stores one object and returns its public URL.
func (s *MediaStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("media store not configured")
	}
	if _, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}
