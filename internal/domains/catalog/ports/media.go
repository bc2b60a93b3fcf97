package ports

import (
	"context"
	"io"
)

// MediaStore uploads product pictures and returns their public URLs.
type MediaStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}
