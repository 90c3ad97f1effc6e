package ports

import (
	"context"
	"io"
)

// FileStorage almacenamiento de archivos adjuntos (disco local o S3).
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
