package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-api/internal/application/ports"
)

// Drivers soportados.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selección de driver y sus parámetros.
type Config struct {
	Driver    string
	LocalRoot string
	S3        S3Config
}

// New construye el almacenamiento configurado.
func New(ctx context.Context, cfg Config) (ports.FileStorage, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalDisk(cfg.LocalRoot)
	case DriverS3:
		return NewS3Disk(ctx, cfg.S3)
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
}
