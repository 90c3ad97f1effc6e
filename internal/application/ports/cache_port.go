package ports

import (
	"context"
	"time"
)

// ReadCache caché de lecturas de reportes. Las claves se versionan: Invalidate deja obsoletas
// todas las entradas previas sin borrarlas.
type ReadCache interface {
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Invalidate(ctx context.Context) error
}

// CacheInvalidator invalida las lecturas cacheadas que dependen del stock o del catálogo.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Locker candado distribuido por clave.
type Locker interface {
	// Lock obtiene el candado o falla con domain.ErrConflict si otro proceso lo tiene.
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, err error)
}
