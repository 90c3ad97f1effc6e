package repository

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// AuditRepository bitácora append-only de movimientos. No existe ruta de update ni delete.
type AuditRepository interface {
	Append(ctx context.Context, e *entity.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]entity.AuditEntryView, error)
}

// ActivityLogRepository log de actividad de usuarios.
type ActivityLogRepository interface {
	Create(ctx context.Context, l *entity.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]entity.ActivityLog, error)
}
