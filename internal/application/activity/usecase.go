package activity

import (
	"context"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// recentLimit tamaño del listado de GET /api/activity-logs.
const recentLimit = 100

// RepositoryRecorder escribe directamente en activity_logs.
type RepositoryRecorder struct {
	repo repository.ActivityLogRepository
}

// NewRepositoryRecorder adapta el repositorio a Recorder.
func NewRepositoryRecorder(repo repository.ActivityLogRepository) *RepositoryRecorder {
	return &RepositoryRecorder{repo: repo}
}

// Record implementa Recorder.
func (r *RepositoryRecorder) Record(ctx context.Context, l *entity.ActivityLog) error {
	return r.repo.Create(ctx, l)
}

// QueryUseCase lectura del log de actividad.
type QueryUseCase struct {
	repo repository.ActivityLogRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.ActivityLogRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// ListRecent devuelve las últimas entradas con email y rol del usuario.
func (uc *QueryUseCase) ListRecent(ctx context.Context) ([]dto.ActivityLogDTO, error) {
	logs, err := uc.repo.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ActivityLogDTO{
			ID:        l.ID,
			Action:    l.Action,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			CreatedAt: l.CreatedAt,
			Email:     l.UserEmail,
			Role:      l.UserRole,
		})
	}
	return out, nil
}
