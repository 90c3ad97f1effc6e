package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

var _ activity.Recorder = (*QueueRecorder)(nil)

// Enqueuer lo que QueueRecorder usa de *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueRecorder implementa activity.Recorder encolando la escritura en vez de hacerla en línea.
type QueueRecorder struct {
	client Enqueuer
}

// NewQueueRecorder construye el recorder sobre un cliente asynq.
func NewQueueRecorder(client Enqueuer) *QueueRecorder {
	return &QueueRecorder{client: client}
}

// Record encola la tarea activity:record. Un TaskID repetido no es error.
func (r *QueueRecorder) Record(ctx context.Context, l *entity.ActivityLog) error {
	task, err := NewActivityRecordTask(l)
	if err != nil {
		return fmt.Errorf("jobs: construir tarea de actividad: %w", err)
	}
	if _, err := r.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("jobs: encolar actividad: %w", err)
	}
	return nil
}
