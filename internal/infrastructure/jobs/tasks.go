// Package jobs trabajos en segundo plano sobre asynq: entrega del log de actividad y escaneo
// periódico de stock bajo.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

const (
	// QueueDefault cola de trabajos de la aplicación.
	QueueDefault = "default"
	// TaskActivityRecord escribe un registro de activity_logs.
	TaskActivityRecord = "activity:record"
	// TaskLowStockScan revisa los productos con cantidad <= umbral.
	TaskLowStockScan = "inventory:low_stock_scan"
)

// ActivityPayload registro de actividad serializado en la tarea.
type ActivityPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewActivityRecordTask construye la tarea. El id del registro se usa como TaskID: un reintento
// del encolado no duplica la entrada.
func NewActivityRecordTask(l *entity.ActivityLog) (*asynq.Task, error) {
	body, err := json.Marshal(ActivityPayload{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Entity:    l.Entity,
		EntityID:  l.EntityID,
		CreatedAt: l.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActivityRecord, body,
		asynq.Queue(QueueDefault),
		asynq.TaskID(l.ID),
		asynq.MaxRetry(10),
	), nil
}

// LowStockScanPayload metadatos de la ejecución programada.
type LowStockScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewLowStockScanTask construye la tarea de escaneo de stock bajo.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
