// Package activity registra quién hizo qué. Todo lo que pasa por aquí ocurre después del commit
// de la operación de negocio y es de mejor esfuerzo.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// Recorder destino de los registros de actividad (tabla activity_logs o cola de trabajos).
type Recorder interface {
	Record(ctx context.Context, l *entity.ActivityLog) error
}

// writeTimeout tope para escribir un registro; el contexto del request puede estar por cerrarse.
const writeTimeout = 5 * time.Second

// Logger escribe registros de actividad sin propagar errores.
type Logger struct {
	rec Recorder
	log zerolog.Logger
	now func() time.Time
}

// NewLogger construye el logger de actividad. rec nil desactiva el registro.
func NewLogger(rec Recorder, log zerolog.Logger) *Logger {
	return &Logger{rec: rec, log: log, now: time.Now}
}

// Log registra la acción. Un fallo solo queda en el log de la aplicación: la operación que lo
// origina ya está confirmada y no se revierte.
func (l *Logger) Log(ctx context.Context, actor entity.Actor, action, entityName, entityID string) {
	if l == nil || l.rec == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	entry := &entity.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		CreatedAt: l.now().UTC(),
	}
	if err := l.rec.Record(ctx, entry); err != nil {
		l.log.Warn().Err(err).
			Str("user_id", actor.UserID).
			Str("action", action).
			Str("entity", entityName).
			Str("entity_id", entityID).
			Msg("no se pudo registrar la actividad")
	}
}
