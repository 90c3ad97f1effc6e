package activity_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

type recorderFunc func(ctx context.Context, l *entity.ActivityLog) error

func (f recorderFunc) Record(ctx context.Context, l *entity.ActivityLog) error { return f(ctx, l) }

func TestLogger_RegistraEntrada(t *testing.T) {
	var got *entity.ActivityLog
	l := activity.NewLogger(recorderFunc(func(_ context.Context, e *entity.ActivityLog) error {
		got = e
		return nil
	}), zerolog.Nop())

	l.Log(context.Background(), entity.Actor{UserID: "u-1", Role: "manager"}, entity.ActionCreate, entity.EntityInbound, "doc-1")

	require.NotNil(t, got)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "CREATE", got.Action)
	assert.Equal(t, "inbound", got.Entity)
	assert.Equal(t, "doc-1", got.EntityID)
}

func TestLogger_FalloNoSePropagaYQuedaEnLog(t *testing.T) {
	var buf bytes.Buffer
	l := activity.NewLogger(recorderFunc(func(context.Context, *entity.ActivityLog) error {
		return errors.New("db caída")
	}), zerolog.New(&buf))

	assert.NotPanics(t, func() {
		l.Log(context.Background(), entity.Actor{UserID: "u-1"}, entity.ActionCreate, entity.EntityOutbound, "doc-9")
	})
	assert.Contains(t, buf.String(), "db caída")
	assert.Contains(t, buf.String(), "doc-9")
}

func TestLogger_ContextoCanceladoIgualRegistra(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	l := activity.NewLogger(recorderFunc(func(ctx context.Context, _ *entity.ActivityLog) error {
		called = true
		return ctx.Err()
	}), zerolog.Nop())
	l.Log(ctx, entity.Actor{UserID: "u-1"}, entity.ActionCreate, entity.EntityProduct, "p-1")

	assert.True(t, called)
}

func TestLogger_NilEsNoOp(t *testing.T) {
	var l *activity.Logger
	assert.NotPanics(t, func() {
		l.Log(context.Background(), entity.Actor{}, entity.ActionCreate, entity.EntityProduct, "p")
	})
	assert.NotPanics(t, func() {
		activity.NewLogger(nil, zerolog.Nop()).Log(context.Background(), entity.Actor{}, "", "", "")
	})
}
