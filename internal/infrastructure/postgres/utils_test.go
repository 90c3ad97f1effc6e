package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/wms-api/internal/domain"
)

func TestMapErr(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrDuplicate},
		{codeForeignKeyViolation, domain.ErrRecordNotFound},
		{codeInvalidTextRepr, domain.ErrRecordNotFound},
		{codeCheckViolation, domain.ErrInvalidInput},
		{codeLockNotAvailable, domain.ErrConflict},
		{codeDeadlockDetected, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := mapErr("op", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: tc.code}))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMapErr_SinCodigo(t *testing.T) {
	base := errors.New("conexión cerrada")
	err := mapErr("insert product", base)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "insert product")
	assert.NoError(t, mapErr("op", nil))
	assert.False(t, isUniqueViolation(base))
}
