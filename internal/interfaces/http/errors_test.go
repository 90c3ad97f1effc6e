package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/wms-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.Invalid("items[0].quantity", "debe ser mayor que 0"), fiber.StatusBadRequest, "VALIDATION"},
		{"archivo vacío", domain.ErrEmptyFile, fiber.StatusBadRequest, "VALIDATION"},
		{"formato", domain.ErrUnsupportedFileFormat, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FILE"},
		{"stock en fila", &domain.RowError{Row: 3, Err: domain.ErrInsufficientStock}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"sin inventario", fmt.Errorf("línea 1: %w", domain.ErrRecordNotFound), fiber.StatusNotFound, "RECORD_NOT_FOUND"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"timeout de bloqueo", domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"tipo de movimiento", domain.ErrInvalidMovementType, fiber.StatusInternalServerError, "INTERNAL"},
		{"fiber", fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := errorStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}
