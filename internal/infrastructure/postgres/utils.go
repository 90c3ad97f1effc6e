package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/wms-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeLockNotAvailable    = "55P03"
	codeDeadlockDetected    = "40P01"
	codeInvalidTextRepr     = "22P02"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapErr traduce errores de PostgreSQL a errores de dominio y agrega la operación como contexto.
//   - 23505 → ErrDuplicate
//   - 23503 → ErrRecordNotFound (referencia a producto, proveedor o documento inexistente)
//   - 22P02 → ErrRecordNotFound (id con formato inválido: no puede existir)
//   - 23514 → ErrInvalidInput
//   - 55P03 / 40P01 → ErrConflict (lock_timeout o deadlock; la transacción se revierte)
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case codeForeignKeyViolation, codeInvalidTextRepr:
		return fmt.Errorf("%s: %w", op, domain.ErrRecordNotFound)
	case codeCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	case codeLockNotAvailable, codeDeadlockDetected:
		return fmt.Errorf("%s: %w: bloqueo de inventario no disponible", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
