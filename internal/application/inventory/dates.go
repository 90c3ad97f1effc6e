package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

// parseDate acepta YYYY-MM-DD, RFC3339 o un número de serie de Excel (celda de fecha de un XLSX);
// solo se conserva el día.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.Invalid(field, "es requerido")
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, ok := tabular.SerialDate(s); ok {
		return t, nil
	}
	return time.Time{}, domain.Invalid(field, "debe tener formato YYYY-MM-DD")
}
