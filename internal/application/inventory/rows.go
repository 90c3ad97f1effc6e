package inventory

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

// ImportKind tipo de importación masiva de movimientos.
type ImportKind string

const (
	ImportInbound  ImportKind = "inbound"
	ImportOutbound ImportKind = "outbound"
)

// InboundRow fila validada de una importación de entradas.
// Columnas: supplier_id, product_id, quantity, unit_cost, received_date, reference_no (opcional).
type InboundRow struct {
	Line         int
	SupplierID   string          `col:"supplier_id" validate:"required,uuid"`
	ProductID    string          `col:"product_id" validate:"required,uuid"`
	Quantity     int64           `col:"quantity" validate:"gt=0"`
	UnitCost     decimal.Decimal `col:"unit_cost" validate:"gte=0"`
	ReferenceNo  string          `col:"reference_no" validate:"max=100"`
	ReceivedDate time.Time
}

// OutboundRow fila validada de una importación de salidas.
// Columnas: customer_name, product_id, quantity, dispatch_date, so_reference (opcional).
type OutboundRow struct {
	Line         int
	CustomerName string `col:"customer_name" validate:"required,max=200"`
	ProductID    string `col:"product_id" validate:"required,uuid"`
	Quantity     int64  `col:"quantity" validate:"gt=0"`
	SOReference  string `col:"so_reference" validate:"max=100"`
	DispatchDate time.Time
}

// ParseInboundRow valida el esquema de una fila de entradas. Los errores llevan el número de fila.
func ParseInboundRow(r tabular.Row) (InboundRow, error) {
	row := InboundRow{
		Line:        r.Line,
		SupplierID:  r.Get("supplier_id"),
		ProductID:   r.Get("product_id"),
		ReferenceNo: r.Get("reference_no"),
	}
	var err error
	if row.Quantity, err = parseQuantity(r.Get("quantity")); err != nil {
		return row, rowErr(r, err)
	}
	if row.UnitCost, err = parseCost(r.Get("unit_cost")); err != nil {
		return row, rowErr(r, err)
	}
	if row.ReceivedDate, err = parseDate("received_date", r.Get("received_date")); err != nil {
		return row, rowErr(r, err)
	}
	if err := validation.Struct(row); err != nil {
		return row, rowErr(r, err)
	}
	return row, nil
}

// ParseOutboundRow valida el esquema de una fila de salidas. La suficiencia de stock no se revisa
// aquí: la decide el motor con la fila bloqueada.
func ParseOutboundRow(r tabular.Row) (OutboundRow, error) {
	row := OutboundRow{
		Line:         r.Line,
		CustomerName: r.Get("customer_name"),
		ProductID:    r.Get("product_id"),
		SOReference:  r.Get("so_reference"),
	}
	var err error
	if row.Quantity, err = parseQuantity(r.Get("quantity")); err != nil {
		return row, rowErr(r, err)
	}
	if row.DispatchDate, err = parseDate("dispatch_date", r.Get("dispatch_date")); err != nil {
		return row, rowErr(r, err)
	}
	if err := validation.Struct(row); err != nil {
		return row, rowErr(r, err)
	}
	return row, nil
}

func parseQuantity(s string) (int64, error) {
	if s == "" {
		return 0, domain.Invalid("quantity", "es requerido")
	}
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Excel suele exportar enteros como "5.0".
		d, derr := decimal.NewFromString(s)
		if derr != nil || !d.IsInteger() {
			return 0, domain.Invalid("quantity", "debe ser un entero")
		}
		q = d.IntPart()
	}
	if q <= 0 {
		return 0, domain.Invalid("quantity", "debe ser mayor a 0")
	}
	return q, nil
}

func parseCost(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, domain.Invalid("unit_cost", "es requerido en entradas")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Invalid("unit_cost", "debe ser numérico")
	}
	if d.IsNegative() {
		return decimal.Zero, domain.Invalid("unit_cost", "debe ser mayor o igual a 0")
	}
	return d, nil
}

func rowErr(r tabular.Row, err error) error {
	return &domain.RowError{Row: r.Line, Err: err}
}
