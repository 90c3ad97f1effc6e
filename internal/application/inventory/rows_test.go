package inventory_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/wms-api/internal/application/inventory"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/pkg/tabular"
)

func TestParseInboundRow(t *testing.T) {
	supplier, product := uuid.NewString(), uuid.NewString()

	row, err := inventory.ParseInboundRow(inboundRow(4, supplier, product, "5.0", "12.50"))
	require.NoError(t, err)
	assert.Equal(t, 4, row.Line)
	assert.Equal(t, int64(5), row.Quantity)
	assert.True(t, decimal.RequireFromString("12.5").Equal(row.UnitCost))
	assert.Equal(t, "2024-03-01", row.ReceivedDate.Format("2006-01-02"))
}

func TestParseInboundRow_Errores(t *testing.T) {
	supplier, product := uuid.NewString(), uuid.NewString()

	cases := []struct {
		name  string
		row   tabular.Row
		field string
	}{
		{"cantidad vacía", inboundRow(2, supplier, product, "", "1"), "quantity"},
		{"cantidad decimal", inboundRow(2, supplier, product, "1.5", "1"), "quantity"},
		{"cantidad negativa", inboundRow(2, supplier, product, "-3", "1"), "quantity"},
		{"costo vacío", inboundRow(2, supplier, product, "1", ""), "unit_cost"},
		{"costo negativo", inboundRow(2, supplier, product, "1", "-0.01"), "unit_cost"},
		{"costo no numérico", inboundRow(2, supplier, product, "1", "abc"), "unit_cost"},
		{"proveedor inválido", inboundRow(2, "xyz", product, "1", "1"), "supplier_id"},
		{"producto vacío", inboundRow(2, supplier, "", "1", "1"), "product_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.ParseInboundRow(tc.row)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			var rowErr *domain.RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, 2, rowErr.Row)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestParseInboundRow_FechaInvalida(t *testing.T) {
	r := inboundRow(9, uuid.NewString(), uuid.NewString(), "1", "1")
	r.Values["received_date"] = "ayer"

	_, err := inventory.ParseInboundRow(r)
	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 9, rowErr.Row)
	assert.Contains(t, err.Error(), "fila 9")
}

func TestParseInboundRow_FechaDeCeldaExcel(t *testing.T) {
	supplier, product := uuid.NewString(), uuid.NewString()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"supplier_id", "product_id", "quantity", "unit_cost", "received_date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{supplier, product, 5, 3.25, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := tabular.ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row, err := inventory.ParseInboundRow(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", row.ReceivedDate.Format("2006-01-02"))
	assert.Equal(t, int64(5), row.Quantity)
	assert.True(t, decimal.RequireFromString("3.25").Equal(row.UnitCost))
}

func TestParseOutboundRow(t *testing.T) {
	product := uuid.NewString()

	row, err := inventory.ParseOutboundRow(outboundRow(3, product, "7"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.Quantity)
	assert.Equal(t, "Cliente SA", row.CustomerName)

	r := outboundRow(3, product, "7")
	r.Values["customer_name"] = ""
	_, err = inventory.ParseOutboundRow(r)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer_name", ve.Field)
}
