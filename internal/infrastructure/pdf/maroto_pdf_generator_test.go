package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/pdf"
)

func TestProductLabel(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Bodega Central")
	out, err := g.ProductLabel(context.Background(), &entity.Product{
		ID: "p-1", SKU: "SKU-001", Name: "Tornillo 3/8", Category: "Ferretería",
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestDispatchNote(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("")
	doc := &entity.OutboundDocument{
		ID:           "0b6f4a5e-1111-2222-3333-444455556666",
		CustomerName: "Ferretería El Tornillo",
		SOReference:  "SO-77",
		DispatchDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	lines := []entity.OutboundLineDetail{
		{ProductID: "p-1", SKU: "SKU-001", Name: "Tornillo", Quantity: 1200},
		{ProductID: "p-2", SKU: "SKU-002", Name: "Tuerca", Quantity: 30},
	}
	out, err := g.DispatchNote(context.Background(), doc, lines)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestQRPayload(t *testing.T) {
	assert.Equal(t, "SKU:ABC-1", pdf.QRPayload("ABC-1"))
}
