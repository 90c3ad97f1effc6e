// Package pdf genera los documentos operativos de bodega con Maroto v2.
//
// Etiqueta de producto (100 × 60 mm):
//
//	┌──────────────────────────────────────┐
//	│  Nombre del producto                 │
//	│  SKU + categoría                     │
//	│  ┌──────┐  ║║│║║│║║│║║ (Code128)     │
//	│  │  QR  │                            │
//	│  └──────┘                            │
//	└──────────────────────────────────────┘
//
// Nota de despacho (A4): cabecera, cliente, tabla SKU | Producto | Cantidad, total y firmas.
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/domain/entity"
)

var _ ports.DocumentRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.DocumentRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company aparece en la cabecera de los documentos.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: nonEmpty(company, "WMS")}
}

// QRPayload contenido del QR de la etiqueta; los lectores lo resuelven con GET /api/products/lookup.
func QRPayload(sku string) string { return "SKU:" + sku }

// ProductLabel etiqueta con QR y código de barras Code128 del SKU.
func (g *MarotoPDFGenerator) ProductLabel(_ context.Context, p *entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(100, 60).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(2).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+p.SKU, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary}),
	)))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("SKU: %s   |   %s", p.SKU, nonEmpty(p.Category, "Sin categoría")), props.Text{
			Size: 8, Color: colorGray,
		}),
	)))
	m.AddRows(row.New(36).Add(
		col.New(4).Add(code.NewQr(QRPayload(p.SKU), props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(code.NewBar(p.SKU, props.Barcode{Percent: 90, Center: true})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// DispatchNote nota de despacho con las líneas del documento de salida.
func (g *MarotoPDFGenerator) DispatchNote(_ context.Context, doc *entity.OutboundDocument, lines []entity.OutboundLineDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de despacho", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	var units int64
	for _, l := range lines {
		m.AddRows(tableDetailRow(l))
		units += l.Quantity
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(len(lines), units))

	m.AddRows(line.NewRow(15))
	m.AddRows(signatureRow())

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar nota de despacho: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega (izq) y número + fecha del despacho (der).
func headerRow(company string, doc *entity.OutboundDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento de salida de mercancía", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(doc.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.DispatchDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: cliente y referencia de la orden de venta.
func customerRow(doc *entity.OutboundDocument) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Orden de venta: "+nonEmpty(doc.SOReference, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 3, align.Left),
		h("Producto", 7, align.Left),
		h("Cantidad", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRow(l entity.OutboundLineDetail) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(7).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(formatUnits(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// totalsRow: líneas y unidades despachadas.
func totalsRow(lines int, units int64) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(4).Add(
			text.New("Líneas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}),
			text.New("TOTAL UNIDADES:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 5}),
		),
		col.New(2).Add(
			text.New(strconv.Itoa(lines), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(formatUnits(units), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 5}),
		),
	)
}

func signatureRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			line.New(props.Line{Color: colorGray, Thickness: 0.3}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)
	}
	return row.New(10).Add(sig("Despachado por"), col.New(2), sig("Recibido por"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

// formatUnits inserta puntos de miles. Ej: 25000 → "25.000".
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	l := len(s)
	if l <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, l+l/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
