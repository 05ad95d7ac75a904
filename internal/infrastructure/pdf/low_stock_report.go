// Package pdf genera el reporte de productos con bajo stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + umbral     │  fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | SKU | Producto | Bodega | Cantidad | Faltante    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos, unidades faltantes, valor de reposición │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// LowStockReport implementa usecase.LowStockReportGenerator usando Maroto v2.
type LowStockReport struct {
	author string
}

// NewLowStockReport construye el generador; author se escribe en los metadatos del PDF.
func NewLowStockReport(author string) *LowStockReport { return &LowStockReport{author: author} }

// GenerateLowStockPDF genera el PDF y devuelve sus bytes.
func (g *LowStockReport) GenerateLowStockPDF(_ context.Context, report *dto.LowStockResponse, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Low stock report", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report.Threshold, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No products below the threshold.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range tableDetailRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(threshold int64, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("LOW STOCK REPORT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Threshold: "+strconv.FormatInt(threshold, 10)+" units", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+generatedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Product", 4, align.Left),
		h("Warehouse", 2, align.Center),
		h("Quantity", 1, align.Right),
		h("Missing", 2, align.Right),
	)
}

// tableDetailRows una fila por producto; Missing = unidades para alcanzar el umbral.
func tableDetailRows(items []dto.LowStockItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(it.ID, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.FormatInt(it.WarehouseID, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(formatUnits(it.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatUnits(it.Shortfall),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorAlert})),
		))
	}
	return result
}

func summaryRow(report *dto.LowStockResponse) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(4).Add(
			label("Products below threshold:", 1),
			label("Units missing:", 6),
			label("Restock value:", 11),
		),
		col.New(2).Add(
			value(strconv.Itoa(len(report.Items)), 1),
			value(formatUnits(report.TotalShortfall), 6),
			value(report.TotalRestockValue.StringFixed(2), 11),
		),
	)
}

// formatUnits inserta separadores de miles. Ej: 1000000 -> "1.000.000".
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
