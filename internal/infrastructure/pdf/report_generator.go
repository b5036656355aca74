package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// GenerateSalesReportPDF genera el reporte de ventas de un período: una
// fila por venta no cancelada y el total del rango al pie.
func (g *MarotoPDFGenerator) GenerateSalesReportPDF(_ context.Context, from, to string, rows []repository.SalesReportRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(16).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de ventas", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Del %s al %s", from, to), props.Text{
				Size: 9, Align: align.Right, Top: 5, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(reportHeaderRow())

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
		method := paymentMethodLabels[r.PaymentMethod]
		if method == "" {
			method = r.PaymentMethod
		}
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(r.InvoiceNumber, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(r.ClientName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(r.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(method, props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+r.Total.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(
		col.New(8).Add(text.New(
			fmt.Sprintf("Ventas en el período: %d", len(rows)),
			props.Text{Size: 9, Top: 2, Left: 1, Color: colorGray},
		)),
		col.New(4).Add(text.New(
			"TOTAL: $"+total.StringFixed(2),
			props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1, Right: 1, Color: colorPrimary},
		)),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func reportHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Factura", 3, align.Left),
		h("Cliente", 4, align.Left),
		h("Fecha", 2, align.Center),
		h("Pago", 1, align.Center),
		h("Total", 2, align.Right),
	)
}
