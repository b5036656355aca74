package sales

import (
	"context"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad del flujo de venta:
// cabecera, líneas, decrementos de stock y movimientos son una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// ItemForPDF línea de venta enriquecida con el nombre del producto para la
// representación impresa.
type ItemForPDF struct {
	Item        *entity.SaleItem
	ProductName string
}

// InvoicePDFGenerator genera la factura de una venta. Devuelve los bytes
// completos: el handler nunca empieza a transmitir un PDF a medio generar.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, sale *entity.Sale, items []ItemForPDF) ([]byte, error)
}

// ReportPDFGenerator genera el reporte de ventas de un período.
type ReportPDFGenerator interface {
	GenerateSalesReportPDF(ctx context.Context, from, to string, rows []repository.SalesReportRow) ([]byte, error)
}
