package sales

import (
	"context"
	"time"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

// PDFUseCase genera documentos imprimibles: factura de venta y reporte de
// ventas por período. Los bytes se arman completos en memoria antes de
// responder.
type PDFUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	statsRepo   repository.StatsRepository
	invoiceGen  InvoicePDFGenerator
	reportGen   ReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	statsRepo repository.StatsRepository,
	invoiceGen InvoicePDFGenerator,
	reportGen ReportPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		statsRepo:   statsRepo,
		invoiceGen:  invoiceGen,
		reportGen:   reportGen,
	}
}

// InvoicePDF genera la factura de la venta indicada.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}
	forPDF := make([]ItemForPDF, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil && p != nil {
			name = p.Name
		}
		forPDF = append(forPDF, ItemForPDF{Item: it, ProductName: name})
	}
	return uc.invoiceGen.GenerateInvoicePDF(ctx, sale, forPDF)
}

// SalesReportPDF genera el reporte de ventas del rango [from, to].
func (uc *PDFUseCase) SalesReportPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := uc.statsRepo.SalesReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.reportGen.GenerateSalesReportPDF(ctx,
		from.Format("2006-01-02"), to.Format("2006-01-02"), rows)
}
