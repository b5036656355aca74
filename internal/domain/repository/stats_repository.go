package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals conteo y suma de un período.
type PeriodTotals struct {
	Count int
	Total decimal.Decimal
}

// GroupTotals conteo y suma por valor de agrupación (estado, método de pago).
type GroupTotals struct {
	Key   string
	Count int
	Total decimal.Decimal
}

// SalesStatsResult agregados de ventas: hoy, últimos 7 días, mes en curso,
// y desgloses por estado de pago y método de pago. Solo ventas no canceladas.
type SalesStatsResult struct {
	Today           PeriodTotals
	Last7Days       PeriodTotals
	CurrentMonth    PeriodTotals
	ByPaymentStatus []GroupTotals
	ByPaymentMethod []GroupTotals
}

// PurchaseStatsResult agregados de compras con desglose por estado.
type PurchaseStatsResult struct {
	Today        PeriodTotals
	Last7Days    PeriodTotals
	CurrentMonth PeriodTotals
	ByStatus     []GroupTotals
}

// SalesReportRow fila del reporte de ventas por rango de fechas.
type SalesReportRow struct {
	InvoiceNumber string
	ClientName    string
	Date          time.Time
	PaymentMethod string
	Total         decimal.Decimal
}

// StatsRepository puerto de agregaciones de solo lectura.
type StatsRepository interface {
	SalesStats(ctx context.Context, now time.Time) (*SalesStatsResult, error)
	PurchaseStats(ctx context.Context, now time.Time) (*PurchaseStatsResult, error)
	SalesReport(ctx context.Context, from, to time.Time) ([]SalesReportRow, error)
}
