package dto

import "github.com/shopspring/decimal"

// PeriodTotalsDTO conteo y suma de un período.
type PeriodTotalsDTO struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// GroupTotalsDTO desglose por clave de agrupación.
type GroupTotalsDTO struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// SalesStatsResponse GET /api/sales/stats.
type SalesStatsResponse struct {
	Today           PeriodTotalsDTO  `json:"today"`
	Last7Days       PeriodTotalsDTO  `json:"last_7_days"`
	CurrentMonth    PeriodTotalsDTO  `json:"current_month"`
	ByPaymentStatus []GroupTotalsDTO `json:"by_payment_status"`
	ByPaymentMethod []GroupTotalsDTO `json:"by_payment_method"`
}

// PurchaseStatsResponse GET /api/purchases/stats.
type PurchaseStatsResponse struct {
	Today        PeriodTotalsDTO  `json:"today"`
	Last7Days    PeriodTotalsDTO  `json:"last_7_days"`
	CurrentMonth PeriodTotalsDTO  `json:"current_month"`
	ByStatus     []GroupTotalsDTO `json:"by_status"`
}
