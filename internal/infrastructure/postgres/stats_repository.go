package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ferreteria-pro/ferreteria-api/internal/domain/entity"
	"github.com/ferreteria-pro/ferreteria-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agregaciones de solo lectura sobre PostgreSQL. Corre contra el
// pool, nunca dentro de una transacción de escritura.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// SalesStats agregados de ventas no canceladas: hoy, últimos 7 días, mes en
// curso, y desgloses por estado y método de pago.
func (r *StatsRepo) SalesStats(ctx context.Context, now time.Time) (*repository.SalesStatsResult, error) {
	res := &repository.SalesStatsResult{}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var err error
	if res.Today, err = r.salesPeriod(ctx, today); err != nil {
		return nil, err
	}
	if res.Last7Days, err = r.salesPeriod(ctx, weekAgo); err != nil {
		return nil, err
	}
	if res.CurrentMonth, err = r.salesPeriod(ctx, monthStart); err != nil {
		return nil, err
	}
	if res.ByPaymentStatus, err = r.salesGroups(ctx, "payment_status"); err != nil {
		return nil, err
	}
	if res.ByPaymentMethod, err = r.salesGroups(ctx, "payment_method"); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *StatsRepo) salesPeriod(ctx context.Context, from time.Time) (repository.PeriodTotals, error) {
	var t repository.PeriodTotals
	err := r.q.QueryRow(ctx, `
		SELECT count(*), coalesce(sum(total), 0)
		FROM sales WHERE status <> $1 AND created_at >= $2`,
		entity.SaleStatusCancelled, from,
	).Scan(&t.Count, &t.Total)
	if err != nil {
		return t, fmt.Errorf("sales period totals: %w", err)
	}
	return t, nil
}

// salesGroups agrupa por payment_status o payment_method. La columna viene
// de un conjunto fijo interno, nunca de entrada del usuario.
func (r *StatsRepo) salesGroups(ctx context.Context, column string) ([]repository.GroupTotals, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*), coalesce(sum(total), 0)
		FROM sales WHERE status <> $1 GROUP BY %s ORDER BY %s`, column, column, column)
	rows, err := r.q.Query(ctx, query, entity.SaleStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("sales groups by %s: %w", column, err)
	}
	defer rows.Close()
	var groups []repository.GroupTotals
	for rows.Next() {
		var g repository.GroupTotals
		if err := rows.Scan(&g.Key, &g.Count, &g.Total); err != nil {
			return nil, fmt.Errorf("scan sales group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// PurchaseStats agregados de compras no canceladas con desglose por estado.
func (r *StatsRepo) PurchaseStats(ctx context.Context, now time.Time) (*repository.PurchaseStatsResult, error) {
	res := &repository.PurchaseStatsResult{}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var err error
	if res.Today, err = r.purchasePeriod(ctx, today); err != nil {
		return nil, err
	}
	if res.Last7Days, err = r.purchasePeriod(ctx, weekAgo); err != nil {
		return nil, err
	}
	if res.CurrentMonth, err = r.purchasePeriod(ctx, monthStart); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT status, count(*), coalesce(sum(total), 0)
		FROM purchases GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("purchase groups by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g repository.GroupTotals
		if err := rows.Scan(&g.Key, &g.Count, &g.Total); err != nil {
			return nil, fmt.Errorf("scan purchase group: %w", err)
		}
		res.ByStatus = append(res.ByStatus, g)
	}
	return res, rows.Err()
}

func (r *StatsRepo) purchasePeriod(ctx context.Context, from time.Time) (repository.PeriodTotals, error) {
	var t repository.PeriodTotals
	err := r.q.QueryRow(ctx, `
		SELECT count(*), coalesce(sum(total), 0)
		FROM purchases WHERE status <> $1 AND created_at >= $2`,
		entity.PurchaseStatusCancelled, from,
	).Scan(&t.Count, &t.Total)
	if err != nil {
		return t, fmt.Errorf("purchase period totals: %w", err)
	}
	return t, nil
}

// SalesReport filas del reporte de ventas en un rango de fechas, solo
// ventas no canceladas, en orden cronológico.
func (r *StatsRepo) SalesReport(ctx context.Context, from, to time.Time) ([]repository.SalesReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT invoice_number, client_name, created_at, payment_method, total
		FROM sales
		WHERE status <> $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`,
		entity.SaleStatusCancelled, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	defer rows.Close()
	var report []repository.SalesReportRow
	for rows.Next() {
		var row repository.SalesReportRow
		if err := rows.Scan(&row.InvoiceNumber, &row.ClientName, &row.Date, &row.PaymentMethod, &row.Total); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
