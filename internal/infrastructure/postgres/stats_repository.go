package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de lectura del dashboard. Ninguna modifica datos.
type StatsRepo struct {
	q Querier
}

func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// dateRange agrega los extremos presentes del rango sobre la fecha de la factura.
func (lq *listQuery) dateRange(column string, r repository.DateRange) *listQuery {
	if r.From != nil {
		lq.and(column + "::date >= " + lq.arg(*r.From) + "::date")
	}
	if r.To != nil {
		lq.and(column + "::date <= " + lq.arg(*r.To) + "::date")
	}
	return lq
}

func (r *StatsRepo) Summary(ctx context.Context, companyID string) (inventory, groups, users int, err error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM inventories WHERE company_id = $1 AND active),
			(SELECT COUNT(*) FROM inventory_groups WHERE company_id = $1 AND active),
			(SELECT COUNT(*) FROM users WHERE company_id = $1 AND is_active AND NOT is_superuser)`
	if err = r.q.QueryRow(ctx, query, companyID).Scan(&inventory, &groups, &users); err != nil {
		return 0, 0, 0, fmt.Errorf("stats summary: %w", err)
	}
	return inventory, groups, users, nil
}

func (r *StatsRepo) TopSelling(ctx context.Context, companyID string, dr repository.DateRange, limit int) ([]repository.TopSellingRow, error) {
	q := newListQuery("v.company_id", companyID).and("NOT v.is_override").and("NOT it.is_gift").dateRange("v.created_at", dr)
	sql := fmt.Sprintf(`
		SELECT i.name, i.photo, SUM(it.quantity)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		JOIN inventories i ON i.id = it.item_id%s
		GROUP BY i.id, i.name, i.photo
		ORDER BY 3 DESC, i.name
		LIMIT %d`, q.clause(), limit)
	rows, err := r.q.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	defer rows.Close()
	out := []repository.TopSellingRow{}
	for rows.Next() {
		var row repository.TopSellingRow
		if err := rows.Scan(&row.Name, &row.Photo, &row.Quantity); err != nil {
			return nil, fmt.Errorf("scan top selling: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *StatsRepo) QuantitiesByHour(ctx context.Context, companyID string, from, to time.Time) (map[int]int, error) {
	const query = `
		SELECT EXTRACT(HOUR FROM v.created_at)::int, SUM(it.quantity)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		WHERE v.company_id = $1 AND NOT v.is_override AND NOT it.is_gift
		  AND v.created_at >= $2 AND v.created_at < $3
		GROUP BY 1`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("quantities by hour: %w", err)
	}
	defer rows.Close()
	out := make(map[int]int, 24)
	for rows.Next() {
		var hour, qty int
		if err := rows.Scan(&hour, &qty); err != nil {
			return nil, fmt.Errorf("scan quantities by hour: %w", err)
		}
		out[hour] = qty
	}
	return out, rows.Err()
}

func (r *StatsRepo) SalesByDay(ctx context.Context, companyID string, from, to time.Time) ([]repository.DailyAmount, error) {
	const query = `
		SELECT date_trunc('day', v.created_at), SUM(it.amount)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		WHERE v.company_id = $1 AND NOT v.is_override AND NOT it.is_gift
		  AND v.created_at >= $2 AND v.created_at < $3
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	defer rows.Close()
	out := []repository.DailyAmount{}
	for rows.Next() {
		var d repository.DailyAmount
		if err := rows.Scan(&d.Day, &d.Amount); err != nil {
			return nil, fmt.Errorf("scan sales by day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *StatsRepo) SalesByUser(ctx context.Context, companyID string, dr repository.DateRange) ([]repository.SalesByUserRow, error) {
	q := newListQuery("v.company_id", companyID).and("NOT v.is_override").and("NOT it.is_gift").dateRange("v.created_at", dr)
	sql := `
		SELECT COALESCE(u.id::text, ''), COALESCE(u.fullname, ''), COALESCE(u.daily_goal, 0), SUM(it.amount)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		LEFT JOIN users u ON u.id = v.sale_by_id` + q.clause() + `
		GROUP BY u.id, u.fullname, u.daily_goal
		ORDER BY 4 DESC`
	rows, err := r.q.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, fmt.Errorf("sales by user: %w", err)
	}
	defer rows.Close()
	out := []repository.SalesByUserRow{}
	for rows.Next() {
		var row repository.SalesByUserRow
		if err := rows.Scan(&row.UserID, &row.Fullname, &row.DailyGoal, &row.TotalInvoice); err != nil {
			return nil, fmt.Errorf("scan sales by user: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *StatsRepo) PurchaseSummary(ctx context.Context, companyID string, dr repository.DateRange) (*repository.PurchaseSummaryRow, error) {
	q := newListQuery("v.company_id", companyID).and("NOT v.is_override").dateRange("v.created_at", dr)
	sql := `
		SELECT
			COALESCE(SUM(it.quantity) FILTER (WHERE NOT it.is_gift), 0),
			COALESCE(SUM(it.quantity) FILTER (WHERE it.is_gift), 0),
			COALESCE(SUM(it.amount) FILTER (WHERE NOT it.is_gift), 0),
			COALESCE(SUM(it.amount) FILTER (WHERE it.is_gift), 0),
			COALESCE(SUM(it.usd_amount) FILTER (WHERE NOT it.is_gift AND v.is_dollar), 0)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id` + q.clause()
	var row repository.PurchaseSummaryRow
	err := r.q.QueryRow(ctx, sql, q.args...).Scan(
		&row.Count, &row.GiftCount, &row.SellingPrice, &row.SellingPriceGifts, &row.PriceDollar)
	if err != nil {
		return nil, fmt.Errorf("purchase summary: %w", err)
	}
	return &row, nil
}
