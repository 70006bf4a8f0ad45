package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de los reportes xlsx.
type ReportRepo struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Rango por fecha (inclusive) sobre invoices.created_at, facturas no anuladas.
const invoiceDayRange = `v.company_id = $1 AND NOT v.is_override
	AND v.created_at::date >= $2::date AND v.created_at::date <= $3::date`

func collect[T any](rows interface {
	Next() bool
	Err() error
	Close()
}, scan func() (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *ReportRepo) CardSales(ctx context.Context, companyID string, from, to time.Time) ([]repository.CardSalesRow, error) {
	query := `
		SELECT COALESCE(t.name, ''), COALESCE(u.fullname, ''), COUNT(DISTINCT v.id), SUM(pm.paid_amount)
		FROM payment_methods pm
		JOIN invoices v ON v.id = pm.invoice_id
		LEFT JOIN payment_terminals t ON t.id = v.payment_terminal_id
		LEFT JOIN users u ON u.id = v.sale_by_id
		WHERE ` + invoiceDayRange + ` AND pm.name IN ('debitCard', 'creditCard')
		GROUP BY 1, 2
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("card sales report: %w", err)
	}
	return collect(rows, func() (repository.CardSalesRow, error) {
		var row repository.CardSalesRow
		err := rows.Scan(&row.Terminal, &row.Seller, &row.Count, &row.Total)
		return row, err
	})
}

func (r *ReportRepo) DollarSales(ctx context.Context, companyID string, from, to time.Time) ([]repository.SellerAmountRow, error) {
	query := `
		SELECT COALESCE(u.fullname, ''), SUM(it.usd_amount)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		LEFT JOIN users u ON u.id = v.sale_by_id
		WHERE ` + invoiceDayRange + ` AND v.is_dollar AND NOT it.is_gift
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("dollar sales report: %w", err)
	}
	return collect(rows, func() (repository.SellerAmountRow, error) {
		var row repository.SellerAmountRow
		err := rows.Scan(&row.Seller, &row.Total)
		return row, err
	})
}

// SellerDailySales agrega por vendedor el total POS, el equivalente en pesos de las ventas en dólares,
// los pagos con tarjeta y las transferencias.
func (r *ReportRepo) SellerDailySales(ctx context.Context, companyID string, from, to time.Time) ([]repository.SellerDailyRow, error) {
	query := `
		WITH scoped AS (
			SELECT v.id, v.is_dollar, COALESCE(u.fullname, '') AS seller
			FROM invoices v
			LEFT JOIN users u ON u.id = v.sale_by_id
			WHERE ` + invoiceDayRange + `
		),
		items AS (
			SELECT s.seller,
				SUM(it.amount) AS pos,
				COALESCE(SUM(it.amount) FILTER (WHERE s.is_dollar), 0) AS dollars
			FROM scoped s JOIN invoice_items it ON it.invoice_id = s.id AND NOT it.is_gift
			GROUP BY s.seller
		),
		payments AS (
			SELECT s.seller,
				COALESCE(SUM(pm.paid_amount) FILTER (WHERE pm.name IN ('debitCard', 'creditCard')), 0) AS cards,
				COALESCE(SUM(pm.paid_amount) FILTER (WHERE pm.name IN ('nequi', 'bankTransfer')), 0) AS transfers
			FROM scoped s JOIN payment_methods pm ON pm.invoice_id = s.id
			GROUP BY s.seller
		)
		SELECT COALESCE(i.seller, p.seller), COALESCE(i.pos, 0), COALESCE(i.dollars, 0),
			COALESCE(p.cards, 0), COALESCE(p.transfers, 0)
		FROM items i FULL OUTER JOIN payments p ON p.seller = i.seller
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("seller daily report: %w", err)
	}
	return collect(rows, func() (repository.SellerDailyRow, error) {
		var row repository.SellerDailyRow
		err := rows.Scan(&row.Seller, &row.TotalPOS, &row.DollarEquivalent, &row.Cards, &row.Transfers)
		return row, err
	})
}

func (r *ReportRepo) ActiveInventory(ctx context.Context, companyID string) ([]repository.InventoryReportRow, error) {
	const query = `
		SELECT COALESCE(parent.name, ''), COALESCE(g.name, ''), i.code, i.name, i.total_in_storage, i.total_in_shops,
			i.buying_price, i.selling_price
		FROM inventories i
		LEFT JOIN inventory_groups g ON g.id = i.group_id
		LEFT JOIN inventory_groups parent ON parent.id = g.belongs_to_id
		WHERE i.company_id = $1 AND i.active
		ORDER BY 1, 2, i.code`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}
	return collect(rows, func() (repository.InventoryReportRow, error) {
		var row repository.InventoryReportRow
		err := rows.Scan(&row.ParentGroup, &row.Group, &row.Code, &row.Name, &row.Storage, &row.Shops,
			&row.BuyingPrice, &row.SellingPrice)
		return row, err
	})
}

func (r *ReportRepo) productQuantities(ctx context.Context, cond string, args ...any) ([]repository.ProductQuantityRow, error) {
	query := `
		SELECT it.item_code, it.item_name, SUM(it.quantity)
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		WHERE v.company_id = $1 AND v.created_at::date >= $2::date AND v.created_at::date <= $3::date AND ` + cond + `
		GROUP BY 1, 2
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, func() (repository.ProductQuantityRow, error) {
		var row repository.ProductQuantityRow
		err := rows.Scan(&row.Code, &row.Name, &row.Quantity)
		return row, err
	})
}

func (r *ReportRepo) ProductSales(ctx context.Context, companyID string, from, to time.Time) (sold, nulled, gifts []repository.ProductQuantityRow, err error) {
	if sold, err = r.productQuantities(ctx, "NOT v.is_override AND NOT it.is_gift", companyID, from, to); err != nil {
		return nil, nil, nil, fmt.Errorf("product sales report: %w", err)
	}
	if nulled, err = r.productQuantities(ctx, "v.is_override AND NOT it.is_gift", companyID, from, to); err != nil {
		return nil, nil, nil, fmt.Errorf("product nulled report: %w", err)
	}
	if gifts, err = r.productQuantities(ctx, "NOT v.is_override AND it.is_gift", companyID, from, to); err != nil {
		return nil, nil, nil, fmt.Errorf("product gifts report: %w", err)
	}
	return sold, nulled, gifts, nil
}

func (r *ReportRepo) Invoices(ctx context.Context, companyID string, from, to time.Time) ([]repository.InvoiceReportRow, error) {
	query := `
		SELECT v.created_at, COALESCE(u.fullname, ''), v.invoice_number, COALESCE(res.document_number, ''),
			COALESCE(t.name, ''),
			COALESCE((SELECT SUM(amount) FROM invoice_items WHERE invoice_id = v.id AND NOT is_gift), 0),
			COALESCE(c.document_id, ''), COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.phone, ''),
			COALESCE(c.address, '')
		FROM invoices v
		LEFT JOIN users u ON u.id = v.sale_by_id
		LEFT JOIN dian_resolutions res ON res.id = v.dian_resolution_id
		LEFT JOIN payment_terminals t ON t.id = v.payment_terminal_id
		LEFT JOIN customers c ON c.id = v.customer_id
		WHERE ` + invoiceDayRange + `
		ORDER BY v.invoice_number`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoices report: %w", err)
	}
	return collect(rows, func() (repository.InvoiceReportRow, error) {
		var row repository.InvoiceReportRow
		err := rows.Scan(&row.CreatedAt, &row.Seller, &row.InvoiceNumber, &row.Resolution, &row.Terminal, &row.Total,
			&row.CustomerDocument, &row.CustomerName, &row.CustomerEmail, &row.CustomerPhone, &row.CustomerAddress)
		return row, err
	})
}

// Primer medio de pago registrado de la factura.
const firstPaymentMethod = `(SELECT pm.name FROM payment_methods pm WHERE pm.invoice_id = v.id ORDER BY pm.created_at, pm.id LIMIT 1)`

func (r *ReportRepo) ElectronicItems(ctx context.Context, companyID string, from, to time.Time) ([]repository.ElectronicItemRow, error) {
	query := `
		SELECT v.invoice_number, v.created_at, COALESCE(c.document_id, ''), COALESCE(` + firstPaymentMethod + `, ''),
			it.item_code, it.item_name, COALESCE(i.cost_center, ''), it.quantity, COALESCE(i.selling_price, 0), it.discount
		FROM invoice_items it
		JOIN invoices v ON v.id = it.invoice_id
		LEFT JOIN inventories i ON i.id = it.item_id
		LEFT JOIN customers c ON c.id = v.customer_id
		WHERE v.company_id = $1 AND NOT v.is_override AND NOT it.is_gift
		  AND v.created_at BETWEEN $2 AND $3
		ORDER BY v.invoice_number, it.item_code`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("electronic invoice report: %w", err)
	}
	return collect(rows, func() (repository.ElectronicItemRow, error) {
		var row repository.ElectronicItemRow
		err := rows.Scan(&row.InvoiceNumber, &row.CreatedAt, &row.CustomerDocument, &row.PaymentMethod,
			&row.ItemCode, &row.ItemName, &row.CostCenter, &row.Quantity, &row.SellingPrice, &row.Discount)
		return row, err
	})
}

func (r *ReportRepo) ThirdParties(ctx context.Context, companyID string, since time.Time) ([]repository.ThirdPartyRow, error) {
	const query = `
		SELECT c.document_type, c.document_id, c.name, c.city, c.address, c.phone, c.email
		FROM customers c
		WHERE c.company_id = $1
		  AND EXISTS (SELECT 1 FROM invoices v WHERE v.customer_id = c.id)
		  AND NOT EXISTS (SELECT 1 FROM invoices v WHERE v.customer_id = c.id AND v.created_at < $2)
		ORDER BY c.name`
	rows, err := r.q.Query(ctx, query, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("third parties report: %w", err)
	}
	return collect(rows, func() (repository.ThirdPartyRow, error) {
		var row repository.ThirdPartyRow
		err := rows.Scan(&row.DocumentType, &row.DocumentID, &row.Name, &row.City, &row.Address, &row.Phone, &row.Email)
		return row, err
	})
}

func (r *ReportRepo) InvoicePayments(ctx context.Context, companyID string, from, to time.Time) ([]repository.InvoicePaymentRow, error) {
	query := `
		SELECT v.invoice_number, COALESCE(` + firstPaymentMethod + `, ''), SUM(it.amount)
		FROM invoices v
		JOIN invoice_items it ON it.invoice_id = v.id AND NOT it.is_gift
		WHERE v.company_id = $1 AND NOT v.is_override AND v.created_at BETWEEN $2 AND $3
		GROUP BY v.id, v.invoice_number
		ORDER BY v.invoice_number`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoice payments report: %w", err)
	}
	return collect(rows, func() (repository.InvoicePaymentRow, error) {
		var row repository.InvoicePaymentRow
		err := rows.Scan(&row.InvoiceNumber, &row.PaymentMethod, &row.Total)
		return row, err
	})
}
