package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL (pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `v.id, v.company_id, COALESCE(v.created_by_id::text, ''), COALESCE(v.sale_by_id::text, ''),
	v.payment_terminal_id::text, v.customer_id::text, COALESCE(v.dian_resolution_id::text, ''), v.invoice_number,
	v.is_dollar, v.is_override, v.created_at`

func scanInvoice(s pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := s.Scan(&inv.ID, &inv.CompanyID, &inv.CreatedByID, &inv.SaleByID,
		&inv.PaymentTerminalID, &inv.CustomerID, &inv.DianResolutionID, &inv.InvoiceNumber,
		&inv.IsDollar, &inv.IsOverride, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera. invoice_number es único por empresa.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		INSERT INTO invoices (id, company_id, created_by_id, sale_by_id, payment_terminal_id, customer_id,
			dian_resolution_id, invoice_number, is_dollar, is_override, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, nullIfEmpty(inv.CreatedByID), nullIfEmpty(inv.SaleByID), nullIfNil(inv.PaymentTerminalID),
		nullIfNil(inv.CustomerID), nullIfEmpty(inv.DianResolutionID), inv.InvoiceNumber, inv.IsDollar, inv.IsOverride,
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	const query = `
		INSERT INTO invoice_items (id, invoice_id, item_id, item_name, item_code, quantity, amount, usd_amount,
			discount, original_amount, original_usd_amount, is_gift)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, nullIfEmpty(it.ItemID), it.ItemName, it.ItemCode, it.Quantity, it.Amount, it.UsdAmount,
		it.Discount, it.OriginalAmount, it.OriginalUsdAmount, it.IsGift,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) CreatePaymentMethod(ctx context.Context, pm *entity.PaymentMethod) error {
	const query = `
		INSERT INTO payment_methods (id, invoice_id, name, paid_amount, back_amount, received_amount, transaction_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		pm.ID, pm.InvoiceID, pm.Name, pm.PaidAmount, pm.BackAmount, pm.ReceivedAmount, pm.TransactionCode)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) DeletePaymentMethods(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payment_methods WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete payment methods: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.getFull(ctx, "get invoice",
		`SELECT `+invoiceColumns+` FROM invoices v WHERE v.company_id = $1 AND v.id = $2`, companyID, id)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, companyID string, number int64) (*entity.Invoice, error) {
	return r.getFull(ctx, "get invoice by number",
		`SELECT `+invoiceColumns+` FROM invoices v WHERE v.company_id = $1 AND v.invoice_number = $2`, companyID, number)
}

// GetByNumberForUpdate bloquea la factura; anular la misma factura en paralelo queda serializado.
func (r *InvoiceRepo) GetByNumberForUpdate(ctx context.Context, companyID string, number int64) (*entity.Invoice, error) {
	return r.getFull(ctx, "lock invoice by number",
		`SELECT `+invoiceColumns+` FROM invoices v WHERE v.company_id = $1 AND v.invoice_number = $2 FOR UPDATE`, companyID, number)
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.getFull(ctx, "lock invoice",
		`SELECT `+invoiceColumns+` FROM invoices v WHERE v.company_id = $1 AND v.id = $2 FOR UPDATE`, companyID, id)
}

func (r *InvoiceRepo) getFull(ctx context.Context, op, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.loadChildren(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// loadChildren carga ítems y medios de pago de varias facturas con dos consultas.
func (r *InvoiceRepo) loadChildren(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]string, len(invoices))
	byID := make(map[string]*entity.Invoice, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
		byID[inv.ID] = inv
		inv.Items = []entity.InvoiceItem{}
		inv.PaymentMethods = []entity.PaymentMethod{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, COALESCE(item_id::text, ''), item_name, item_code, quantity, amount, usd_amount,
			discount, original_amount, original_usd_amount, is_gift
		FROM invoice_items WHERE invoice_id = ANY($1::uuid[]) ORDER BY item_code, id`, ids)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ItemID, &it.ItemName, &it.ItemCode, &it.Quantity, &it.Amount,
			&it.UsdAmount, &it.Discount, &it.OriginalAmount, &it.OriginalUsdAmount, &it.IsGift); err != nil {
			rows.Close()
			return fmt.Errorf("scan invoice item: %w", err)
		}
		byID[it.InvoiceID].Items = append(byID[it.InvoiceID].Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("invoice items rows: %w", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, invoice_id, name, paid_amount, back_amount, received_amount, transaction_code
		FROM payment_methods WHERE invoice_id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pm entity.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.InvoiceID, &pm.Name, &pm.PaidAmount, &pm.BackAmount, &pm.ReceivedAmount,
			&pm.TransactionCode); err != nil {
			return fmt.Errorf("scan payment method: %w", err)
		}
		byID[pm.InvoiceID].PaymentMethods = append(byID[pm.InvoiceID].PaymentMethods, pm)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("payment methods rows: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) SetOverride(ctx context.Context, id string) error {
	return execAffecting(ctx, r.q, "override invoice", `UPDATE invoices SET is_override = true WHERE id = $1`, id)
}

func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	return execAffecting(ctx, r.q, "update invoice",
		`UPDATE invoices SET payment_terminal_id = $2, is_dollar = $3 WHERE id = $1`,
		inv.ID, nullIfNil(inv.PaymentTerminalID), inv.IsDollar)
}

// Delete elimina la factura con sus ítems y pagos (ON DELETE CASCADE).
func (r *InvoiceRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete invoice", `DELETE FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)
}

var invoiceFilters = map[string]filterColumn{
	"is_override":    {column: "v.is_override", boolean: true},
	"is_dollar":      {column: "v.is_dollar", boolean: true},
	"sale_by_id":     {column: "v.sale_by_id"},
	"customer_id":    {column: "v.customer_id"},
	"invoice_number": {column: "v.invoice_number", number: true},
}

const invoiceListFrom = `invoices v
	LEFT JOIN dian_resolutions r ON r.id = v.dian_resolution_id
	LEFT JOIN users u ON u.id = v.created_by_id`

func (r *InvoiceRepo) listQuery(f repository.ListFilter) (*listQuery, error) {
	q := newListQuery("v.company_id", f.CompanyID).
		keyword(f.Keyword, "v.invoice_number", "r.document_number", "u.fullname", "u.email")
	if err := q.filters(f.Filters, invoiceFilters); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	q, err := r.listQuery(f)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := runList(ctx, r.q, invoiceColumns, invoiceListFrom, q, "v.created_at DESC", f, scanInvoice)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	if err := r.loadChildren(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SimpleList devuelve las facturas sin ítems, con los totales de los ítems que no son obsequio.
func (r *InvoiceRepo) SimpleList(ctx context.Context, f repository.ListFilter) ([]*repository.InvoiceSummary, int, error) {
	q, err := r.listQuery(f)
	if err != nil {
		return nil, 0, err
	}
	const cols = `v.id, v.invoice_number, v.is_dollar, v.is_override,
		COALESCE(s.fullname, ''), COALESCE(c.name, ''), COALESCE(r.document_number, ''), COALESCE(t.name, ''),
		COALESCE((SELECT SUM(amount) FROM invoice_items WHERE invoice_id = v.id AND NOT is_gift), 0),
		COALESCE((SELECT SUM(usd_amount) FROM invoice_items WHERE invoice_id = v.id AND NOT is_gift), 0),
		v.created_at`
	const from = invoiceListFrom + `
	LEFT JOIN users s ON s.id = v.sale_by_id
	LEFT JOIN customers c ON c.id = v.customer_id
	LEFT JOIN payment_terminals t ON t.id = v.payment_terminal_id`
	items, total, err := runList(ctx, r.q, cols, from, q, "v.created_at DESC", f,
		func(s pgxScanner) (*repository.InvoiceSummary, error) {
			var sum repository.InvoiceSummary
			if err := s.Scan(&sum.ID, &sum.InvoiceNumber, &sum.IsDollar, &sum.IsOverride,
				&sum.SaleByFullname, &sum.CustomerName, &sum.ResolutionNumber, &sum.PaymentTerminalName,
				&sum.TotalSum, &sum.TotalSumUSD, &sum.CreatedAt); err != nil {
				return nil, err
			}
			return &sum, nil
		})
	if err != nil {
		return nil, 0, fmt.Errorf("simple list invoices: %w", err)
	}
	return items, total, nil
}
