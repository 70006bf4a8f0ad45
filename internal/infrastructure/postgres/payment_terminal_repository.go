package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.PaymentTerminalRepository = (*PaymentTerminalRepo)(nil)

// PaymentTerminalRepo datáfonos sobre PostgreSQL.
type PaymentTerminalRepo struct {
	q Querier
}

func NewPaymentTerminalRepository(q Querier) *PaymentTerminalRepo {
	return &PaymentTerminalRepo{q: q}
}

const terminalColumns = `t.id, t.company_id, COALESCE(t.created_by_id::text, ''), t.account_code, t.name, t.is_wireless,
	t.active, t.created_at, t.updated_at`

func scanTerminal(s pgxScanner) (*entity.PaymentTerminal, error) {
	var t entity.PaymentTerminal
	err := s.Scan(&t.ID, &t.CompanyID, &t.CreatedByID, &t.AccountCode, &t.Name, &t.IsWireless,
		&t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PaymentTerminalRepo) Create(ctx context.Context, t *entity.PaymentTerminal) error {
	const query = `
		INSERT INTO payment_terminals (id, company_id, created_by_id, account_code, name, is_wireless, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, nullIfEmpty(t.CreatedByID), t.AccountCode, t.Name, t.IsWireless, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment terminal: %w", err)
	}
	return nil
}

func (r *PaymentTerminalRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PaymentTerminal, error) {
	t, err := scanTerminal(r.q.QueryRow(ctx,
		`SELECT `+terminalColumns+` FROM payment_terminals t WHERE t.company_id = $1 AND t.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment terminal: %w", err)
	}
	return t, nil
}

func (r *PaymentTerminalRepo) Update(ctx context.Context, t *entity.PaymentTerminal) error {
	const query = `
		UPDATE payment_terminals SET account_code = $3, name = $4, is_wireless = $5, active = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update payment terminal", query,
		t.CompanyID, t.ID, t.AccountCode, t.Name, t.IsWireless, t.Active, t.UpdatedAt)
}

func (r *PaymentTerminalRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete payment terminal",
		`DELETE FROM payment_terminals WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *PaymentTerminalRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle payment terminal",
		`UPDATE payment_terminals SET active = $3, updated_at = now() WHERE company_id = $1 AND id = $2`, companyID, id, active)
}

var terminalFilters = map[string]filterColumn{
	"active":      {column: "t.active", boolean: true},
	"is_wireless": {column: "t.is_wireless", boolean: true},
}

func (r *PaymentTerminalRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.PaymentTerminal, int, error) {
	q := newListQuery("t.company_id", f.CompanyID).keyword(f.Keyword, "t.name", "t.account_code", "u.fullname", "u.email")
	if err := q.filters(f.Filters, terminalFilters); err != nil {
		return nil, 0, err
	}
	items, total, err := runList(ctx, r.q, terminalColumns,
		"payment_terminals t LEFT JOIN users u ON u.id = t.created_by_id", q, "t.name", f, scanTerminal)
	if err != nil {
		return nil, 0, fmt.Errorf("list payment terminals: %w", err)
	}
	return items, total, nil
}
