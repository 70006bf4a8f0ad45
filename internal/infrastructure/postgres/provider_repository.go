package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo proveedores sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `p.id, p.company_id, COALESCE(p.created_by_id::text, ''), p.name, p.legal_name, p.nit, p.phone,
	p.email, p.bank_account, p.account_type, p.active, p.created_at, p.updated_at`

func scanProvider(s pgxScanner) (*entity.Provider, error) {
	var p entity.Provider
	err := s.Scan(&p.ID, &p.CompanyID, &p.CreatedByID, &p.Name, &p.LegalName, &p.NIT, &p.Phone,
		&p.Email, &p.BankAccount, &p.AccountType, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepo) Create(ctx context.Context, p *entity.Provider) error {
	const query = `
		INSERT INTO providers (id, company_id, created_by_id, name, legal_name, nit, phone, email, bank_account,
			account_type, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullIfEmpty(p.CreatedByID), p.Name, p.LegalName, p.NIT, p.Phone, p.Email, p.BankAccount,
		p.AccountType, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

func (r *ProviderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Provider, error) {
	p, err := scanProvider(r.q.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers p WHERE p.company_id = $1 AND p.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return p, nil
}

func (r *ProviderRepo) Update(ctx context.Context, p *entity.Provider) error {
	const query = `
		UPDATE providers SET name = $3, legal_name = $4, nit = $5, phone = $6, email = $7, bank_account = $8,
			account_type = $9, active = $10, updated_at = $11
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update provider", query,
		p.CompanyID, p.ID, p.Name, p.LegalName, p.NIT, p.Phone, p.Email, p.BankAccount, p.AccountType, p.Active, p.UpdatedAt)
}

func (r *ProviderRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete provider",
		`DELETE FROM providers WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *ProviderRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle provider",
		`UPDATE providers SET active = $3, updated_at = now() WHERE company_id = $1 AND id = $2`, companyID, id, active)
}

func (r *ProviderRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Provider, int, error) {
	q := newListQuery("p.company_id", f.CompanyID).keyword(f.Keyword, "p.nit", "p.name", "u.fullname", "u.email")
	if err := q.filters(f.Filters, map[string]filterColumn{"active": {column: "p.active", boolean: true}}); err != nil {
		return nil, 0, err
	}
	items, total, err := runList(ctx, r.q, providerColumns,
		"providers p LEFT JOIN users u ON u.id = p.created_by_id", q, "p.name", f, scanProvider)
	if err != nil {
		return nil, 0, fmt.Errorf("list providers: %w", err)
	}
	return items, total, nil
}
