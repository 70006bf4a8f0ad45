package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `c.id, c.company_id, COALESCE(c.created_by_id::text, ''), c.document_id, c.document_type, c.name,
	c.phone, c.email, c.address, c.city, c.created_at, c.updated_at`

func scanCustomer(s pgxScanner) (*entity.Customer, error) {
	var c entity.Customer
	err := s.Scan(&c.ID, &c.CompanyID, &c.CreatedByID, &c.DocumentID, &c.DocumentType, &c.Name,
		&c.Phone, &c.Email, &c.Address, &c.City, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const query = `
		INSERT INTO customers (id, company_id, created_by_id, document_id, document_type, name, phone, email, address,
			city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, nullIfEmpty(c.CreatedByID), c.DocumentID, c.DocumentType, c.Name, c.Phone, c.Email, c.Address,
		c.City, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.company_id = $1 AND c.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const query = `
		UPDATE customers SET document_id = $3, document_type = $4, name = $5, phone = $6, email = $7, address = $8,
			city = $9, updated_at = $10
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update customer", query,
		c.CompanyID, c.ID, c.DocumentID, c.DocumentType, c.Name, c.Phone, c.Email, c.Address, c.City, c.UpdatedAt)
}

func (r *CustomerRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete customer",
		`DELETE FROM customers WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *CustomerRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	q := newListQuery("c.company_id", f.CompanyID).keyword(f.Keyword, "c.document_id", "c.name", "u.fullname", "u.email")
	items, total, err := runList(ctx, r.q, customerColumns,
		"customers c LEFT JOIN users u ON u.id = c.created_by_id", q, "c.created_at DESC", f, scanCustomer)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return items, total, nil
}
