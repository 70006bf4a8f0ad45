package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `i.id, i.company_id, COALESCE(i.created_by_id::text, ''), i.code, i.photo, i.provider_id::text,
	i.group_id::text, i.name, i.cost_center, i.total_in_shops, i.total_in_storage, i.selling_price, i.buying_price,
	i.usd_price, i.active, i.created_at, i.updated_at`

func scanProduct(s pgxScanner, extra ...any) (*entity.Product, error) {
	var p entity.Product
	dest := append([]any{
		&p.ID, &p.CompanyID, &p.CreatedByID, &p.Code, &p.Photo, &p.ProviderID,
		&p.GroupID, &p.Name, &p.CostCenter, &p.TotalInShops, &p.TotalInStorage, &p.SellingPrice, &p.BuyingPrice,
		&p.USDPrice, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. El código es único por empresa.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const query = `
		INSERT INTO inventories (id, company_id, created_by_id, code, photo, provider_id, group_id, name, cost_center,
			total_in_shops, total_in_storage, selling_price, buying_price, usd_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullIfEmpty(p.CreatedByID), p.Code, p.Photo, nullIfNil(p.ProviderID), nullIfNil(p.GroupID),
		p.Name, p.CostCenter, p.TotalInShops, p.TotalInStorage, p.SellingPrice, p.BuyingPrice, p.USDPrice, p.Active,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la empresa.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM inventories i WHERE i.company_id = $1 AND i.id = $2`, companyID, id)
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM inventories i WHERE i.company_id = $1 AND i.id = $2 FOR UPDATE`, companyID, id)
}

func (r *ProductRepo) get(ctx context.Context, query, companyID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza todos los campos editables, incluidas las cantidades.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	const query = `
		UPDATE inventories SET code = $3, photo = $4, provider_id = $5, group_id = $6, name = $7, cost_center = $8,
			total_in_shops = $9, total_in_storage = $10, selling_price = $11, buying_price = $12, usd_price = $13,
			active = $14, updated_at = $15
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update product", query,
		p.CompanyID, p.ID, p.Code, p.Photo, nullIfNil(p.ProviderID), nullIfNil(p.GroupID), p.Name, p.CostCenter,
		p.TotalInShops, p.TotalInStorage, p.SellingPrice, p.BuyingPrice, p.USDPrice, p.Active, p.UpdatedAt)
}

// UpdateQuantities persiste solo las cantidades (motor de facturación y movimientos).
func (r *ProductRepo) UpdateQuantities(ctx context.Context, p *entity.Product) error {
	return execAffecting(ctx, r.q, "update product quantities",
		`UPDATE inventories SET total_in_shops = $2, total_in_storage = $3, updated_at = now() WHERE id = $1`,
		p.ID, p.TotalInShops, p.TotalInStorage)
}

func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete product",
		`DELETE FROM inventories WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *ProductRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle product",
		`UPDATE inventories SET active = $3, updated_at = now() WHERE company_id = $1 AND id = $2`, companyID, id, active)
}

var productFilters = map[string]filterColumn{
	"active":      {column: "i.active", boolean: true},
	"group_id":    {column: "i.group_id"},
	"provider_id": {column: "i.provider_id"},
}

// List ordena por código e incluye categoría, proveedor y creador.
func (r *ProductRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ProductView, int, error) {
	q := newListQuery("i.company_id", f.CompanyID).keyword(f.Keyword, "i.code", "i.name", "g.name", "u.fullname", "u.email")
	if err := q.filters(f.Filters, productFilters); err != nil {
		return nil, 0, err
	}
	const from = `inventories i
		LEFT JOIN inventory_groups g ON g.id = i.group_id
		LEFT JOIN providers p ON p.id = i.provider_id
		LEFT JOIN users u ON u.id = i.created_by_id`
	cols := productColumns + `, COALESCE(g.name, ''), COALESCE(p.name, ''), COALESCE(u.fullname, '')`
	items, total, err := runList(ctx, r.q, cols, from, q, "i.code", f,
		func(s pgxScanner) (*entity.ProductView, error) {
			var v entity.ProductView
			p, err := scanProduct(s, &v.GroupName, &v.ProviderName, &v.CreatedBy)
			if err != nil {
				return nil, err
			}
			v.Product = *p
			return &v, nil
		})
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return items, total, nil
}
