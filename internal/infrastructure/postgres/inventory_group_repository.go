package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.InventoryGroupRepository = (*InventoryGroupRepo)(nil)

// InventoryGroupRepo categorías de productos sobre PostgreSQL.
type InventoryGroupRepo struct {
	q Querier
}

func NewInventoryGroupRepository(q Querier) *InventoryGroupRepo {
	return &InventoryGroupRepo{q: q}
}

const groupColumns = `g.id, g.company_id, COALESCE(g.created_by_id::text, ''), g.name, g.belongs_to_id::text, g.active, g.created_at, g.updated_at`

func scanGroup(s pgxScanner, extra ...any) (*entity.InventoryGroup, error) {
	var g entity.InventoryGroup
	dest := append([]any{&g.ID, &g.CompanyID, &g.CreatedByID, &g.Name, &g.BelongsToID, &g.Active, &g.CreatedAt, &g.UpdatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *InventoryGroupRepo) Create(ctx context.Context, g *entity.InventoryGroup) error {
	const query = `
		INSERT INTO inventory_groups (id, company_id, created_by_id, name, belongs_to_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.CompanyID, nullIfEmpty(g.CreatedByID), g.Name, nullIfNil(g.BelongsToID), g.Active, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory group: %w", err)
	}
	return nil
}

func (r *InventoryGroupRepo) GetByID(ctx context.Context, companyID, id string) (*entity.InventoryGroup, error) {
	g, err := scanGroup(r.q.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM inventory_groups g WHERE g.company_id = $1 AND g.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory group: %w", err)
	}
	return g, nil
}

func (r *InventoryGroupRepo) Update(ctx context.Context, g *entity.InventoryGroup) error {
	const query = `
		UPDATE inventory_groups SET name = $3, belongs_to_id = $4, active = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update inventory group", query,
		g.CompanyID, g.ID, g.Name, nullIfNil(g.BelongsToID), g.Active, g.UpdatedAt)
}

// Delete elimina la categoría; sus hijas quedan sin padre (ON DELETE SET NULL).
func (r *InventoryGroupRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete inventory group",
		`DELETE FROM inventory_groups WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *InventoryGroupRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle inventory group",
		`UPDATE inventory_groups SET active = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, active)
}

func (r *InventoryGroupRepo) DeactivateChildren(ctx context.Context, companyID, parentID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE inventory_groups SET active = false, updated_at = now() WHERE company_id = $1 AND belongs_to_id = $2`,
		companyID, parentID)
	if err != nil {
		return fmt.Errorf("deactivate child groups: %w", err)
	}
	return nil
}

var groupFilters = map[string]filterColumn{
	"active":        {column: "g.active", boolean: true},
	"belongs_to_id": {column: "g.belongs_to_id"},
}

// List incluye el nombre del padre y el total de productos de cada categoría.
func (r *InventoryGroupRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.InventoryGroupView, int, error) {
	q := newListQuery("g.company_id", f.CompanyID).keyword(f.Keyword, "g.name", "u.fullname", "u.email")
	if err := q.filters(f.Filters, groupFilters); err != nil {
		return nil, 0, err
	}
	const from = `inventory_groups g
		LEFT JOIN inventory_groups parent ON parent.id = g.belongs_to_id
		LEFT JOIN users u ON u.id = g.created_by_id`
	cols := groupColumns + `, COALESCE(parent.name, ''), COALESCE(u.fullname, ''),
		(SELECT COUNT(*) FROM inventories i WHERE i.group_id = g.id)`
	items, total, err := runList(ctx, r.q, cols, from, q, "g.name", f,
		func(s pgxScanner) (*entity.InventoryGroupView, error) {
			var v entity.InventoryGroupView
			g, err := scanGroup(s, &v.ParentName, &v.CreatedBy, &v.TotalItems)
			if err != nil {
				return nil, err
			}
			v.InventoryGroup = *g
			return &v, nil
		})
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory groups: %w", err)
	}
	return items, total, nil
}
