package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación del puerto de movimientos sobre PostgreSQL.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `m.id, m.company_id, COALESCE(m.created_by_id::text, ''), m.event_type, m.event_date, m.origin,
	m.destination, m.state, m.provider_id::text, m.observations, m.created_at, m.updated_at`

func scanMovement(s pgxScanner) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := s.Scan(&m.ID, &m.CompanyID, &m.CreatedByID, &m.EventType, &m.EventDate, &m.Origin,
		&m.Destination, &m.State, &m.ProviderID, &m.Observations, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta la cabecera y sus ítems.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	const query = `
		INSERT INTO inventory_movements (id, company_id, created_by_id, event_type, event_date, origin, destination,
			state, provider_id, observations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, nullIfEmpty(m.CreatedByID), m.EventType, m.EventDate, m.Origin, m.Destination,
		m.State, nullIfNil(m.ProviderID), m.Observations, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return r.insertItems(ctx, m)
}

func (r *InventoryMovementRepo) insertItems(ctx context.Context, m *entity.InventoryMovement) error {
	for _, it := range m.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO inventory_movement_items (id, movement_id, inventory_id, quantity, state) VALUES ($1, $2, $3, $4, $5)`,
			it.ID, m.ID, it.InventoryID, it.Quantity, it.State)
		if err != nil {
			return fmt.Errorf("insert inventory movement item: %w", err)
		}
	}
	return nil
}

func (r *InventoryMovementRepo) GetByID(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error) {
	return r.getFull(ctx, `SELECT `+movementColumns+` FROM inventory_movements m WHERE m.company_id = $1 AND m.id = $2`, companyID, id)
}

func (r *InventoryMovementRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error) {
	return r.getFull(ctx, `SELECT `+movementColumns+` FROM inventory_movements m WHERE m.company_id = $1 AND m.id = $2 FOR UPDATE`, companyID, id)
}

func (r *InventoryMovementRepo) getFull(ctx context.Context, query, companyID, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory movement: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.InventoryMovement{m}); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *InventoryMovementRepo) loadItems(ctx context.Context, movements []*entity.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]string, len(movements))
	byID := make(map[string]*entity.InventoryMovement, len(movements))
	for i, m := range movements {
		ids[i] = m.ID
		byID[m.ID] = m
		m.Items = []entity.InventoryMovementItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, inventory_id, quantity, state
		FROM inventory_movement_items WHERE movement_id = ANY($1::uuid[]) ORDER BY inventory_id, id`, ids)
	if err != nil {
		return fmt.Errorf("list inventory movement items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryMovementItem
		if err := rows.Scan(&it.ID, &it.MovementID, &it.InventoryID, &it.Quantity, &it.State); err != nil {
			return fmt.Errorf("scan inventory movement item: %w", err)
		}
		byID[it.MovementID].Items = append(byID[it.MovementID].Items, it)
	}
	return rows.Err()
}

func (r *InventoryMovementRepo) UpdateHeader(ctx context.Context, m *entity.InventoryMovement) error {
	const query = `
		UPDATE inventory_movements SET event_type = $2, event_date = $3, origin = $4, destination = $5,
			provider_id = $6, observations = $7, updated_at = $8
		WHERE id = $1`
	return execAffecting(ctx, r.q, "update inventory movement", query,
		m.ID, m.EventType, m.EventDate, m.Origin, m.Destination, nullIfNil(m.ProviderID), m.Observations, m.UpdatedAt)
}

func (r *InventoryMovementRepo) ReplaceItems(ctx context.Context, m *entity.InventoryMovement) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_movement_items WHERE movement_id = $1`, m.ID); err != nil {
		return fmt.Errorf("delete inventory movement items: %w", err)
	}
	return r.insertItems(ctx, m)
}

func (r *InventoryMovementRepo) SetState(ctx context.Context, id, state string) error {
	return execAffecting(ctx, r.q, "update inventory movement state",
		`UPDATE inventory_movements SET state = $2, updated_at = now() WHERE id = $1`, id, state)
}

func (r *InventoryMovementRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete inventory movement",
		`DELETE FROM inventory_movements WHERE company_id = $1 AND id = $2`, companyID, id)
}

const itemQuery = `
	SELECT it.id, it.movement_id, it.inventory_id, it.quantity, it.state
	FROM inventory_movement_items it
	JOIN inventory_movements m ON m.id = it.movement_id
	WHERE m.company_id = $1 AND it.id = $2`

func (r *InventoryMovementRepo) GetItem(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	return r.getItem(ctx, "get inventory movement item", itemQuery, companyID, itemID)
}

// GetItemForUpdate bloquea solo la fila del ítem. El llamador bloquea antes el movimiento,
// en el mismo orden que ChangeState, para no cruzar bloqueos.
func (r *InventoryMovementRepo) GetItemForUpdate(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	return r.getItem(ctx, "lock inventory movement item", itemQuery+" FOR UPDATE OF it", companyID, itemID)
}

func (r *InventoryMovementRepo) getItem(ctx context.Context, op, query, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	var it entity.InventoryMovementItem
	err := r.q.QueryRow(ctx, query, companyID, itemID).Scan(&it.ID, &it.MovementID, &it.InventoryID, &it.Quantity, &it.State)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &it, nil
}

func (r *InventoryMovementRepo) SetItemState(ctx context.Context, itemID, state string) error {
	return execAffecting(ctx, r.q, "update inventory movement item state",
		`UPDATE inventory_movement_items SET state = $2 WHERE id = $1`, itemID, state)
}

var movementFilters = map[string]filterColumn{
	"state":       {column: "m.state"},
	"event_type":  {column: "m.event_type"},
	"origin":      {column: "m.origin"},
	"destination": {column: "m.destination"},
}

func (r *InventoryMovementRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.InventoryMovement, int, error) {
	q := newListQuery("m.company_id", f.CompanyID).keyword(f.Keyword, "m.event_type", "m.state", "u.fullname", "u.email")
	if err := q.filters(f.Filters, movementFilters); err != nil {
		return nil, 0, err
	}
	items, total, err := runList(ctx, r.q, movementColumns,
		"inventory_movements m LEFT JOIN users u ON u.id = m.created_by_id", q, "m.created_at DESC", f, scanMovement)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory movements: %w", err)
	}
	if err := r.loadItems(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
