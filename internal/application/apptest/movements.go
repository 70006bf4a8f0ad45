package apptest

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// MovementRepo fake de repository.InventoryMovementRepository.
type MovementRepo struct{ s *Store }

func (s *Store) Movements() MovementRepo { return MovementRepo{s} }

func (r MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.PutMovement(*m)
	return nil
}

func (r MovementRepo) GetByID(_ context.Context, companyID, id string) (*entity.InventoryMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	m = cloneMovement(m)
	return &m, nil
}

func (r MovementRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r MovementRepo) UpdateHeader(_ context.Context, in *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := r.s.movements[in.ID]
	items := m.Items
	m = cloneMovement(*in)
	m.Items = items
	r.s.movements[in.ID] = m
	return nil
}

func (r MovementRepo) ReplaceItems(_ context.Context, in *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := r.s.movements[in.ID]
	m.Items = append([]entity.InventoryMovementItem(nil), in.Items...)
	r.s.movements[in.ID] = m
	return nil
}

func (r MovementRepo) SetState(_ context.Context, id, state string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := r.s.movements[id]
	m.State = state
	r.s.movements[id] = m
	return nil
}

func (r MovementRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.movements, id)
	return nil
}

func (r MovementRepo) GetItemForUpdate(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	return r.GetItem(ctx, companyID, itemID)
}

func (r MovementRepo) GetItem(_ context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.CompanyID != companyID {
			continue
		}
		for _, it := range m.Items {
			if it.ID == itemID {
				return &it, nil
			}
		}
	}
	return nil, nil
}

func (r MovementRepo) SetItemState(_ context.Context, itemID, state string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.movements {
		for i := range m.Items {
			if m.Items[i].ID == itemID {
				m = cloneMovement(m)
				m.Items[i].State = state
				r.s.movements[id] = m
				return nil
			}
		}
	}
	return nil
}

func (r MovementRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.InventoryMovement, int, error) {
	r.s.mu.Lock()
	var rows []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.CompanyID != f.CompanyID {
			continue
		}
		if st := f.Filters["state"]; st != "" && m.State != st {
			continue
		}
		m := cloneMovement(m)
		rows = append(rows, &m)
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(m *entity.InventoryMovement) time.Time { return m.CreatedAt })
	return out, count, nil
}
