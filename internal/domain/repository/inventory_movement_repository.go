package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia de movimientos y sus ítems.
type InventoryMovementRepository interface {
	// Create persiste la cabecera y los ítems.
	Create(ctx context.Context, m *entity.InventoryMovement) error
	// GetByID carga el movimiento con sus ítems o nil, nil.
	GetByID(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error)
	// GetForUpdate bloquea la cabecera y carga los ítems.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error)
	UpdateHeader(ctx context.Context, m *entity.InventoryMovement) error
	// ReplaceItems borra los ítems actuales e inserta m.Items.
	ReplaceItems(ctx context.Context, m *entity.InventoryMovement) error
	SetState(ctx context.Context, id, state string) error
	Delete(ctx context.Context, companyID, id string) error

	// GetItem lee un ítem sin bloquearlo; la empresa se valida vía su movimiento.
	GetItem(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error)
	// GetItemForUpdate bloquea un ítem. Se llama con el movimiento ya bloqueado.
	GetItemForUpdate(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error)
	SetItemState(ctx context.Context, itemID, state string) error

	// List filtros: state, event_type, origin, destination.
	List(ctx context.Context, f ListFilter) ([]*entity.InventoryMovement, int, error)
}
