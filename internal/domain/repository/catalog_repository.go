package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// InventoryGroupRepository define el puerto de persistencia para categorías.
type InventoryGroupRepository interface {
	Create(ctx context.Context, g *entity.InventoryGroup) error
	GetByID(ctx context.Context, companyID, id string) (*entity.InventoryGroup, error)
	Update(ctx context.Context, g *entity.InventoryGroup) error
	Delete(ctx context.Context, companyID, id string) error
	SetActive(ctx context.Context, companyID, id string, active bool) error
	// DeactivateChildren desactiva las subcategorías directas de parentID.
	DeactivateChildren(ctx context.Context, companyID, parentID string) error
	// List filtros: active, belongs_to_id.
	List(ctx context.Context, f ListFilter) ([]*entity.InventoryGroupView, int, error)
}

// ProviderRepository define el puerto de persistencia para proveedores.
type ProviderRepository interface {
	Create(ctx context.Context, p *entity.Provider) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Provider, error)
	Update(ctx context.Context, p *entity.Provider) error
	Delete(ctx context.Context, companyID, id string) error
	SetActive(ctx context.Context, companyID, id string, active bool) error
	List(ctx context.Context, f ListFilter) ([]*entity.Provider, int, error)
}

// ProductRepository define el puerto de persistencia para Product (usable con pool o tx).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). Solo dentro de una transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	// UpdateQuantities persiste TotalInShops y TotalInStorage.
	UpdateQuantities(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, companyID, id string) error
	SetActive(ctx context.Context, companyID, id string, active bool) error
	// List ordena por código. Filtros: active, group_id, provider_id.
	List(ctx context.Context, f ListFilter) ([]*entity.ProductView, int, error)
}

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Customer, int, error)
}

// PaymentTerminalRepository define el puerto de persistencia para datáfonos.
type PaymentTerminalRepository interface {
	Create(ctx context.Context, t *entity.PaymentTerminal) error
	GetByID(ctx context.Context, companyID, id string) (*entity.PaymentTerminal, error)
	Update(ctx context.Context, t *entity.PaymentTerminal) error
	Delete(ctx context.Context, companyID, id string) error
	SetActive(ctx context.Context, companyID, id string, active bool) error
	// List filtros: active, is_wireless.
	List(ctx context.Context, f ListFilter) ([]*entity.PaymentTerminal, int, error)
}

// GoalRepository define el puerto de persistencia para metas de ventas.
type GoalRepository interface {
	Create(ctx context.Context, g *entity.Goal) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Goal, error)
	Update(ctx context.Context, g *entity.Goal) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Goal, int, error)
}
