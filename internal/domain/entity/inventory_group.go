package entity

import "time"

// InventoryGroup representa una categoría de productos. Puede pertenecer a otra categoría (BelongsToID).
type InventoryGroup struct {
	ID          string
	CompanyID   string
	CreatedByID string
	Name        string // único por empresa
	BelongsToID *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InventoryGroupView agrega el padre y el conteo de productos para listados.
type InventoryGroupView struct {
	InventoryGroup
	ParentName string
	TotalItems int
	CreatedBy  string
}
