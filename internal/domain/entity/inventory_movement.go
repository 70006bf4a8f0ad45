package entity

import "time"

// Tipos de evento de un movimiento de inventario.
const (
	EventPurchase = "purchase" // compra: entra mercancía al destino
	EventShipment = "shipment" // traslado entre ubicaciones
	EventReturn   = "return"   // devolución: sale mercancía del origen
)

// Estados del flujo de aprobación (aplican al movimiento y a cada ítem).
const (
	MovementPending   = "pending"
	MovementApproved  = "approved"
	MovementRejected  = "rejected"
	MovementOverrided = "overrided"
)

// Ubicaciones de stock. LocationStore corresponde a Product.TotalInShops
// y LocationWarehouse a Product.TotalInStorage.
const (
	LocationStore     = "store"
	LocationWarehouse = "warehouse"
)

// Acciones válidas sobre un movimiento o ítem.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionOverride = "override"
)

// ValidEventType indica si el tipo de evento es soportado.
func ValidEventType(t string) bool {
	return t == EventPurchase || t == EventShipment || t == EventReturn
}

// ValidLocation acepta store, warehouse o vacío.
func ValidLocation(l string) bool {
	return l == "" || l == LocationStore || l == LocationWarehouse
}

// InventoryMovement representa una solicitud de movimiento de mercancía que pasa por aprobación.
type InventoryMovement struct {
	ID           string
	CompanyID    string
	CreatedByID  string
	EventType    string
	EventDate    time.Time
	Origin       string
	Destination  string
	State        string
	ProviderID   *string
	Observations string
	Items        []InventoryMovementItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InventoryMovementItem producto y cantidad dentro de un movimiento.
type InventoryMovementItem struct {
	ID          string
	MovementID  string
	InventoryID string
	Quantity    int
	State       string
}
