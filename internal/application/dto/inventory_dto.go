package dto

import "time"

// MovementItemRequest producto y cantidad de un movimiento.
type MovementItemRequest struct {
	InventoryID string `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
}

// InventoryMovementRequest alta o actualización de un movimiento. EventDate en RFC3339 o YYYY-MM-DD.
type InventoryMovementRequest struct {
	EventType    string                `json:"event_type"`
	EventDate    string                `json:"event_date"`
	Origin       string                `json:"origin"`
	Destination  string                `json:"destination"`
	State        string                `json:"state"`
	ProviderID   *string               `json:"provider_id"`
	Observations string                `json:"observations"`
	Items        []MovementItemRequest `json:"items"`
}

// MovementItemResponse ítem de un movimiento.
type MovementItemResponse struct {
	ID          string `json:"id"`
	InventoryID string `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
	State       string `json:"state"`
}

// InventoryMovementResponse movimiento con sus ítems.
type InventoryMovementResponse struct {
	ID           string                 `json:"id"`
	EventType    string                 `json:"event_type"`
	EventDate    time.Time              `json:"event_date"`
	Origin       string                 `json:"origin"`
	Destination  string                 `json:"destination"`
	State        string                 `json:"state"`
	ProviderID   *string                `json:"provider_id"`
	Observations string                 `json:"observations"`
	CreatedByID  string                 `json:"created_by_id"`
	Items        []MovementItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
}
