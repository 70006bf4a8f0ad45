package inventory

import (
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// Mode indica cómo se aplica un ítem de movimiento sobre el producto.
type Mode int

const (
	// ModeCheck solo valida que las salidas se puedan cubrir con el stock actual.
	ModeCheck Mode = iota
	// ModeApproval aplica el efecto del movimiento.
	ModeApproval
	// ModeOverride revierte un movimiento aprobado.
	ModeOverride
)

func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeApproval:
		return "approval"
	case ModeOverride:
		return "override"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Deltas devuelve el cambio de cantidad por ubicación que produce la aprobación de un
// movimiento, validando que el tipo de evento tenga las ubicaciones que necesita.
//
//	purchase: destino += qty
//	shipment: origen -= qty, destino += qty (origen y destino distintos)
//	return:   origen -= qty
func Deltas(qty int, origin, destination, eventType string) (map[string]int, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !entity.ValidLocation(origin) || !entity.ValidLocation(destination) {
		return nil, fmt.Errorf("%w: ubicación no válida", domain.ErrInvalidInput)
	}
	switch eventType {
	case entity.EventPurchase:
		if destination == "" {
			return nil, fmt.Errorf("%w: una compra requiere destino", domain.ErrInvalidInput)
		}
		return map[string]int{destination: qty}, nil
	case entity.EventShipment:
		if origin == "" || destination == "" {
			return nil, fmt.Errorf("%w: un traslado requiere origen y destino", domain.ErrInvalidInput)
		}
		if origin == destination {
			return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
		}
		return map[string]int{origin: -qty, destination: qty}, nil
	case entity.EventReturn:
		if origin == "" {
			return nil, fmt.Errorf("%w: una devolución requiere origen", domain.ErrInvalidInput)
		}
		return map[string]int{origin: -qty}, nil
	}
	return nil, fmt.Errorf("%w: tipo de evento %q no válido", domain.ErrInvalidInput, eventType)
}

// Apply aplica (o valida, en ModeCheck) un ítem de movimiento sobre el producto.
// Si alguna salida deja una ubicación en negativo devuelve *domain.StockError y no modifica el producto.
func Apply(p *entity.Product, qty int, origin, destination, eventType string, mode Mode) error {
	deltas, err := Deltas(qty, origin, destination, eventType)
	if err != nil {
		return err
	}
	if mode == ModeOverride {
		for loc, d := range deltas {
			deltas[loc] = -d
		}
	}

	// Orden fijo para que el error reportado sea determinista.
	for _, loc := range []string{entity.LocationStore, entity.LocationWarehouse} {
		d, ok := deltas[loc]
		if !ok || d >= 0 {
			continue
		}
		if *quantityAt(p, loc)+d < 0 {
			return &domain.StockError{Code: p.Code, Location: loc}
		}
	}
	if mode == ModeCheck {
		return nil
	}
	for loc, d := range deltas {
		*quantityAt(p, loc) += d
	}
	return nil
}

func quantityAt(p *entity.Product, location string) *int {
	if location == entity.LocationStore {
		return &p.TotalInShops
	}
	return &p.TotalInStorage
}
