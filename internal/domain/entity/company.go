package entity

import "time"

// Company representa una organización/tenant del sistema. Todas las demás entidades cuelgan de ella.
type Company struct {
	ID        string
	Name      string
	DianToken string // token del proveedor de facturación electrónica
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	ShortName string
	Phone     string
	Logo      string // URL del logo
	CreatedAt time.Time
	UpdatedAt time.Time
}
