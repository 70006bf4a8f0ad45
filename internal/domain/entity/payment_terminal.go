package entity

import "time"

// PaymentTerminal representa un datáfono.
type PaymentTerminal struct {
	ID          string
	CompanyID   string
	CreatedByID string
	AccountCode string
	Name        string
	IsWireless  bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
