package entity

import "time"

// Provider representa un proveedor de mercancía.
type Provider struct {
	ID          string
	CompanyID   string
	CreatedByID string
	Name        string
	LegalName   string
	NIT         string
	Phone       string
	Email       string
	BankAccount string
	AccountType string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
