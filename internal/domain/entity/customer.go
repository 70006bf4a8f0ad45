package entity

import "time"

// Tipos de documento de identificación.
const (
	DocumentCC  = "CC"
	DocumentPA  = "PA"
	DocumentNIT = "NIT"
	DocumentCE  = "CE"
	DocumentTI  = "TI"
	DocumentDIE = "DIE"
)

// ValidDocumentType indica si el tipo de documento es válido para clientes.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentCC, DocumentPA, DocumentNIT, DocumentCE, DocumentTI, DocumentDIE:
		return true
	}
	return false
}

// ValidUserDocumentType los usuarios no aceptan DIE.
func ValidUserDocumentType(t string) bool {
	return t != DocumentDIE && ValidDocumentType(t)
}

// Customer representa un cliente de la empresa (facturación).
type Customer struct {
	ID           string
	CompanyID    string
	CreatedByID  string
	DocumentID   string // único por empresa
	DocumentType string
	Name         string
	Phone        string
	Email        string
	Address      string
	City         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
