package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RolePOSAdmin     = "posAdmin"
	RoleShopAdmin    = "shopAdmin"
	RoleSales        = "sales"
	RoleSupportSales = "supportSales"
	RoleStorageAdmin = "storageAdmin"
)

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePOSAdmin, RoleShopAdmin, RoleSales, RoleSupportSales, RoleStorageAdmin:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Fullname     string
	DocumentType string
	DocumentID   string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	IsActive     bool
	IsSuperuser  bool
	DailyGoal    decimal.Decimal
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserActivity es una entrada de la bitácora de acciones de un usuario.
// Email y Fullname se copian al momento de registrar la acción.
type UserActivity struct {
	ID        string
	UserID    string
	CompanyID string
	Email     string
	Fullname  string
	Action    string
	CreatedAt time.Time
}
