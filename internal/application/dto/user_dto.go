package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Fullname     string          `json:"fullname"`
	DocumentType string          `json:"document_type"`
	DocumentID   string          `json:"document_id"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Role         string          `json:"role"`
	DailyGoal    decimal.Decimal `json:"daily_goal"`
}

// UpdateUserRequest actualización parcial de un usuario.
type UpdateUserRequest struct {
	Fullname     *string          `json:"fullname"`
	DocumentType *string          `json:"document_type"`
	DocumentID   *string          `json:"document_id"`
	Role         *string          `json:"role"`
	DailyGoal    *decimal.Decimal `json:"daily_goal"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de acceso y datos del usuario.
type LoginResponse struct {
	Access string       `json:"access"`
	User   UserResponse `json:"user"`
}

// UpdatePasswordRequest cambio de contraseña del propio usuario.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"company_id"`
	Fullname     string           `json:"fullname"`
	DocumentType string           `json:"document_type"`
	DocumentID   string           `json:"document_id"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	IsActive     bool             `json:"is_active"`
	IsSuperuser  bool             `json:"is_superuser"`
	DailyGoal    decimal.Decimal  `json:"daily_goal"`
	LastLogin    *time.Time       `json:"last_login"`
	CreatedAt    time.Time        `json:"created_at"`
	Company      *CompanyResponse `json:"company,omitempty"`
}

// UserActivityResponse entrada de la bitácora.
type UserActivityResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Fullname  string    `json:"fullname"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyResponse datos de la empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DianToken string    `json:"dian_token"`
	NIT       string    `json:"nit"`
	ShortName string    `json:"short_name"`
	Phone     string    `json:"phone"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateCompanyRequest actualización parcial de la empresa.
type UpdateCompanyRequest struct {
	Name      *string `json:"name"`
	DianToken *string `json:"dian_token"`
	NIT       *string `json:"nit"`
	ShortName *string `json:"short_name"`
	Phone     *string `json:"phone"`
	Logo      *string `json:"logo"`
}
