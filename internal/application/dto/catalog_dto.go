package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryGroupRequest alta o actualización parcial de una categoría.
type InventoryGroupRequest struct {
	Name        *string `json:"name"`
	BelongsToID *string `json:"belongs_to_id"`
	Active      *bool   `json:"active"`
}

// InventoryGroupResponse categoría con su padre y número de productos.
type InventoryGroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BelongsToID *string   `json:"belongs_to_id"`
	BelongsTo   string    `json:"belongs_to,omitempty"`
	Active      bool      `json:"active"`
	TotalItems  int       `json:"total_items"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProviderRequest alta o actualización parcial de un proveedor.
type ProviderRequest struct {
	Name        *string `json:"name"`
	LegalName   *string `json:"legal_name"`
	NIT         *string `json:"nit"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	BankAccount *string `json:"bank_account"`
	AccountType *string `json:"account_type"`
	Active      *bool   `json:"active"`
}

// ProviderResponse proveedor.
type ProviderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LegalName   string    `json:"legal_name"`
	NIT         string    `json:"nit"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	BankAccount string    `json:"bank_account"`
	AccountType string    `json:"account_type"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductRequest alta o actualización parcial de un producto.
type ProductRequest struct {
	Code           *string          `json:"code"`
	Photo          *string          `json:"photo"`
	ProviderID     *string          `json:"provider_id"`
	GroupID        *string          `json:"group_id"`
	Name           *string          `json:"name"`
	CostCenter     *string          `json:"cost_center"`
	TotalInShops   *int             `json:"total_in_shops"`
	TotalInStorage *int             `json:"total_in_storage"`
	SellingPrice   *decimal.Decimal `json:"selling_price"`
	BuyingPrice    *decimal.Decimal `json:"buying_price"`
	USDPrice       *decimal.Decimal `json:"usd_price"`
	Active         *bool            `json:"active"`
}

// ProductResponse producto con nombres de categoría y proveedor.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Photo          string          `json:"photo"`
	ProviderID     *string         `json:"provider_id"`
	Provider       string          `json:"provider,omitempty"`
	GroupID        *string         `json:"group_id"`
	Group          string          `json:"group,omitempty"`
	Name           string          `json:"name"`
	CostCenter     string          `json:"cost_center"`
	TotalInShops   int             `json:"total_in_shops"`
	TotalInStorage int             `json:"total_in_storage"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	BuyingPrice    decimal.Decimal `json:"buying_price"`
	USDPrice       decimal.Decimal `json:"usd_price"`
	Active         bool            `json:"active"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ImportResult resultado de una importación masiva.
type ImportResult struct {
	Success string `json:"success"`
	Created int    `json:"created"`
}

// UploadPhotoResponse ubicación del archivo subido.
type UploadPhotoResponse struct {
	FinalURL     string `json:"final_url"`
	ObjectKey    string `json:"object_key"`
	PresignedURL string `json:"presigned_url"`
}

// CustomerRequest alta o actualización parcial de un cliente.
type CustomerRequest struct {
	DocumentID   *string `json:"document_id"`
	DocumentType *string `json:"document_type"`
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
}

// CustomerResponse cliente.
type CustomerResponse struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	DocumentType string    `json:"document_type"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentTerminalRequest alta o actualización parcial de un datáfono.
type PaymentTerminalRequest struct {
	AccountCode *string `json:"account_code"`
	Name        *string `json:"name"`
	IsWireless  *bool   `json:"is_wireless"`
	Active      *bool   `json:"active"`
}

// PaymentTerminalResponse datáfono.
type PaymentTerminalResponse struct {
	ID          string    `json:"id"`
	AccountCode string    `json:"account_code"`
	Name        string    `json:"name"`
	IsWireless  bool      `json:"is_wireless"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// GoalRequest alta o actualización parcial de una meta.
type GoalRequest struct {
	GoalType  *string          `json:"goal_type"`
	GoalValue *decimal.Decimal `json:"goal_value"`
}

// GoalResponse meta de ventas.
type GoalResponse struct {
	ID        string          `json:"id"`
	GoalType  string          `json:"goal_type"`
	GoalValue decimal.Decimal `json:"goal_value"`
}
