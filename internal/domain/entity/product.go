package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario. Las cantidades se llevan en dos
// ubicaciones fijas: tiendas (TotalInShops) y bodega (TotalInStorage).
type Product struct {
	ID             string
	CompanyID      string
	CreatedByID    string
	Code           string // código único por empresa
	Photo          string
	ProviderID     *string
	GroupID        *string
	Name           string
	CostCenter     string
	TotalInShops   int
	TotalInStorage int
	SellingPrice   decimal.Decimal
	BuyingPrice    decimal.Decimal
	USDPrice       decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductView es un producto con los datos de su categoría y proveedor para listados.
type ProductView struct {
	Product
	GroupName    string
	ProviderName string
	CreatedBy    string
}
