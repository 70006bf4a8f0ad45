package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CardSalesRow pagos con tarjeta agrupados por datáfono y vendedor.
type CardSalesRow struct {
	Terminal string
	Seller   string
	Count    int
	Total    decimal.Decimal
}

// SellerAmountRow monto agrupado por vendedor.
type SellerAmountRow struct {
	Seller string
	Total  decimal.Decimal
}

// SellerDailyRow columnas de la sección VENTAS DIARIAS para un vendedor.
type SellerDailyRow struct {
	Seller           string
	TotalPOS         decimal.Decimal
	DollarEquivalent decimal.Decimal
	Cards            decimal.Decimal
	Transfers        decimal.Decimal
}

// InventoryReportRow producto activo para el reporte de inventarios.
type InventoryReportRow struct {
	ParentGroup  string
	Group        string
	Code         string
	Name         string
	Storage      int
	Shops        int
	BuyingPrice  decimal.Decimal
	SellingPrice decimal.Decimal
}

// ProductQuantityRow cantidad vendida por producto.
type ProductQuantityRow struct {
	Code     string
	Name     string
	Quantity int
}

// InvoiceReportRow factura no anulada con su total y datos del cliente.
type InvoiceReportRow struct {
	CreatedAt        time.Time
	Seller           string
	InvoiceNumber    int64
	Resolution       string
	Terminal         string
	Total            decimal.Decimal
	CustomerDocument string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerAddress  string
}

// ElectronicItemRow ítem no obsequio de una factura para el formato de facturación electrónica.
type ElectronicItemRow struct {
	InvoiceNumber    int64
	CreatedAt        time.Time
	CustomerDocument string
	PaymentMethod    string // nombre del primer medio de pago
	ItemCode         string
	ItemName         string
	CostCenter       string
	Quantity         int
	SellingPrice     decimal.Decimal
	Discount         decimal.Decimal
}

// ThirdPartyRow cliente para la hoja de terceros.
type ThirdPartyRow struct {
	DocumentType string
	DocumentID   string
	Name         string
	City         string
	Address      string
	Phone        string
	Email        string
}

// InvoicePaymentRow total y primer medio de pago de una factura.
type InvoicePaymentRow struct {
	InvoiceNumber int64
	PaymentMethod string
	Total         decimal.Decimal
}

// ReportRepository consultas de los reportes xlsx. Las fechas son [from, to] inclusivas por fecha,
// salvo las del formato electrónico que usan fecha y hora.
type ReportRepository interface {
	CardSales(ctx context.Context, companyID string, from, to time.Time) ([]CardSalesRow, error)
	DollarSales(ctx context.Context, companyID string, from, to time.Time) ([]SellerAmountRow, error)
	SellerDailySales(ctx context.Context, companyID string, from, to time.Time) ([]SellerDailyRow, error)
	ActiveInventory(ctx context.Context, companyID string) ([]InventoryReportRow, error)
	// ProductSales devuelve vendidos, anulados y obsequios.
	ProductSales(ctx context.Context, companyID string, from, to time.Time) (sold, nulled, gifts []ProductQuantityRow, err error)
	Invoices(ctx context.Context, companyID string, from, to time.Time) ([]InvoiceReportRow, error)
	ElectronicItems(ctx context.Context, companyID string, from, to time.Time) ([]ElectronicItemRow, error)
	// ThirdParties clientes con al menos una factura creada desde since.
	ThirdParties(ctx context.Context, companyID string, since time.Time) ([]ThirdPartyRow, error)
	InvoicePayments(ctx context.Context, companyID string, from, to time.Time) ([]InvoicePaymentRow, error)
}
