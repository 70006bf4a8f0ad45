package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Renderer genera el libro xlsx de cada reporte.
type Renderer interface {
	DailySales(r DailySalesReport) ([]byte, error)
	Inventories(r InventoryReport) ([]byte, error)
	ProductSales(r ProductSalesReport) ([]byte, error)
	Invoices(r InvoicesReport) ([]byte, error)
	ElectronicInvoice(r ElectronicInvoiceReport) ([]byte, error)
}

// DailySalesReport datos de la hoja REPORTE DIARIO.
type DailySalesReport struct {
	From, To time.Time
	Cards    []repository.CardSalesRow
	Dollars  []repository.SellerAmountRow
	Sellers  []repository.SellerDailyRow
}

// InventoryReport productos activos con los nombres de grupo ya en mayúsculas.
type InventoryReport struct {
	Date time.Time
	Rows []repository.InventoryReportRow
}

// ProductSalesReport cantidades vendidas, anuladas y obsequiadas por producto.
type ProductSalesReport struct {
	Company  string
	From, To time.Time
	Sold     []repository.ProductQuantityRow
	Nulled   []repository.ProductQuantityRow
	Gifts    []repository.ProductQuantityRow
}

// InvoicesReport facturas no anuladas del rango.
type InvoicesReport struct {
	From, To time.Time
	Rows     []repository.InvoiceReportRow
}

// MovementLine fila de la hoja Movimientos del formato de facturación electrónica.
type MovementLine struct {
	Company          string
	DocType          string
	Prefix           string
	InvoiceNumber    int64
	Date             time.Time
	CompanyNIT       string
	CustomerDocument string
	Note             string
	PaymentLabel     string
	ItemCode         string
	Warehouse        string
	Quantity         int
	VATRate          decimal.Decimal
	UnitValue        decimal.Decimal
	Discount         decimal.Decimal
	ItemName         string
	CostCenter       string
}

// ThirdPartyLine fila de la hoja FormatoTerceros.
type ThirdPartyLine struct {
	DocumentLabel     string
	DocumentID        string
	VerificationDigit string // solo para NIT
	City              string
	Name              string
	Address           string
	Phone             string
	Email             string
}

// InvoiceDetailLine fila de la hoja Detalle Facturas.
type InvoiceDetailLine struct {
	InvoiceNumber int64
	PaymentLabel  string
	Total         decimal.Decimal
}

// ElectronicInvoiceReport las tres hojas del formato que se importa en el software contable.
type ElectronicInvoiceReport struct {
	Today        time.Time
	Movements    []MovementLine
	ThirdParties []ThirdPartyLine
	Details      []InvoiceDetailLine
}
