package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura de venta POS.
// InvoiceNumber se asigna desde la resolución DIAN activa al crearla.
type Invoice struct {
	ID                string
	CompanyID         string
	CreatedByID       string
	SaleByID          string
	PaymentTerminalID *string
	CustomerID        *string
	DianResolutionID  string
	InvoiceNumber     int64
	IsDollar          bool
	IsOverride        bool
	Items             []InvoiceItem
	PaymentMethods    []PaymentMethod
	CreatedAt         time.Time
}

// TotalSum suma Amount y UsdAmount de los ítems que no son obsequio.
func (inv *Invoice) TotalSum() (cop, usd decimal.Decimal) {
	cop, usd = decimal.Zero, decimal.Zero
	for _, it := range inv.Items {
		if it.IsGift {
			continue
		}
		cop = cop.Add(it.Amount)
		usd = usd.Add(it.UsdAmount)
	}
	return cop, usd
}

// InvoiceItem línea de factura. ItemName e ItemCode se copian del producto al vender.
type InvoiceItem struct {
	ID                string
	InvoiceID         string
	ItemID            string
	ItemName          string
	ItemCode          string
	Quantity          int
	Amount            decimal.Decimal
	UsdAmount         decimal.Decimal
	Discount          decimal.Decimal
	OriginalAmount    decimal.Decimal // quantity × selling_price
	OriginalUsdAmount decimal.Decimal // quantity × usd_price
	IsGift            bool
}

// Medios de pago.
const (
	PaymentCash         = "cash"
	PaymentCreditCard   = "creditCard"
	PaymentDebitCard    = "debitCard"
	PaymentNequi        = "nequi"
	PaymentBankTransfer = "bankTransfer"
)

// ValidPaymentMethod indica si el nombre del medio de pago es soportado.
func ValidPaymentMethod(name string) bool {
	switch name {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentNequi, PaymentBankTransfer:
		return true
	}
	return false
}

// PaymentMethod pago aplicado a una factura.
type PaymentMethod struct {
	ID              string
	InvoiceID       string
	Name            string
	PaidAmount      decimal.Decimal
	BackAmount      decimal.Decimal
	ReceivedAmount  decimal.Decimal
	TransactionCode string
}
