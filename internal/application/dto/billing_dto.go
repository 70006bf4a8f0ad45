package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DianResolutionRequest alta o actualización parcial de una resolución. Fechas YYYY-MM-DD.
type DianResolutionRequest struct {
	DocumentNumber *string `json:"document_number"`
	FromDate       *string `json:"from_date"`
	ToDate         *string `json:"to_date"`
	FromNumber     *int64  `json:"from_number"`
	ToNumber       *int64  `json:"to_number"`
	Active         *bool   `json:"active"`
}

// DianResolutionResponse resolución de numeración.
type DianResolutionResponse struct {
	ID             string    `json:"id"`
	DocumentNumber string    `json:"document_number"`
	FromDate       string    `json:"from_date"`
	ToDate         string    `json:"to_date"`
	FromNumber     int64     `json:"from_number"`
	ToNumber       int64     `json:"to_number"`
	CurrentNumber  int64     `json:"current_number"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// InvoiceItemRequest línea de una factura nueva.
type InvoiceItemRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	UsdAmount decimal.Decimal `json:"usd_amount"`
	Discount  decimal.Decimal `json:"discount"`
	IsGift    bool            `json:"is_gift"`
}

// PaymentMethodRequest pago de una factura. Los montos son punteros para detectar campos faltantes.
type PaymentMethodRequest struct {
	Name            string           `json:"name"`
	PaidAmount      *decimal.Decimal `json:"paid_amount"`
	BackAmount      *decimal.Decimal `json:"back_amount"`
	ReceivedAmount  *decimal.Decimal `json:"received_amount"`
	TransactionCode string           `json:"transaction_code"`
}

// CreateInvoiceRequest entrada para crear una factura POS.
type CreateInvoiceRequest struct {
	PaymentTerminalID *string                `json:"payment_terminal_id"`
	CustomerID        *string                `json:"customer_id"`
	SaleByID          string                 `json:"sale_by_id"`
	IsDollar          bool                   `json:"is_dollar"`
	InvoiceItems      []InvoiceItemRequest   `json:"invoice_items"`
	PaymentMethods    []PaymentMethodRequest `json:"payment_methods"`
}

// UpdatePaymentMethodsRequest reemplaza los medios de pago de una factura.
type UpdatePaymentMethodsRequest struct {
	PaymentMethods    []PaymentMethodRequest `json:"payment_methods"`
	PaymentTerminalID *string                `json:"payment_terminal_id"`
	IsDollar          *bool                  `json:"is_dollar"`
}

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	ItemName          string          `json:"item_name"`
	ItemCode          string          `json:"item_code"`
	Quantity          int             `json:"quantity"`
	Amount            decimal.Decimal `json:"amount"`
	UsdAmount         decimal.Decimal `json:"usd_amount"`
	Discount          decimal.Decimal `json:"discount"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	OriginalUsdAmount decimal.Decimal `json:"original_usd_amount"`
	IsGift            bool            `json:"is_gift"`
}

// PaymentMethodResponse pago registrado.
type PaymentMethodResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BackAmount      decimal.Decimal `json:"back_amount"`
	ReceivedAmount  decimal.Decimal `json:"received_amount"`
	TransactionCode string          `json:"transaction_code"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID                string                  `json:"id"`
	InvoiceNumber     int64                   `json:"invoice_number"`
	DianResolutionID  string                  `json:"dian_resolution_id"`
	PaymentTerminalID *string                 `json:"payment_terminal_id"`
	CustomerID        *string                 `json:"customer_id"`
	SaleByID          string                  `json:"sale_by_id"`
	CreatedByID       string                  `json:"created_by_id"`
	IsDollar          bool                    `json:"is_dollar"`
	IsOverride        bool                    `json:"is_override"`
	InvoiceItems      []InvoiceItemResponse   `json:"invoice_items"`
	PaymentMethods    []PaymentMethodResponse `json:"payment_methods"`
	CreatedAt         time.Time               `json:"created_at"`
}

// InvoiceSimpleResponse fila del listado simple.
type InvoiceSimpleResponse struct {
	ID              string          `json:"id"`
	InvoiceNumber   int64           `json:"invoice_number"`
	IsDollar        bool            `json:"is_dollar"`
	IsOverride      bool            `json:"is_override"`
	SaleBy          string          `json:"sale_by"`
	Customer        string          `json:"customer"`
	DianResolution  string          `json:"dian_resolution"`
	PaymentTerminal string          `json:"payment_terminal"`
	TotalSum        decimal.Decimal `json:"total_sum"`
	TotalSumUSD     decimal.Decimal `json:"total_sum_usd"`
	CreatedAt       time.Time       `json:"created_at"`
}
