package dto

import "github.com/shopspring/decimal"

// SummaryResponse totales del dashboard.
type SummaryResponse struct {
	TotalInventory int `json:"total_inventory"`
	TotalGroup     int `json:"total_group"`
	TotalUsers     int `json:"total_users"`
}

// TopSellingResponse producto más vendido.
type TopSellingResponse struct {
	Name           string `json:"name"`
	Photo          string `json:"photo"`
	SumTopTenItems int    `json:"sum_top_ten_items"`
}

// HourlyQuantityResponse unidades vendidas en una hora del día.
type HourlyQuantityResponse struct {
	Time          int `json:"time"`
	TotalQuantity int `json:"total_quantity"`
}

// DailySalesResponse ventas de un día ("D/M").
type DailySalesResponse struct {
	Day         string          `json:"day"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// WeeklySalesResponse ventas de una semana ISO ("Week NN").
type WeeklySalesResponse struct {
	WeekNumber  string          `json:"week_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MonthlySalesResponse ventas de un mes del año actual.
type MonthlySalesResponse struct {
	Month       string          `json:"month"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// GeneralSalesResponse totales de hoy, semana, mes y año.
type GeneralSalesResponse struct {
	Daily   decimal.Decimal `json:"daily"`
	Weekly  decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal `json:"monthly"`
	Annual  decimal.Decimal `json:"annual"`
}

// SalesByUserResponse total facturado por vendedor.
type SalesByUserResponse struct {
	SaleByID        string          `json:"sale_by__id"`
	SaleByFullname  string          `json:"sale_by__fullname"`
	SaleByDailyGoal decimal.Decimal `json:"sale_by__daily_goal"`
	TotalInvoice    decimal.Decimal `json:"total_invoice"`
}

// PurchaseSummaryResponse unidades y montos vendidos.
type PurchaseSummaryResponse struct {
	Count             int             `json:"count"`
	GiftCount         int             `json:"gift_count"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	SellingPriceGifts decimal.Decimal `json:"selling_price_gifts"`
	PriceDolar        decimal.Decimal `json:"price_dolar"`
}
