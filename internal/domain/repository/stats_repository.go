package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange rango opcional de fechas (ambos extremos inclusivos, por fecha de creación).
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// TopSellingRow producto más vendido.
type TopSellingRow struct {
	Name     string
	Photo    string
	Quantity int
}

// DailyAmount ventas de un día.
type DailyAmount struct {
	Day    time.Time
	Amount decimal.Decimal
}

// SalesByUserRow total facturado por vendedor.
type SalesByUserRow struct {
	UserID       string
	Fullname     string
	DailyGoal    decimal.Decimal
	TotalInvoice decimal.Decimal
}

// PurchaseSummaryRow resumen de unidades y montos vendidos.
type PurchaseSummaryRow struct {
	Count             int
	GiftCount         int
	SellingPrice      decimal.Decimal
	SellingPriceGifts decimal.Decimal
	PriceDollar       decimal.Decimal
}

// StatsRepository consultas de solo lectura del dashboard. Todas excluyen facturas anuladas.
type StatsRepository interface {
	// Summary cuenta productos activos, categorías activas y usuarios activos no superusuarios.
	Summary(ctx context.Context, companyID string) (inventory, groups, users int, err error)
	TopSelling(ctx context.Context, companyID string, r DateRange, limit int) ([]TopSellingRow, error)
	// QuantitiesByHour suma cantidades vendidas por hora (0-23) en [from, to).
	QuantitiesByHour(ctx context.Context, companyID string, from, to time.Time) (map[int]int, error)
	// SalesByDay suma ventas (ítems no obsequio) por día en [from, to).
	SalesByDay(ctx context.Context, companyID string, from, to time.Time) ([]DailyAmount, error)
	SalesByUser(ctx context.Context, companyID string, r DateRange) ([]SalesByUserRow, error)
	PurchaseSummary(ctx context.Context, companyID string, r DateRange) (*PurchaseSummaryRow, error)
}
