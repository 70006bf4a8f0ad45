package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
)

// StatsHandler estadísticas del dashboard.
type StatsHandler struct {
	uc *analytics.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Summary godoc
// @Summary      Totales de productos, categorías y usuarios activos
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/app/summary [get]
func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopSelling godoc
// @Summary      Diez productos más vendidos
// @Tags         stats
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DateRangeRequest  false  "Rango opcional"
// @Success      200   {array}   dto.TopSellingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/app/top-selling [post]
func (h *StatsHandler) TopSelling(c *fiber.Ctx) error {
	in, ok := dateRange(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.uc.TopSelling(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Hourly cantidades vendidas hoy por hora.
// GET /api/app/hourly-quantities
func (h *StatsHandler) Hourly(c *fiber.Ctx) error {
	out, err := h.uc.HourlyQuantities(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SalesByTimeframe godoc
// @Summary      Ventas por periodo
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "daily, weekly, monthly, general"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/app/sales-by-timeframe [get]
func (h *StatsHandler) SalesByTimeframe(c *fiber.Ctx) error {
	out, err := h.uc.SalesByTimeframe(c.UserContext(), GetCompanyID(c), c.Query("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SalesByUser POST /api/app/sales-by-user
func (h *StatsHandler) SalesByUser(c *fiber.Ctx) error {
	in, ok := dateRange(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.uc.SalesByUser(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PurchaseSummary POST /api/app/purchase-summary
func (h *StatsHandler) PurchaseSummary(c *fiber.Ctx) error {
	in, ok := dateRange(c)
	if !ok {
		return invalidBody(c)
	}
	out, err := h.uc.PurchaseSummary(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
