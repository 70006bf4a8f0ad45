package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler exportaciones xlsx. Todas son POST con {start_date, end_date}.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

type rangeExport func(ctx context.Context, companyID, actorID string, in dto.DateRangeRequest) (*reports.File, error)

func (h *ReportHandler) export(fn rangeExport) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, ok := dateRange(c)
		if !ok {
			return invalidBody(c)
		}
		file, err := fn(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, file)
	}
}

// DailySales godoc
// @Summary      Reporte diario de ventas
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        body  body  dto.DateRangeRequest  true  "Rango YYYY-MM-DD"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/app/daily_report_export [post]
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	return h.export(h.uc.DailySales)(c)
}

// Inventories godoc
// @Summary      Reporte de inventarios valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/app/inventories_report_export [post]
func (h *ReportHandler) Inventories(c *fiber.Ctx) error {
	file, err := h.uc.Inventories(c.UserContext(), GetCompanyID(c), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

// ProductSales POST /api/app/product_sales_report_export
func (h *ReportHandler) ProductSales(c *fiber.Ctx) error {
	return h.export(h.uc.ProductSales)(c)
}

// Invoices POST /api/app/invoices_report_export
func (h *ReportHandler) Invoices(c *fiber.Ctx) error {
	return h.export(h.uc.Invoices)(c)
}

// ElectronicInvoice godoc
// @Summary      Formato de facturación electrónica para el software contable
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        body  body  dto.DateRangeRequest  true  "Rango YYYY-MM-DD HH:MM:SS"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/app/electronic_invoice_export [post]
func (h *ReportHandler) ElectronicInvoice(c *fiber.Ctx) error {
	return h.export(h.uc.ElectronicInvoice)(c)
}

func sendFile(c *fiber.Ctx, file *reports.File) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Send(file.Content)
}
