package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura POS
// @Description  Asigna el siguiente número de la resolución activa y descuenta el stock en tiendas.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Ítems y medios de pago"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/app/invoice [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Factura creada satisfactoriamente", Data: out})
}

// List godoc
// @Summary      Listar facturas con ítems y medios de pago
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        keyword         query  string  false  "Número, resolución o creador"
// @Param        is_override     query  bool    false  "Anuladas"
// @Param        is_dollar       query  bool    false  "En dólares"
// @Param        sale_by_id      query  string  false  "Vendedor"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        invoice_number  query  int     false  "Número"
// @Param        page            query  int     false  "Página"
// @Router       /api/app/invoice [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SimpleList facturas sin ítems con sus totales, más recientes primero.
// GET /api/app/invoice-simple-list
func (h *InvoiceHandler) SimpleList(c *fiber.Ctx) error {
	out, err := h.uc.SimpleList(c.UserContext(), GetCompanyID(c), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/app/invoice/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Painter godoc
// @Summary      Factura completa por número
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        invoice_number  query  int  true  "Número de factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/app/invoice-painter [get]
func (h *InvoiceHandler) Painter(c *fiber.Ctx) error {
	number, err := invoiceNumber(c.Query("invoice_number"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByNumber(c.UserContext(), GetCompanyID(c), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Recibo imprimible en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/app/invoice/{id}/pdf [get]
func (h *InvoiceHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}

// Override godoc
// @Summary      Anular factura
// @Description  Marca la factura como anulada y devuelve las cantidades a tiendas.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        invoice_number  path  int  true  "Número de factura"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/app/update-invoice/{invoice_number} [patch]
func (h *InvoiceHandler) Override(c *fiber.Ctx) error {
	number, err := invoiceNumber(c.Params("invoice_number"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Override(c.UserContext(), GetCompanyID(c), GetUserID(c), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Factura anulada satisfactoriamente", Data: out})
}

// UpdatePaymentMethods godoc
// @Summary      Reemplazar medios de pago
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        invoice_id  query  string                           true  "ID de la factura"
// @Param        body        body   dto.UpdatePaymentMethodsRequest  true  "Nuevos medios de pago"
// @Success      200  {object}  dto.InvoiceResponse
// @Router       /api/app/update-payment-methods [post]
func (h *InvoiceHandler) UpdatePaymentMethods(c *fiber.Ctx) error {
	var in dto.UpdatePaymentMethodsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePaymentMethods(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Query("invoice_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete borra la factura con ítems y pagos; no devuelve stock.
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func invoiceNumber(raw string) (int64, error) {
	if raw == "" {
		return 0, domain.ErrInvoiceNumberRequired
	}
	n, ok := parseInt64(raw)
	if !ok {
		return 0, fmt.Errorf("número de factura %q no válido: %w", raw, domain.ErrInvalidInput)
	}
	return n, nil
}
