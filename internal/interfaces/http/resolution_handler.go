package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// ResolutionHandler resoluciones de numeración DIAN (/api/app/dian-resolution).
type ResolutionHandler struct {
	uc *billing.ResolutionUseCase
}

// NewResolutionHandler construye el handler.
func NewResolutionHandler(uc *billing.ResolutionUseCase) *ResolutionHandler {
	return &ResolutionHandler{uc: uc}
}

// List godoc
// @Summary      Listar resoluciones
// @Description  Antes de listar desactiva la resolución activa si ya venció.
// @Tags         resolutions
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Activas"
// @Router       /api/app/dian-resolution [get]
func (h *ResolutionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear resolución
// @Tags         resolutions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DianResolutionRequest  true  "Resolución"
// @Success      201   {object}  dto.DianResolutionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/app/dian-resolution [post]
func (h *ResolutionHandler) Create(c *fiber.Ctx) error {
	var in dto.DianResolutionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ResolutionHandler) Update(c *fiber.Ctx) error {
	var in dto.DianResolutionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *ResolutionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Toggle activa o desactiva; activar falla si hay otra activa o si ya venció.
func (h *ResolutionHandler) Toggle(c *fiber.Ctx) error {
	out, err := h.uc.ToggleActive(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
