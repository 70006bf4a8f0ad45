package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// GroupHandler categorías de inventario (/api/app/group).
type GroupHandler struct {
	uc *usecase.InventoryGroupUseCase
}

// NewGroupHandler construye el handler.
func NewGroupHandler(uc *usecase.InventoryGroupUseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// List godoc
// @Summary      Listar categorías
// @Tags         groups
// @Security     Bearer
// @Produce      json
// @Param        keyword        query  string  false  "Búsqueda"
// @Param        active         query  bool    false  "Activas"
// @Param        belongs_to_id  query  string  false  "Categoría padre"
// @Param        page           query  int     false  "Página"
// @Param        page_size      query  int     false  "Tamaño de página"
// @Router       /api/app/group [get]
func (h *GroupHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryGroupRequest  true  "Categoría"
// @Success      201   {object}  dto.InventoryGroupResponse
// @Router       /api/app/group [post]
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var in dto.InventoryGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/app/group/:id
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var in dto.InventoryGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/app/group/:id
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Toggle POST /api/app/group/:id/toggle-active
func (h *GroupHandler) Toggle(c *fiber.Ctx) error {
	out, err := h.uc.ToggleActive(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
