package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
)

// MovementHandler movimientos de inventario y su flujo de aprobación.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List godoc
// @Summary      Listar movimientos de inventario
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        state        query  string  false  "pending, approved, rejected, overrided"
// @Param        event_type   query  string  false  "purchase, shipment, return"
// @Param        origin       query  string  false  "store, warehouse"
// @Param        destination  query  string  false  "store, warehouse"
// @Router       /api/app/inventory-movement [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), listQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MovementHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar movimiento pendiente
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.InventoryMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/app/inventory-movement [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.InventoryMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.InventoryMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeState godoc
// @Summary      Aprobar, rechazar o anular un movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del movimiento"
// @Param        action  path  string  true  "approve, reject, override"
// @Success      200  {object}  dto.InventoryMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/app/inventory-movement/{id}/{action} [post]
func (h *MovementHandler) ChangeState(c *fiber.Ctx) error {
	out, err := h.uc.ChangeState(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), c.Params("action"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeItemState POST /api/app/inventory-movement-item/:id/:action
func (h *MovementHandler) ChangeItemState(c *fiber.Ctx) error {
	out, err := h.uc.ChangeItemState(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), c.Params("action"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
