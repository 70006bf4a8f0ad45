package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	stock "github.com/jhoicas/pos-backoffice/internal/domain/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// MovementUseCase flujo de aprobación de movimientos de inventario:
// pending -> approved | rejected, y approved -> overrided.
// Las cantidades solo cambian al aprobar o invalidar, con las filas de producto bloqueadas.
type MovementUseCase struct {
	tx        TxRunner
	movements repository.InventoryMovementRepository
	products  repository.ProductRepository
	providers repository.ProviderRepository
	users     repository.UserRepository
	activity  *usecase.ActivityRecorder
	counter   usecase.EventCounter
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso. counter puede ser nil.
func NewMovementUseCase(
	tx TxRunner,
	movements repository.InventoryMovementRepository,
	products repository.ProductRepository,
	providers repository.ProviderRepository,
	users repository.UserRepository,
	activity *usecase.ActivityRecorder,
	counter usecase.EventCounter,
) *MovementUseCase {
	if counter == nil {
		counter = usecase.NopCounter{}
	}
	return &MovementUseCase{
		tx:        tx,
		movements: movements,
		products:  products,
		providers: providers,
		users:     users,
		activity:  activity,
		counter:   counter,
		now:       time.Now,
	}
}

// List movimientos de la empresa con sus ítems.
func (uc *MovementUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.InventoryMovementResponse], error) {
	f := usecase.ListFilter(companyID, q)
	rows, count, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return usecase.ListResponse(f, rows, count, func(m *entity.InventoryMovement) dto.InventoryMovementResponse {
		return *movementToResponse(m)
	}), nil
}

func (uc *MovementUseCase) Get(ctx context.Context, companyID, id string) (*dto.InventoryMovementResponse, error) {
	m, err := uc.movements.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errMovementNotFound
	}
	return movementToResponse(m), nil
}

// Create registra un movimiento pendiente. Cada ítem se valida contra el stock actual
// sin modificarlo.
func (uc *MovementUseCase) Create(ctx context.Context, companyID, actorID string, in dto.InventoryMovementRequest) (*dto.InventoryMovementResponse, error) {
	if in.State != "" && in.State != entity.MovementPending {
		return nil, domain.ErrInitialStateNotPending
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrMovementItemsRequired
	}
	now := uc.now()
	m := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		State:       entity.MovementPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.applyHeader(ctx, m, in); err != nil {
		return nil, err
	}
	m.Items = newItems(m.ID, in.Items)
	err := uc.tx.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		if err := checkItems(ctx, productRepo, m); err != nil {
			return err
		}
		return movRepo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, actorID, "creó un movimiento de inventario de "+m.EventType)
	return movementToResponse(m), nil
}

// Update reemplaza la cabecera y, si vienen, los ítems. Solo mientras está pendiente.
func (uc *MovementUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.InventoryMovementRequest) (*dto.InventoryMovementResponse, error) {
	var m *entity.InventoryMovement
	err := uc.tx.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		var err error
		m, err = movRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if m == nil {
			return errMovementNotFound
		}
		if m.State != entity.MovementPending {
			return domain.ErrMovementNotPending
		}
		if err := uc.applyHeader(ctx, m, in); err != nil {
			return err
		}
		if len(in.Items) > 0 {
			m.Items = newItems(m.ID, in.Items)
		}
		if err := checkItems(ctx, productRepo, m); err != nil {
			return err
		}
		m.UpdatedAt = uc.now()
		if err := movRepo.UpdateHeader(ctx, m); err != nil {
			return err
		}
		if len(in.Items) > 0 {
			return movRepo.ReplaceItems(ctx, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.record(ctx, actorID, "actualizó el movimiento de inventario de "+m.EventType)
	return movementToResponse(m), nil
}

func (uc *MovementUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	m, err := uc.movements.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if m == nil {
		return errMovementNotFound
	}
	if err := uc.movements.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.record(ctx, actorID, "eliminó el movimiento de inventario de "+m.EventType)
	return nil
}

// ChangeState aplica approve, reject u override al movimiento completo.
func (uc *MovementUseCase) ChangeState(ctx context.Context, companyID, actorID, id, action string) (*dto.InventoryMovementResponse, error) {
	if !validAction(action) {
		return nil, domain.ErrInvalidMovementAction
	}
	var m *entity.InventoryMovement
	err := uc.tx.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		var err error
		m, err = movRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if m == nil {
			return errMovementNotFound
		}
		switch action {
		case entity.ActionReject:
			if m.State != entity.MovementPending {
				return domain.ErrMovementNotPending
			}
			m.State = entity.MovementRejected
			return movRepo.SetState(ctx, m.ID, m.State)
		case entity.ActionApprove:
			if m.State != entity.MovementPending {
				return domain.ErrMovementNotPending
			}
			if err := applyItems(ctx, movRepo, productRepo, m, entity.MovementPending, entity.MovementApproved, stock.ModeApproval); err != nil {
				return err
			}
			m.State = entity.MovementApproved
		default:
			if m.State != entity.MovementApproved {
				return domain.ErrMovementNotApproved
			}
			if err := applyItems(ctx, movRepo, productRepo, m, entity.MovementApproved, entity.MovementOverrided, stock.ModeOverride); err != nil {
				return err
			}
			m.State = entity.MovementOverrided
		}
		return movRepo.SetState(ctx, m.ID, m.State)
	})
	if err != nil {
		return nil, err
	}
	uc.counter.Inc("movement_" + action)
	uc.record(ctx, actorID, fmt.Sprintf("%s el movimiento de inventario de %s", actionVerb(action), m.EventType))
	return movementToResponse(m), nil
}

// ChangeItemState aplica approve, reject u override a un solo ítem. El movimiento se
// obtiene por el id de movimiento del ítem.
//
// Bloquea primero el movimiento y después el ítem y el producto, igual que ChangeState.
func (uc *MovementUseCase) ChangeItemState(ctx context.Context, companyID, actorID, itemID, action string) (*dto.MovementItemResponse, error) {
	if !validAction(action) {
		return nil, domain.ErrInvalidMovementAction
	}
	var item *entity.InventoryMovementItem
	var m *entity.InventoryMovement
	err := uc.tx.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		ref, err := movRepo.GetItem(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		if ref == nil {
			return errItemNotFound
		}
		m, err = movRepo.GetForUpdate(ctx, companyID, ref.MovementID)
		if err != nil {
			return err
		}
		if m == nil {
			return errMovementNotFound
		}
		// El ítem pudo borrarse mientras se esperaba el bloqueo del movimiento.
		item, err = movRepo.GetItemForUpdate(ctx, companyID, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.MovementID != m.ID {
			return errItemNotFound
		}

		var mode stock.Mode
		var next string
		switch action {
		case entity.ActionReject:
			if item.State != entity.MovementPending || m.State != entity.MovementPending {
				return domain.ErrMovementNotPending
			}
			item.State = entity.MovementRejected
			return movRepo.SetItemState(ctx, item.ID, item.State)
		case entity.ActionApprove:
			if item.State != entity.MovementPending || m.State != entity.MovementPending {
				return domain.ErrMovementNotPending
			}
			mode, next = stock.ModeApproval, entity.MovementApproved
		default:
			if item.State != entity.MovementApproved {
				return domain.ErrMovementNotApproved
			}
			mode, next = stock.ModeOverride, entity.MovementOverrided
		}

		p, err := productRepo.GetForUpdate(ctx, companyID, item.InventoryID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("Producto no encontrado")
		}
		if err := stock.Apply(p, item.Quantity, m.Origin, m.Destination, m.EventType, mode); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantities(ctx, p); err != nil {
			return err
		}
		item.State = next
		return movRepo.SetItemState(ctx, item.ID, item.State)
	})
	if err != nil {
		return nil, err
	}
	uc.counter.Inc("movement_item_" + action)
	uc.record(ctx, actorID, fmt.Sprintf("%s un producto del movimiento de inventario de %s", actionVerb(action), m.EventType))
	out := itemToResponse(*item)
	return &out, nil
}

// applyItems aplica mode a los ítems en estado from y los deja en to. Los productos se
// bloquean en orden ascendente de id.
func applyItems(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	m *entity.InventoryMovement,
	from, to string,
	mode stock.Mode,
) error {
	var ids []string
	for _, it := range m.Items {
		if it.State == from {
			ids = append(ids, it.InventoryID)
		}
	}
	sort.Strings(ids)
	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if _, ok := products[id]; ok {
			continue
		}
		p, err := productRepo.GetForUpdate(ctx, m.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("Producto no encontrado")
		}
		products[id] = p
	}
	for i := range m.Items {
		it := &m.Items[i]
		if it.State != from {
			continue
		}
		if err := stock.Apply(products[it.InventoryID], it.Quantity, m.Origin, m.Destination, m.EventType, mode); err != nil {
			return err
		}
		if err := movRepo.SetItemState(ctx, it.ID, to); err != nil {
			return err
		}
		it.State = to
	}
	for _, p := range products {
		if err := productRepo.UpdateQuantities(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// checkItems valida ubicaciones, cantidades y stock de cada ítem sin modificar productos.
// Los ítems del mismo producto se validan sobre la suma de sus cantidades.
func checkItems(ctx context.Context, products repository.ProductRepository, m *entity.InventoryMovement) error {
	totals := make(map[string]int)
	var order []string
	for _, it := range m.Items {
		if it.InventoryID == "" {
			return fmt.Errorf("falta el producto del ítem: %w", domain.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("la cantidad debe ser mayor que cero: %w", domain.ErrInvalidInput)
		}
		if _, ok := totals[it.InventoryID]; !ok {
			order = append(order, it.InventoryID)
		}
		totals[it.InventoryID] += it.Quantity
	}
	for _, id := range order {
		p, err := products.GetByID(ctx, m.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("Producto no encontrado")
		}
		if err := stock.Apply(p, totals[id], m.Origin, m.Destination, m.EventType, stock.ModeCheck); err != nil {
			return err
		}
	}
	return nil
}

func (uc *MovementUseCase) applyHeader(ctx context.Context, m *entity.InventoryMovement, in dto.InventoryMovementRequest) error {
	if !entity.ValidEventType(in.EventType) {
		return fmt.Errorf("tipo de evento %q no válido: %w", in.EventType, domain.ErrInvalidInput)
	}
	if !entity.ValidLocation(in.Origin) || !entity.ValidLocation(in.Destination) {
		return fmt.Errorf("ubicación no válida: %w", domain.ErrInvalidInput)
	}
	date, err := parseEventDate(in.EventDate, uc.now())
	if err != nil {
		return err
	}
	m.EventType = in.EventType
	m.EventDate = date
	m.Origin = in.Origin
	m.Destination = in.Destination
	m.Observations = strings.TrimSpace(in.Observations)
	m.ProviderID = nil
	if in.ProviderID != nil && *in.ProviderID != "" {
		p, err := uc.providers.GetByID(ctx, m.CompanyID, *in.ProviderID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("Proveedor no encontrado")
		}
		providerID := p.ID
		m.ProviderID = &providerID
	}
	return nil
}

func (uc *MovementUseCase) record(ctx context.Context, actorID, action string) {
	name := actorID
	if u, err := uc.users.GetByID(ctx, actorID); err == nil && u != nil {
		name = u.Fullname
	}
	uc.activity.Record(ctx, actorID, name+" "+action)
}

var (
	errMovementNotFound = domain.NotFound("Movimiento de inventario no encontrado")
	errItemNotFound     = domain.NotFound("Producto de Movimiento no encontrado")
)

func parseEventDate(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("event_date debe ser RFC3339 o YYYY-MM-DD: %w", domain.ErrInvalidInput)
}

func newItems(movementID string, in []dto.MovementItemRequest) []entity.InventoryMovementItem {
	items := make([]entity.InventoryMovementItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.InventoryMovementItem{
			ID:          uuid.New().String(),
			MovementID:  movementID,
			InventoryID: it.InventoryID,
			Quantity:    it.Quantity,
			State:       entity.MovementPending,
		})
	}
	return items
}

func validAction(a string) bool {
	return a == entity.ActionApprove || a == entity.ActionReject || a == entity.ActionOverride
}

func actionVerb(a string) string {
	switch a {
	case entity.ActionApprove:
		return "aprobó"
	case entity.ActionReject:
		return "rechazó"
	}
	return "invalidó"
}

func movementToResponse(m *entity.InventoryMovement) *dto.InventoryMovementResponse {
	out := &dto.InventoryMovementResponse{
		ID:           m.ID,
		EventType:    m.EventType,
		EventDate:    m.EventDate,
		Origin:       m.Origin,
		Destination:  m.Destination,
		State:        m.State,
		ProviderID:   m.ProviderID,
		Observations: m.Observations,
		CreatedByID:  m.CreatedByID,
		Items:        make([]dto.MovementItemResponse, 0, len(m.Items)),
		CreatedAt:    m.CreatedAt,
	}
	for _, it := range m.Items {
		out.Items = append(out.Items, itemToResponse(it))
	}
	return out
}

func itemToResponse(it entity.InventoryMovementItem) dto.MovementItemResponse {
	return dto.MovementItemResponse{
		ID:          it.ID,
		InventoryID: it.InventoryID,
		Quantity:    it.Quantity,
		State:       it.State,
	}
}
