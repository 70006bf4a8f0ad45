package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

const (
	companyID = "company-1"
	actorID   = "user-1"
)

type eventLog []string

func (e *eventLog) Inc(event string) { *e = append(*e, event) }

func newMovementFixture(t *testing.T) (*apptest.Store, *inventory.MovementUseCase, *eventLog) {
	t.Helper()
	s := apptest.NewStore()
	s.PutUser(entity.User{ID: actorID, CompanyID: companyID, Fullname: "Bodega Central", Email: "bodega@guasa.co", Role: entity.RoleStorageAdmin, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-1", CompanyID: companyID, Code: "A1", Name: "Chocolate", TotalInShops: 2, TotalInStorage: 10, Active: true})
	s.PutProduct(entity.Product{ID: "p-2", CompanyID: companyID, Code: "B2", Name: "Café", TotalInShops: 0, TotalInStorage: 1, Active: true})
	events := &eventLog{}
	uc := inventory.NewMovementUseCase(apptest.TxRunner{S: s}, s.Movements(), s.Products(), s.Providers(), s.Users(), s.Recorder(), events)
	return s, uc, events
}

func shipment(items ...dto.MovementItemRequest) dto.InventoryMovementRequest {
	return dto.InventoryMovementRequest{
		EventType:   entity.EventShipment,
		EventDate:   "2024-05-10",
		Origin:      entity.LocationWarehouse,
		Destination: entity.LocationStore,
		Items:       items,
	}
}

func TestCreateMovement_QuedaPendienteSinTocarStock(t *testing.T) {
	s, uc, _ := newMovementFixture(t)

	out, err := uc.Create(context.Background(), companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 4}))

	require.NoError(t, err)
	assert.Equal(t, entity.MovementPending, out.State)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.MovementPending, out.Items[0].State)
	assert.Equal(t, 10, s.Product("p-1").TotalInStorage)
	assert.Contains(t, s.Actions(), "Bodega Central creó un movimiento de inventario de shipment")
}

func TestCreateMovement_EstadoInicialDebeSerPendiente(t *testing.T) {
	_, uc, _ := newMovementFixture(t)
	req := shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 1})
	req.State = entity.MovementApproved

	_, err := uc.Create(context.Background(), companyID, actorID, req)

	assert.ErrorIs(t, err, domain.ErrInitialStateNotPending)
}

func TestCreateMovement_ValidaStockAcumuladoPorProducto(t *testing.T) {
	_, uc, _ := newMovementFixture(t)

	_, err := uc.Create(context.Background(), companyID, actorID, shipment(
		dto.MovementItemRequest{InventoryID: "p-2", Quantity: 1},
		dto.MovementItemRequest{InventoryID: "p-2", Quantity: 1},
	))

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "B2", stockErr.Code)
	assert.Equal(t, entity.LocationWarehouse, stockErr.Location)
}

func TestCreateMovement_SinItems(t *testing.T) {
	_, uc, _ := newMovementFixture(t)

	_, err := uc.Create(context.Background(), companyID, actorID, shipment())

	assert.ErrorIs(t, err, domain.ErrMovementItemsRequired)
}

func TestChangeState_AprobarEInvalidar(t *testing.T) {
	s, uc, events := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 4}))
	require.NoError(t, err)

	approved, err := uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementApproved, approved.State)
	assert.Equal(t, entity.MovementApproved, approved.Items[0].State)
	assert.Equal(t, 6, s.Product("p-1").TotalInStorage)
	assert.Equal(t, 6, s.Product("p-1").TotalInShops)

	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionApprove)
	assert.ErrorIs(t, err, domain.ErrMovementNotPending)

	overridden, err := uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionOverride)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementOverrided, overridden.State)
	assert.Equal(t, 10, s.Product("p-1").TotalInStorage)
	assert.Equal(t, 2, s.Product("p-1").TotalInShops)

	assert.Equal(t, eventLog{"movement_approve", "movement_override"}, *events)
	assert.Contains(t, s.Actions(), "Bodega Central aprobó el movimiento de inventario de shipment")
	assert.Contains(t, s.Actions(), "Bodega Central invalidó el movimiento de inventario de shipment")
}

func TestChangeState_AprobarSinStockRevierte(t *testing.T) {
	s, uc, _ := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(
		dto.MovementItemRequest{InventoryID: "p-1", Quantity: 5},
		dto.MovementItemRequest{InventoryID: "p-2", Quantity: 1},
	))
	require.NoError(t, err)
	// el stock baja entre la creación y la aprobación
	p := s.Product("p-2")
	p.TotalInStorage = 0
	s.PutProduct(p)

	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionApprove)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, s.Product("p-1").TotalInStorage)
	assert.Equal(t, entity.MovementPending, s.Movement(m.ID).State)
}

func TestChangeState_InvalidarPendienteFalla(t *testing.T) {
	_, uc, _ := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 1}))
	require.NoError(t, err)

	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionOverride)
	assert.ErrorIs(t, err, domain.ErrMovementNotApproved)

	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, "borrar")
	assert.ErrorIs(t, err, domain.ErrInvalidMovementAction)
}

func TestChangeItemState_AfectaSoloElItem(t *testing.T) {
	s, uc, _ := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(
		dto.MovementItemRequest{InventoryID: "p-1", Quantity: 3},
		dto.MovementItemRequest{InventoryID: "p-2", Quantity: 1},
	))
	require.NoError(t, err)

	item, err := uc.ChangeItemState(ctx, companyID, actorID, m.Items[0].ID, entity.ActionApprove)

	require.NoError(t, err)
	assert.Equal(t, entity.MovementApproved, item.State)
	assert.Equal(t, 7, s.Product("p-1").TotalInStorage)
	assert.Equal(t, 1, s.Product("p-2").TotalInStorage)
	stored := s.Movement(m.ID)
	assert.Equal(t, entity.MovementPending, stored.State, "el estado del movimiento no cambia")
	assert.Equal(t, entity.MovementPending, stored.Items[1].State)
}

func TestChangeState_RechazarNoMueveStock(t *testing.T) {
	s, uc, _ := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 3}))
	require.NoError(t, err)

	out, err := uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionReject)

	require.NoError(t, err)
	assert.Equal(t, entity.MovementRejected, out.State)
	assert.Equal(t, 10, s.Product("p-1").TotalInStorage)
}

func TestUpdateMovement_SoloPendientes(t *testing.T) {
	_, uc, _ := newMovementFixture(t)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 3}))
	require.NoError(t, err)
	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionReject)
	require.NoError(t, err)

	_, err = uc.Update(ctx, companyID, actorID, m.ID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 1}))

	assert.ErrorIs(t, err, domain.ErrMovementNotPending)
}

// lockTrace registra el orden en que la transacción pide los bloqueos de fila.
type lockTrace struct {
	calls []string
}

type tracedMovements struct {
	repository.InventoryMovementRepository
	trace *lockTrace
}

func (r tracedMovements) GetForUpdate(ctx context.Context, companyID, id string) (*entity.InventoryMovement, error) {
	r.trace.calls = append(r.trace.calls, "movement")
	return r.InventoryMovementRepository.GetForUpdate(ctx, companyID, id)
}

func (r tracedMovements) GetItemForUpdate(ctx context.Context, companyID, itemID string) (*entity.InventoryMovementItem, error) {
	r.trace.calls = append(r.trace.calls, "item")
	return r.InventoryMovementRepository.GetItemForUpdate(ctx, companyID, itemID)
}

func (r tracedMovements) SetItemState(ctx context.Context, itemID, state string) error {
	r.trace.calls = append(r.trace.calls, "item")
	return r.InventoryMovementRepository.SetItemState(ctx, itemID, state)
}

type tracedProducts struct {
	repository.ProductRepository
	trace *lockTrace
}

func (r tracedProducts) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	r.trace.calls = append(r.trace.calls, "product")
	return r.ProductRepository.GetForUpdate(ctx, companyID, id)
}

type tracedTx struct {
	inner apptest.TxRunner
	trace *lockTrace
}

func (t tracedTx) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.ProductRepository) error) error {
	return t.inner.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		return fn(tracedMovements{movRepo, t.trace}, tracedProducts{productRepo, t.trace})
	})
}

// firstLock devuelve la primera fila que la transacción toca con bloqueo o escritura.
func firstLock(calls []string) string {
	if len(calls) == 0 {
		return ""
	}
	return calls[0]
}

func TestMovementLocks_MismoOrdenEnMovimientoEItem(t *testing.T) {
	s, _, _ := newMovementFixture(t)
	trace := &lockTrace{}
	uc := inventory.NewMovementUseCase(tracedTx{apptest.TxRunner{S: s}, trace}, s.Movements(), s.Products(), s.Providers(), s.Users(), s.Recorder(), nil)
	ctx := context.Background()
	m, err := uc.Create(ctx, companyID, actorID, shipment(
		dto.MovementItemRequest{InventoryID: "p-1", Quantity: 3},
		dto.MovementItemRequest{InventoryID: "p-2", Quantity: 1},
	))
	require.NoError(t, err)

	trace.calls = nil
	_, err = uc.ChangeItemState(ctx, companyID, actorID, m.Items[0].ID, entity.ActionApprove)
	require.NoError(t, err)
	itemOrder := trace.calls

	trace.calls = nil
	_, err = uc.ChangeState(ctx, companyID, actorID, m.ID, entity.ActionApprove)
	require.NoError(t, err)
	movementOrder := trace.calls

	assert.Equal(t, []string{"movement", "item", "product", "item"}, itemOrder)
	assert.Equal(t, "movement", firstLock(movementOrder))
	assert.Equal(t, "movement", firstLock(itemOrder), "ambas acciones bloquean primero el movimiento")
}

func TestChangeItemState_ItemInexistente(t *testing.T) {
	_, uc, _ := newMovementFixture(t)

	_, err := uc.ChangeItemState(context.Background(), companyID, actorID, "no-existe", entity.ActionApprove)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingItems simula que falla la inserción de ítems después de guardar la cabecera.
type failingItems struct {
	repository.InventoryMovementRepository
}

func (r failingItems) Create(ctx context.Context, m *entity.InventoryMovement) error {
	header := *m
	header.Items = nil
	if err := r.InventoryMovementRepository.Create(ctx, &header); err != nil {
		return err
	}
	return errors.New("insert inventory movement item: violates foreign key constraint")
}

type failingItemsTx struct {
	inner apptest.TxRunner
}

func (t failingItemsTx) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.ProductRepository) error) error {
	return t.inner.Run(ctx, func(movRepo repository.InventoryMovementRepository, productRepo repository.ProductRepository) error {
		return fn(failingItems{movRepo}, productRepo)
	})
}

func TestCreateMovement_FallaEnItemsNoDejaCabecera(t *testing.T) {
	s, _, _ := newMovementFixture(t)
	uc := inventory.NewMovementUseCase(failingItemsTx{apptest.TxRunner{S: s}}, s.Movements(), s.Products(), s.Providers(), s.Users(), s.Recorder(), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, companyID, actorID, shipment(dto.MovementItemRequest{InventoryID: "p-1", Quantity: 1}))
	require.Error(t, err)

	rows, count, err := s.Movements().List(ctx, repository.ListFilter{CompanyID: companyID})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, rows)
}
