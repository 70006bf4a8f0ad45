// Package apptest implementa en memoria los puertos de persistencia para los tests de la capa de aplicación.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Store datos de todas las entidades. Los repositorios fake leen y escriben aquí.
type Store struct {
	mu          sync.Mutex
	// txMu serializa las transacciones de TxRunner, como lo harían los bloqueos de fila
	// sobre la resolución activa y los productos.
	txMu        sync.Mutex
	companies   map[string]entity.Company
	users       map[string]entity.User
	activities  []entity.UserActivity
	groups      map[string]entity.InventoryGroup
	providers   map[string]entity.Provider
	products    map[string]entity.Product
	customers   map[string]entity.Customer
	terminals   map[string]entity.PaymentTerminal
	goals       map[string]entity.Goal
	resolutions map[string]entity.DianResolution
	invoices    map[string]entity.Invoice
	movements   map[string]entity.InventoryMovement
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:   map[string]entity.Company{},
		users:       map[string]entity.User{},
		groups:      map[string]entity.InventoryGroup{},
		providers:   map[string]entity.Provider{},
		products:    map[string]entity.Product{},
		customers:   map[string]entity.Customer{},
		terminals:   map[string]entity.PaymentTerminal{},
		goals:       map[string]entity.Goal{},
		resolutions: map[string]entity.DianResolution{},
		invoices:    map[string]entity.Invoice{},
		movements:   map[string]entity.InventoryMovement{},
	}
}

func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := NewStore()
	copyMap(c.companies, s.companies)
	copyMap(c.users, s.users)
	copyMap(c.groups, s.groups)
	copyMap(c.providers, s.providers)
	copyMap(c.products, s.products)
	copyMap(c.customers, s.customers)
	copyMap(c.terminals, s.terminals)
	copyMap(c.goals, s.goals)
	copyMap(c.resolutions, s.resolutions)
	for k, v := range s.invoices {
		c.invoices[k] = cloneInvoice(v)
	}
	for k, v := range s.movements {
		c.movements[k] = cloneMovement(v)
	}
	return c
}

// restore deja la bitácora como está: se escribe fuera de las transacciones.
func (s *Store) restore(from *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies, s.users = from.companies, from.users
	s.groups, s.providers, s.products = from.groups, from.providers, from.products
	s.customers, s.terminals, s.goals = from.customers, from.terminals, from.goals
	s.resolutions, s.invoices, s.movements = from.resolutions, from.invoices, from.movements
}

func copyMap[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}

func cloneInvoice(inv entity.Invoice) entity.Invoice {
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	inv.PaymentMethods = append([]entity.PaymentMethod(nil), inv.PaymentMethods...)
	return inv
}

func cloneMovement(m entity.InventoryMovement) entity.InventoryMovement {
	m.Items = append([]entity.InventoryMovementItem(nil), m.Items...)
	return m
}

// TxRunner ejecuta fn sobre los repositorios del Store. Las transacciones se ejecutan de a
// una y si fn falla se restaura el estado previo. No admite transacciones anidadas.
type TxRunner struct {
	S *Store
}

func (t TxRunner) atomically(fn func() error) error {
	t.S.txMu.Lock()
	defer t.S.txMu.Unlock()
	before := t.S.snapshot()
	if err := fn(); err != nil {
		t.S.restore(before)
		return err
	}
	return nil
}

// Run implementa el TxRunner de movimientos de inventario.
func (t TxRunner) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.ProductRepository) error) error {
	return t.atomically(func() error { return fn(t.S.Movements(), t.S.Products()) })
}

// RunBilling implementa el TxRunner de facturación.
func (t TxRunner) RunBilling(ctx context.Context, fn func(repository.DianResolutionRepository, repository.ProductRepository, repository.InvoiceRepository) error) error {
	return t.atomically(func() error { return fn(t.S.Resolutions(), t.S.Products(), t.S.Invoices()) })
}

// RunCatalog implementa el TxRunner del catálogo.
func (t TxRunner) RunCatalog(ctx context.Context, fn func(repository.InventoryGroupRepository, repository.ProductRepository) error) error {
	return t.atomically(func() error { return fn(t.S.Groups(), t.S.Products()) })
}

// Recorder bitácora respaldada por el Store.
func (s *Store) Recorder() *usecase.ActivityRecorder {
	return usecase.NewActivityRecorder(s.Users(), s.Activities(), nil)
}

// Actions textos registrados en la bitácora, en orden.
func (s *Store) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a.Action)
	}
	return out
}

// Seed helpers: guardan la entidad tal cual.

func (s *Store) PutCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) PutGroup(g entity.InventoryGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
}

func (s *Store) PutProvider(p entity.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.ID] = p
}

func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) PutResolution(r entity.DianResolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutions[r.ID] = r
}

func (s *Store) PutInvoice(inv entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = cloneInvoice(inv)
}

func (s *Store) PutMovement(m entity.InventoryMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements[m.ID] = cloneMovement(m)
}

// Product lee un producto sin pasar por el repositorio.
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// Resolution lee una resolución sin pasar por el repositorio.
func (s *Store) Resolution(id string) entity.DianResolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolutions[id]
}

// Group lee una categoría sin pasar por el repositorio.
func (s *Store) Group(id string) entity.InventoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups[id]
}

// Movement lee un movimiento sin pasar por el repositorio.
func (s *Store) Movement(id string) entity.InventoryMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovement(s.movements[id])
}

// CountProducts número de productos guardados.
func (s *Store) CountProducts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// matches búsqueda simple: cada término debe aparecer en algún campo.
func matches(keyword string, fields ...string) bool {
	for _, term := range strings.Fields(strings.ToLower(keyword)) {
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// page aplica el orden por created_at y la paginación del filtro.
func page[T any](rows []T, f repository.ListFilter, createdAt func(T) time.Time) ([]T, int) {
	sort.SliceStable(rows, func(i, j int) bool { return createdAt(rows[i]).Before(createdAt(rows[j])) })
	count := len(rows)
	start := f.Offset()
	if start > count {
		start = count
	}
	end := start + f.Limit()
	if end > count {
		end = count
	}
	return rows[start:end], count
}

var errDuplicate = domain.ErrDuplicate
