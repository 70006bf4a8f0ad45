package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

const (
	companyID = "company-1"
	sellerID  = "user-1"
	resID     = "res-1"
)

type countingCounter struct {
	mu     sync.Mutex
	events map[string]int
}

func (c *countingCounter) Inc(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events == nil {
		c.events = map[string]int{}
	}
	c.events[event]++
}

type fakeReceipts struct {
	got billing.Receipt
}

func (f *fakeReceipts) GenerateReceipt(_ context.Context, r billing.Receipt) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.4"), nil
}

type recordingInvalidator struct {
	mu        sync.Mutex
	companies []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, companyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies = append(r.companies, companyID)
}

type invoiceFixture struct {
	store    *apptest.Store
	uc       *billing.InvoiceUseCase
	counter  *countingCounter
	receipts *fakeReceipts
	stats    *recordingInvalidator
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: companyID, Name: "Guasá", NIT: "900373115"})
	s.PutUser(entity.User{ID: sellerID, CompanyID: companyID, Fullname: "Ana Ventas", Email: "ana@guasa.co", Role: entity.RoleSales, IsActive: true})
	s.PutResolution(entity.DianResolution{
		ID: resID, CompanyID: companyID, DocumentNumber: "18764000001",
		FromDate: time.Now().AddDate(0, -1, 0), ToDate: time.Now().AddDate(1, 0, 0),
		FromNumber: 1, ToNumber: 3, CurrentNumber: 0, Active: true,
	})
	s.PutProduct(entity.Product{ID: "p-1", CompanyID: companyID, Code: "A1", Name: "Chocolate", TotalInShops: 10,
		SellingPrice: decimal.NewFromInt(5000), USDPrice: decimal.NewFromInt(2), Active: true})
	s.PutProduct(entity.Product{ID: "p-2", CompanyID: companyID, Code: "B2", Name: "Café", TotalInShops: 1,
		SellingPrice: decimal.NewFromInt(8000), Active: true})

	f := &invoiceFixture{store: s, counter: &countingCounter{}, receipts: &fakeReceipts{}, stats: &recordingInvalidator{}}
	f.uc = billing.NewInvoiceUseCase(billing.InvoiceDeps{
		Tx:          apptest.TxRunner{S: s},
		Invoices:    s.Invoices(),
		Resolutions: s.Resolutions(),
		Customers:   s.Customers(),
		Terminals:   s.Terminals(),
		Users:       s.Users(),
		Companies:   s.Companies(),
		Receipts:    f.receipts,
		Activity:    s.Recorder(),
		Counter:     f.counter,
		Stats:       f.stats,
	})
	return f
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sale(items ...dto.InvoiceItemRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceItems:   items,
		PaymentMethods: []dto.PaymentMethodRequest{{Name: entity.PaymentCash, PaidAmount: amount(10000), BackAmount: amount(0), ReceivedAmount: amount(10000)}},
	}
}

func item(id string, qty int) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{ItemID: id, Quantity: qty, Amount: decimal.NewFromInt(int64(qty) * 5000)}
}

func TestCreateInvoice_NumeraYDescuentaStock(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	first, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 2)))
	require.NoError(t, err)
	second, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 3)))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.InvoiceNumber)
	assert.Equal(t, int64(2), second.InvoiceNumber)
	assert.Equal(t, resID, first.DianResolutionID)
	assert.Equal(t, sellerID, first.SaleByID, "sin sale_by_id vende el usuario autenticado")
	assert.Equal(t, 5, f.store.Product("p-1").TotalInShops)
	assert.Equal(t, int64(2), f.store.Resolution(resID).CurrentNumber)

	require.Len(t, first.InvoiceItems, 1)
	assert.Equal(t, "A1", first.InvoiceItems[0].ItemCode)
	assert.True(t, decimal.NewFromInt(10000).Equal(first.InvoiceItems[0].OriginalAmount), "original = cantidad x precio de venta")
	assert.Equal(t, 2, f.counter.events[billing.EventInvoiceCreated])
	assert.Contains(t, f.store.Actions(), "Creó la factura 1")
}

func TestCreateInvoice_StockInsuficienteNoConsumeNumero(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.uc.Create(context.Background(), companyID, sellerID, sale(item("p-1", 1), item("p-2", 2)))

	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "B2", stockErr.Code)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(0), f.store.Resolution(resID).CurrentNumber, "la transacción se revierte")
	assert.Equal(t, 10, f.store.Product("p-1").TotalInShops)
	assert.Equal(t, 0, f.store.InvoiceCount())
}

func TestCreateInvoice_ProductoRepetidoSeValidaAcumulado(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.uc.Create(context.Background(), companyID, sellerID, sale(item("p-2", 1), item("p-2", 1)))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.store.Product("p-2").TotalInShops)
}

func TestCreateInvoice_SinResolucionActiva(t *testing.T) {
	f := newInvoiceFixture(t)
	res := f.store.Resolution(resID)
	res.Active = false
	f.store.PutResolution(res)

	_, err := f.uc.Create(context.Background(), companyID, sellerID, sale(item("p-1", 1)))

	assert.ErrorIs(t, err, domain.ErrNoActiveResolution)
}

func TestCreateInvoice_ResolucionVencida(t *testing.T) {
	f := newInvoiceFixture(t)
	res := f.store.Resolution(resID)
	res.ToDate = time.Now().AddDate(0, 0, -2)
	f.store.PutResolution(res)

	_, err := f.uc.Create(context.Background(), companyID, sellerID, sale(item("p-1", 1)))

	assert.ErrorIs(t, err, domain.ErrNoActiveResolution)
}

func TestCreateInvoice_RangoAgotado(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1)))
		require.NoError(t, err)
	}

	_, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1)))

	assert.ErrorIs(t, err, domain.ErrResolutionExhausted)
	assert.Equal(t, 7, f.store.Product("p-1").TotalInShops)
}

func TestCreateInvoice_ValidaEntrada(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, companyID, sellerID, dto.CreateInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvoiceItemsRequired)

	_, err = f.uc.Create(ctx, companyID, sellerID, dto.CreateInvoiceRequest{InvoiceItems: []dto.InvoiceItemRequest{item("p-1", 1)}})
	assert.ErrorIs(t, err, domain.ErrPaymentMethodsRequired)

	_, err = f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 0)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "no-existe"
	req := sale(item("p-1", 1))
	req.CustomerID = &missing
	_, err = f.uc.Create(ctx, companyID, sellerID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOverride_DevuelveStockUnaSolaVez(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	inv, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 4)))
	require.NoError(t, err)
	require.Equal(t, 6, f.store.Product("p-1").TotalInShops)

	out, err := f.uc.Override(ctx, companyID, sellerID, inv.InvoiceNumber)
	require.NoError(t, err)
	assert.True(t, out.IsOverride)
	assert.Equal(t, 10, f.store.Product("p-1").TotalInShops)

	_, err = f.uc.Override(ctx, companyID, sellerID, inv.InvoiceNumber)
	assert.ErrorIs(t, err, domain.ErrInvoiceOverridden)
	assert.Equal(t, 10, f.store.Product("p-1").TotalInShops)
	assert.Equal(t, 1, f.counter.events[billing.EventInvoiceOverridden])
}

func TestInvoice_InvalidaEstadisticasAlCambiarVentas(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1)))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, companyID, sellerID, sale(item("p-2", 5)))
	require.Error(t, err)
	_, err = f.uc.Override(ctx, companyID, sellerID, inv.InvoiceNumber)
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(ctx, companyID, sellerID, inv.ID))

	assert.Equal(t, []string{companyID, companyID, companyID}, f.stats.companies, "una venta fallida no invalida")
}

func TestOverride_IgnoraProductosEliminados(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	inv, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1), item("p-2", 1)))
	require.NoError(t, err)
	require.NoError(t, f.store.Products().Delete(ctx, companyID, "p-2"))

	_, err = f.uc.Override(ctx, companyID, sellerID, inv.InvoiceNumber)

	require.NoError(t, err)
	assert.Equal(t, 10, f.store.Product("p-1").TotalInShops)
}

func TestOverride_FacturaInexistente(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.uc.Override(context.Background(), companyID, sellerID, 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePaymentMethods_ReemplazaYRegistra(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	inv, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1)))
	require.NoError(t, err)
	dollar := true

	out, err := f.uc.UpdatePaymentMethods(ctx, companyID, sellerID, inv.ID, dto.UpdatePaymentMethodsRequest{
		PaymentMethods: []dto.PaymentMethodRequest{
			{Name: entity.PaymentNequi, PaidAmount: amount(3000), BackAmount: amount(0), ReceivedAmount: amount(3000)},
			{Name: entity.PaymentDebitCard, PaidAmount: amount(2000), BackAmount: amount(0), ReceivedAmount: amount(2000)},
		},
		IsDollar: &dollar,
	})

	require.NoError(t, err)
	require.Len(t, out.PaymentMethods, 2)
	assert.True(t, out.IsDollar)
	assert.Contains(t, f.store.Actions(), "Actualizó los métodos de pago '[cash]' a '[nequi, debitCard]'")
}

func TestUpdatePaymentMethods_MetodoIncompleto(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.uc.UpdatePaymentMethods(context.Background(), companyID, sellerID, "inv", dto.UpdatePaymentMethodsRequest{
		PaymentMethods: []dto.PaymentMethodRequest{{Name: entity.PaymentCash, PaidAmount: amount(1)}},
	})

	assert.ErrorIs(t, err, domain.ErrPaymentMethodIncomplete)
}

func TestGetByNumber_RequiereNumero(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.uc.GetByNumber(context.Background(), companyID, 0)

	assert.ErrorIs(t, err, domain.ErrInvoiceNumberRequired)
}

func TestReceipt_ArmaDatosDelRecibo(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	inv, err := f.uc.Create(ctx, companyID, sellerID, sale(item("p-1", 1)))
	require.NoError(t, err)

	pdf, name, err := f.uc.Receipt(ctx, companyID, inv.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "factura_1.pdf", name)
	assert.Equal(t, "Guasá", f.receipts.got.Company.Name)
	assert.Equal(t, "Ana Ventas", f.receipts.got.SaleBy)
	require.NotNil(t, f.receipts.got.Resolution)
	assert.Equal(t, "18764000001", f.receipts.got.Resolution.DocumentNumber)
}

// concurrentSales lanza n ventas de una unidad de productID en paralelo y devuelve los
// números asignados y los errores.
func concurrentSales(t *testing.T, f *invoiceFixture, n int, productID string) ([]int64, []error) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			out, err := f.uc.Create(context.Background(), companyID, sellerID, sale(item(productID, 1)))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, out.InvoiceNumber)
		}()
	}
	close(start)
	wg.Wait()
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, errs
}

func consecutive(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestCreateInvoice_ConcurrentesNumerosConsecutivos(t *testing.T) {
	f := newInvoiceFixture(t)
	f.store.PutResolution(entity.DianResolution{
		ID: resID, CompanyID: companyID, DocumentNumber: "18764000001",
		FromDate: time.Now().AddDate(0, -1, 0), ToDate: time.Now().AddDate(1, 0, 0),
		FromNumber: 1, ToNumber: 1000, CurrentNumber: 0, Active: true,
	})
	f.store.PutProduct(entity.Product{ID: "p-3", CompanyID: companyID, Code: "C3", Name: "Panela", TotalInShops: 100,
		SellingPrice: decimal.NewFromInt(3000), Active: true})

	numbers, errs := concurrentSales(t, f, 60, "p-3")

	require.Empty(t, errs)
	assert.Equal(t, consecutive(60), numbers)
	assert.Equal(t, int64(60), f.store.Resolution(resID).CurrentNumber)
	assert.Equal(t, 40, f.store.Product("p-3").TotalInShops)
}

func TestCreateInvoice_ConcurrentesSinStockNoDejanHuecos(t *testing.T) {
	f := newInvoiceFixture(t)
	f.store.PutResolution(entity.DianResolution{
		ID: resID, CompanyID: companyID, DocumentNumber: "18764000001",
		FromDate: time.Now().AddDate(0, -1, 0), ToDate: time.Now().AddDate(1, 0, 0),
		FromNumber: 1, ToNumber: 1000, CurrentNumber: 0, Active: true,
	})
	f.store.PutProduct(entity.Product{ID: "p-3", CompanyID: companyID, Code: "C3", Name: "Panela", TotalInShops: 25,
		SellingPrice: decimal.NewFromInt(3000), Active: true})

	numbers, errs := concurrentSales(t, f, 40, "p-3")

	assert.Equal(t, consecutive(25), numbers)
	require.Len(t, errs, 15)
	for _, err := range errs {
		var stockErr *domain.StockError
		assert.True(t, errors.As(err, &stockErr), err)
	}
	assert.Equal(t, int64(25), f.store.Resolution(resID).CurrentNumber)
	assert.Equal(t, 0, f.store.Product("p-3").TotalInShops)
}
