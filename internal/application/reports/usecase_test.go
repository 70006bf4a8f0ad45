package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

type fakeReportRepo struct {
	inventory []repository.InventoryReportRow
	items     []repository.ElectronicItemRow
	customers []repository.ThirdPartyRow
	payments  []repository.InvoicePaymentRow
	from, to  time.Time
}

func (f *fakeReportRepo) CardSales(_ context.Context, _ string, from, to time.Time) ([]repository.CardSalesRow, error) {
	f.from, f.to = from, to
	return []repository.CardSalesRow{{Terminal: "Datáfono 1", Seller: "Ana", Count: 2, Total: decimal.NewFromInt(40000)}}, nil
}

func (f *fakeReportRepo) DollarSales(context.Context, string, time.Time, time.Time) ([]repository.SellerAmountRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) SellerDailySales(context.Context, string, time.Time, time.Time) ([]repository.SellerDailyRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) ActiveInventory(context.Context, string) ([]repository.InventoryReportRow, error) {
	return f.inventory, nil
}

func (f *fakeReportRepo) ProductSales(context.Context, string, time.Time, time.Time) (sold, nulled, gifts []repository.ProductQuantityRow, err error) {
	return []repository.ProductQuantityRow{{Code: "A1", Name: "Chocolate", Quantity: 3}}, nil, nil, nil
}

func (f *fakeReportRepo) Invoices(context.Context, string, time.Time, time.Time) ([]repository.InvoiceReportRow, error) {
	return nil, nil
}

func (f *fakeReportRepo) ElectronicItems(_ context.Context, _ string, from, to time.Time) ([]repository.ElectronicItemRow, error) {
	f.from, f.to = from, to
	return f.items, nil
}

func (f *fakeReportRepo) ThirdParties(context.Context, string, time.Time) ([]repository.ThirdPartyRow, error) {
	return f.customers, nil
}

func (f *fakeReportRepo) InvoicePayments(context.Context, string, time.Time, time.Time) ([]repository.InvoicePaymentRow, error) {
	return f.payments, nil
}

// captureRenderer guarda lo que recibe y devuelve un contenido fijo.
type captureRenderer struct {
	daily     reports.DailySalesReport
	inventory reports.InventoryReport
	products  reports.ProductSalesReport
	einvoice  reports.ElectronicInvoiceReport
}

func (c *captureRenderer) DailySales(r reports.DailySalesReport) ([]byte, error) {
	c.daily = r
	return []byte("xlsx"), nil
}

func (c *captureRenderer) Inventories(r reports.InventoryReport) ([]byte, error) {
	c.inventory = r
	return []byte("xlsx"), nil
}

func (c *captureRenderer) ProductSales(r reports.ProductSalesReport) ([]byte, error) {
	c.products = r
	return []byte("xlsx"), nil
}

func (c *captureRenderer) Invoices(reports.InvoicesReport) ([]byte, error) { return []byte("xlsx"), nil }

func (c *captureRenderer) ElectronicInvoice(r reports.ElectronicInvoiceReport) ([]byte, error) {
	c.einvoice = r
	return []byte("xlsx"), nil
}

func setup(repo *fakeReportRepo) (*reports.UseCase, *captureRenderer, *apptest.Store) {
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: "company-1", Name: "Guasá", NIT: "900373115"})
	s.PutUser(entity.User{ID: "user-1", CompanyID: "company-1", Fullname: "Contadora", Email: "conta@guasa.co", Role: entity.RoleAdmin, IsActive: true})
	renderer := &captureRenderer{}
	uc := reports.NewUseCase(repo, s.Companies(), renderer, s.Recorder(), reports.EInvoiceConfig{
		Prefix:           "FE",
		DocType:          "FV-1",
		Note:             "Venta POS",
		DefaultWarehouse: "Principal",
		Warehouses:       map[string]string{"TIENDA-2": "Bodega Norte"},
	})
	return uc, renderer, s
}

func TestDailySales_RequiereRango(t *testing.T) {
	uc, _, _ := setup(&fakeReportRepo{})

	_, err := uc.DailySales(context.Background(), "company-1", "user-1", dto.DateRangeRequest{StartDate: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrDateRangeRequired)

	_, err = uc.DailySales(context.Background(), "company-1", "user-1", dto.DateRangeRequest{StartDate: "2024-03-05", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDailySales_NombreYActividad(t *testing.T) {
	repo := &fakeReportRepo{}
	uc, renderer, s := setup(repo)

	f, err := uc.DailySales(context.Background(), "company-1", "user-1", dto.DateRangeRequest{StartDate: "2024-03-01", EndDate: "2024-03-02"})

	require.NoError(t, err)
	assert.Equal(t, "reporte_ventas_2024-03-01_al_2024-03-02.xlsx", f.Name)
	assert.Equal(t, []byte("xlsx"), f.Content)
	require.Len(t, renderer.daily.Cards, 1)
	assert.Equal(t, 2, repo.to.Day())
	assert.Contains(t, s.Actions(), "Se descargó el reporte diario de ventas")
}

func TestInventories_NombresEnMayusculas(t *testing.T) {
	uc, renderer, _ := setup(&fakeReportRepo{inventory: []repository.InventoryReportRow{
		{ParentGroup: "bebidas", Group: "café", Code: "c1", Name: "café de origen", Storage: 3},
	}})

	f, err := uc.Inventories(context.Background(), "company-1", "user-1")

	require.NoError(t, err)
	assert.Equal(t, "reporte_inventarios.xlsx", f.Name)
	row := renderer.inventory.Rows[0]
	assert.Equal(t, "BEBIDAS", row.ParentGroup)
	assert.Equal(t, "CAFÉ", row.Group)
	assert.Equal(t, "CAFÉ DE ORIGEN", row.Name)
	assert.Equal(t, "c1", row.Code)
}

func TestProductSales_IncluyeEmpresa(t *testing.T) {
	uc, renderer, _ := setup(&fakeReportRepo{})

	f, err := uc.ProductSales(context.Background(), "company-1", "user-1", dto.DateRangeRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})

	require.NoError(t, err)
	assert.Equal(t, "reporte_ventas_x_producto_2024-03-01_2024-03-31.xlsx", f.Name)
	assert.Equal(t, "Guasá", renderer.products.Company)
	assert.Len(t, renderer.products.Sold, 1)
}

func TestElectronicInvoice_CalculaValoresYTerceros(t *testing.T) {
	repo := &fakeReportRepo{
		items: []repository.ElectronicItemRow{
			{InvoiceNumber: 7, ItemCode: "A1", ItemName: "Chocolate", CostCenter: "TIENDA-2", Quantity: 2,
				PaymentMethod: "debitCard", SellingPrice: decimal.NewFromInt(11900), Discount: decimal.NewFromInt(10)},
			{InvoiceNumber: 8, ItemCode: "B2", CostCenter: "OTRA", Quantity: 1, PaymentMethod: "cash",
				SellingPrice: decimal.NewFromInt(1000)},
		},
		customers: []repository.ThirdPartyRow{
			{DocumentType: "NIT", DocumentID: "900373115", Name: "Cliente SAS"},
			{DocumentType: "PA", DocumentID: "X123", Name: "Turista", City: "Medellín"},
		},
		payments: []repository.InvoicePaymentRow{{InvoiceNumber: 7, PaymentMethod: "nequi", Total: decimal.NewFromInt(21420)}},
	}
	uc, renderer, s := setup(repo)

	f, err := uc.ElectronicInvoice(context.Background(), "company-1", "user-1", dto.DateRangeRequest{
		StartDate: "2024-03-01 08:00:00", EndDate: "2024-03-01 20:30:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "FormatoFacturaElectronica-2024-03-01_08_00_00-2024-03-01_20_30_00.xlsx", f.Name)
	assert.Equal(t, 20, repo.to.Hour())

	mv := renderer.einvoice.Movements
	require.Len(t, mv, 2)
	assert.Equal(t, "10000", mv[0].UnitValue.String())
	assert.Equal(t, "0.1", mv[0].Discount.String())
	assert.Equal(t, "Bodega Norte", mv[0].Warehouse)
	assert.Equal(t, "Tarjeta Debito Ventas", mv[0].PaymentLabel)
	assert.Equal(t, "Guasá", mv[0].Company)
	assert.Equal(t, "FE", mv[0].Prefix)
	assert.Equal(t, "0.19", mv[0].VATRate.String())
	assert.Equal(t, "840.34", mv[1].UnitValue.String())
	assert.Equal(t, "Principal", mv[1].Warehouse)
	assert.Equal(t, "Efectivo", mv[1].PaymentLabel)

	tp := renderer.einvoice.ThirdParties
	require.Len(t, tp, 2)
	assert.Equal(t, "3", tp[0].VerificationDigit)
	assert.Equal(t, "Bogota D.C.", tp[0].City)
	assert.Equal(t, "CR 15  01 01", tp[0].Address)
	assert.Equal(t, "3333333333", tp[0].Phone)
	assert.Equal(t, "PASAPORTE", tp[1].DocumentLabel)
	assert.Empty(t, tp[1].VerificationDigit)
	assert.Equal(t, "Medellín", tp[1].City)

	require.Len(t, renderer.einvoice.Details, 1)
	assert.Equal(t, "Transferencias", renderer.einvoice.Details[0].PaymentLabel)
	assert.Contains(t, s.Actions(), "Se descargó el reporte de facturación electrónica")
}

func TestElectronicInvoice_FormatoConHora(t *testing.T) {
	uc, _, _ := setup(&fakeReportRepo{})

	_, err := uc.ElectronicInvoice(context.Background(), "company-1", "user-1", dto.DateRangeRequest{StartDate: "2024-03-01", EndDate: "2024-03-02"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
