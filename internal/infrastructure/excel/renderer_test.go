package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
)

var (
	march1 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	march2 = time.Date(2024, time.March, 2, 0, 0, 0, 0, time.Local)
)

func open(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func value(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func formula(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellFormula(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestDailySales_Secciones(t *testing.T) {
	out, err := excel.NewRenderer().DailySales(reports.DailySalesReport{
		From: march1, To: march2,
		Cards: []repository.CardSalesRow{
			{Terminal: "Datáfono 1", Seller: "Ana", Count: 2, Total: decimal.NewFromInt(40000)},
			{Terminal: "Datáfono 2", Seller: "Luis", Count: 1, Total: decimal.NewFromInt(15000)},
		},
		Dollars: []repository.SellerAmountRow{{Seller: "Ana", Total: decimal.NewFromFloat(12.5)}},
		Sellers: []repository.SellerDailyRow{{
			Seller: "Ana", TotalPOS: decimal.NewFromInt(100000), DollarEquivalent: decimal.NewFromInt(50000),
			Cards: decimal.NewFromInt(40000), Transfers: decimal.NewFromInt(5000),
		}},
	})
	require.NoError(t, err)
	f := open(t, out)
	s := excel.SheetDaily

	assert.Equal(t, "VENTA EN TARJETAS", value(t, f, s, "A1"))
	assert.Equal(t, "2024-03-01 al 2024-03-02", value(t, f, s, "D1"))
	assert.Equal(t, "DATAFONO", value(t, f, s, "A2"))
	assert.Equal(t, "Datáfono 1", value(t, f, s, "A3"))
	assert.Equal(t, "40000", value(t, f, s, "D3"))
	assert.Equal(t, "TOTAL TARJETAS", value(t, f, s, "B5"))
	assert.Equal(t, "SUM(D3:D4)", formula(t, f, s, "D5"))

	// dólares empiezan dos filas después del total de tarjetas
	assert.Equal(t, "VENTAS EN DOLARES", value(t, f, s, "A7"))
	assert.Equal(t, "12.5", value(t, f, s, "C9"))
	assert.Equal(t, "TOTAL VENTA DOLARES", value(t, f, s, "B10"))
	assert.Equal(t, "SUM(C9:C9)", formula(t, f, s, "C10"))
	assert.Equal(t, "TOTAL ENTREGADO DOLARES", value(t, f, s, "B13"))
	assert.Equal(t, "C10-C11+C12", formula(t, f, s, "C13"))

	assert.Equal(t, "VENTAS DIARIAS", value(t, f, s, "A15"))
	assert.Equal(t, "TOTAL EN PESOS", value(t, f, s, "F16"))
	assert.Equal(t, "Ana", value(t, f, s, "A17"))
	assert.Equal(t, "B17-C17-D17-E17", formula(t, f, s, "F17"))
	assert.Equal(t, "SUM(F17:F17)", formula(t, f, s, "F18"))
}

func TestDailySales_SinDatosTotalesEnCero(t *testing.T) {
	out, err := excel.NewRenderer().DailySales(reports.DailySalesReport{From: march1, To: march1})
	require.NoError(t, err)
	f := open(t, out)

	assert.Equal(t, "2024-03-01", value(t, f, excel.SheetDaily, "D1"))
	assert.Equal(t, "0", value(t, f, excel.SheetDaily, "D3"))
	assert.Empty(t, formula(t, f, excel.SheetDaily, "D3"))
}

func TestInventories_Valorizacion(t *testing.T) {
	out, err := excel.NewRenderer().Inventories(reports.InventoryReport{
		Date: march1,
		Rows: []repository.InventoryReportRow{{
			ParentGroup: "BEBIDAS", Group: "CAFÉ", Code: "C1", Name: "CAFÉ DE ORIGEN",
			Storage: 10, Shops: 2, BuyingPrice: decimal.NewFromInt(1000), SellingPrice: decimal.NewFromInt(2500),
		}},
	})
	require.NoError(t, err)
	f := open(t, out)
	s := excel.SheetInventories

	assert.Equal(t, "REPORTE DE INVENTARIOS", value(t, f, s, "A1"))
	assert.Equal(t, "2024-03-01", value(t, f, s, "M1"))
	assert.Equal(t, "CAFÉ DE ORIGEN", value(t, f, s, "D3"))
	assert.Equal(t, "2000", value(t, f, s, "I3"))
	assert.Equal(t, "10000", value(t, f, s, "J3"))
	assert.Equal(t, "5000", value(t, f, s, "K3"))
	assert.Equal(t, "25000", value(t, f, s, "L3"))
	assert.Equal(t, "COP", value(t, f, s, "M3"))
	assert.Equal(t, "TOTALES", value(t, f, s, "A4"))
	assert.Equal(t, "SUM(L3:L3)", formula(t, f, s, "L4"))
}

func TestProductSales_TresBloques(t *testing.T) {
	out, err := excel.NewRenderer().ProductSales(reports.ProductSalesReport{
		Company: "Guasá", From: march1, To: march2,
		Sold:  []repository.ProductQuantityRow{{Code: "A1", Name: "Chocolate", Quantity: 3}},
		Gifts: []repository.ProductQuantityRow{{Code: "B2", Name: "Café", Quantity: 1}},
	})
	require.NoError(t, err)
	f := open(t, out)
	s := excel.SheetProductSales

	assert.Equal(t, "REPORTE DE VENTAS POR PRODUCTO - Guasá", value(t, f, s, "A1"))
	assert.Equal(t, "PRODUCTOS VENDIDOS", value(t, f, s, "A3"))
	assert.Equal(t, "A1", value(t, f, s, "A5"))
	assert.Equal(t, "SUM(C5:C5)", formula(t, f, s, "C6"))
	assert.Equal(t, "PRODUCTOS ANULADOS", value(t, f, s, "A8"))
	assert.Equal(t, "0", value(t, f, s, "C10"))
	assert.Equal(t, "OBSEQUIOS", value(t, f, s, "A12"))
	assert.Equal(t, "Café", value(t, f, s, "B14"))
}

func TestInvoices_FilaPorFactura(t *testing.T) {
	out, err := excel.NewRenderer().Invoices(reports.InvoicesReport{
		From: march1, To: march2,
		Rows: []repository.InvoiceReportRow{{
			CreatedAt: march2, Seller: "Ana", InvoiceNumber: 42, Resolution: "18764",
			Total: decimal.NewFromInt(9000), CustomerName: "Cliente",
		}},
	})
	require.NoError(t, err)
	f := open(t, out)
	s := excel.SheetInvoices

	assert.Equal(t, "2024-03-02", value(t, f, s, "A3"))
	assert.Equal(t, "42", value(t, f, s, "C3"))
	assert.Equal(t, "9000", value(t, f, s, "F3"))
	assert.Equal(t, "SUM(F3:F3)", formula(t, f, s, "F4"))
}

func TestElectronicInvoice_TresHojas(t *testing.T) {
	out, err := excel.NewRenderer().ElectronicInvoice(reports.ElectronicInvoiceReport{
		Today: march2,
		Movements: []reports.MovementLine{{
			Company: "Guasá", DocType: "FV", Prefix: "FE", InvoiceNumber: 7, Date: march1, CompanyNIT: "900373115",
			PaymentLabel: "Efectivo", ItemCode: "A1", Warehouse: "Principal", Quantity: 2,
			VATRate: decimal.RequireFromString("0.19"), UnitValue: decimal.NewFromInt(10000),
			Discount: decimal.RequireFromString("0.1"), ItemName: "Chocolate", CostCenter: "TIENDA",
		}},
		ThirdParties: []reports.ThirdPartyLine{{
			DocumentLabel: "NIT", DocumentID: "900373115", VerificationDigit: "3", City: "Bogota D.C.",
			Name: "Cliente SAS", Address: "CR 15  01 01", Phone: "3333333333", Email: "c@sas.co",
		}},
		Details: []reports.InvoiceDetailLine{{InvoiceNumber: 7, PaymentLabel: "Efectivo", Total: decimal.NewFromInt(18000)}},
	})
	require.NoError(t, err)
	f := open(t, out)

	assert.Equal(t, []string{excel.SheetMovements, excel.SheetThirdParties, excel.SheetInvoiceTotal}, f.GetSheetList())

	m := excel.SheetMovements
	assert.Equal(t, "Guasá", value(t, f, m, "A2"))
	assert.Equal(t, "7", value(t, f, m, "D2"))
	assert.Equal(t, "2024-03-01", value(t, f, m, "E2"))
	assert.Empty(t, value(t, f, m, "K2"))
	assert.Equal(t, "A1", value(t, f, m, "AF2"))
	assert.Equal(t, "Und.", value(t, f, m, "AH2"))
	assert.Equal(t, "0.19", value(t, f, m, "AJ2"))
	assert.Equal(t, "10000", value(t, f, m, "AK2"))
	assert.Equal(t, "0.1", value(t, f, m, "AL2"))
	assert.Equal(t, "TIENDA", value(t, f, m, "AO2"))

	tp := excel.SheetThirdParties
	assert.Equal(t, "NIT", value(t, f, tp, "A2"))
	assert.Equal(t, "3", value(t, f, tp, "E2"))
	assert.Equal(t, "Cliente;", value(t, f, tp, "H2"))
	assert.Equal(t, "2024-03-02", value(t, f, tp, "K2"))
	assert.Equal(t, "Casa", value(t, f, tp, "AV2"))
	assert.Equal(t, "c@sas.co", value(t, f, tp, "BE2"))

	d := excel.SheetInvoiceTotal
	assert.Equal(t, "Forma de pago", value(t, f, d, "B1"))
	assert.Equal(t, "18000", value(t, f, d, "C2"))
}
