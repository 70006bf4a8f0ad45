package excel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Nombres de hoja.
const (
	SheetDaily        = "REPORTE DIARIO"
	SheetInventories  = "REPORTE DE INVENTARIOS"
	SheetProductSales = "REPORTE DE VENTAS POR PRODUCTO"
	SheetInvoices     = "REPORTE DE FACTURACION"
	SheetMovements    = "Movimientos"
	SheetThirdParties = "FormatoTerceros"
	SheetInvoiceTotal = "Detalle Facturas"
)

// Renderer implementa reports.Renderer con excelize.
type Renderer struct{}

// NewRenderer construye el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

var _ reports.Renderer = (*Renderer)(nil)

// DailySales hoja REPORTE DIARIO con las secciones de tarjetas, dólares y ventas por vendedor.
func (Renderer) DailySales(r reports.DailySalesReport) ([]byte, error) {
	b, err := newBook(SheetDaily)
	if err != nil {
		return nil, err
	}
	date := period(r.From, r.To)
	b.widths(24, 29, 18, 18, 18, 18)

	// VENTA EN TARJETAS
	b.banner(1, 3, "VENTA EN TARJETAS", 2, date)
	b.headers(2, "DATAFONO", "VENDEDOR", "CANT", "TOTAL DIA")
	row := 3
	for _, c := range r.Cards {
		b.line(row, c.Terminal, c.Seller, c.Count, c.Total)
		row++
	}
	b.line(row, nil, "TOTAL TARJETAS")
	b.sum(3, row, 3, row-1)
	b.sum(4, row, 3, row-1)
	b.highlight(row, 5)

	// VENTAS EN DOLARES
	start := row + 2
	b.banner(start, 3, "VENTAS EN DOLARES", 2, date)
	b.headers(start+1, "ITEM", "VENDEDOR", "TOTAL USD")
	row = start + 2
	for i, d := range r.Dollars {
		b.line(row, i+1, d.Seller, d.Total)
		row++
	}
	total := row
	b.line(total, nil, "TOTAL VENTA DOLARES")
	b.sum(3, total, start+2, total-1)
	b.line(total+1, nil, "FALTANTE (MENOS)")
	b.line(total+2, nil, "SOBRANTE (MAS)")
	b.line(total+3, nil, "TOTAL ENTREGADO DOLARES")
	b.formula(3, total+3, fmt.Sprintf("C%d-C%d+C%d", total, total+1, total+2))
	b.highlight(total, 5)
	b.highlight(total+3, 5)

	// VENTAS DIARIAS
	start = total + 5
	b.banner(start, 3, "VENTAS DIARIAS", 3, date)
	b.headers(start+1, "VENDEDOR", "TOTAL DIA POS", "DOLAR EQUIVALENTE $ (MENOS)",
		"VENTAS TARJETAS (MENOS)", "TRANSFERENCIAS", "TOTAL EN PESOS")
	row = start + 2
	for _, s := range r.Sellers {
		b.line(row, s.Seller, s.TotalPOS, s.DollarEquivalent, s.Cards, s.Transfers)
		b.formula(6, row, fmt.Sprintf("B%d-C%d-D%d-E%d", row, row, row, row))
		row++
	}
	b.line(row, "TOTAL")
	for col := 2; col <= 6; col++ {
		b.sum(col, row, start+2, row-1)
	}
	b.highlight(row, 6)
	return b.bytes()
}

// Inventories hoja REPORTE DE INVENTARIOS con valorización por ubicación y fila de totales.
func (Renderer) Inventories(r reports.InventoryReport) ([]byte, error) {
	b, err := newBook(SheetInventories)
	if err != nil {
		return nil, err
	}
	b.widths(20, 20, 12, 36, 10, 10, 14, 14, 18, 18, 18, 18, 8)
	b.banner(1, 12, SheetInventories, 1, r.Date.Format("2006-01-02"))
	b.headers(2, "CATEGORIA", "SUBCATEGORIA", "CODIGO", "NOMBRE", "BODEGA", "TIENDAS",
		"PRECIO COMPRA", "PRECIO VENTA", "COMPRA TIENDAS", "COMPRA BODEGA", "VENTA TIENDAS", "VENTA BODEGA", "MONEDA")
	row := 3
	for _, p := range r.Rows {
		shops, storage := decimalOf(p.Shops), decimalOf(p.Storage)
		b.line(row, p.ParentGroup, p.Group, p.Code, p.Name, p.Storage, p.Shops,
			p.BuyingPrice, p.SellingPrice,
			shops.Mul(p.BuyingPrice), storage.Mul(p.BuyingPrice),
			shops.Mul(p.SellingPrice), storage.Mul(p.SellingPrice),
			"COP",
		)
		row++
	}
	b.line(row, "TOTALES")
	for _, col := range []int{5, 6, 9, 10, 11, 12} {
		b.sum(col, row, 3, row-1)
	}
	b.highlight(row, 13)
	return b.bytes()
}

// ProductSales tres bloques: vendidos, anulados y obsequios.
func (Renderer) ProductSales(r reports.ProductSalesReport) ([]byte, error) {
	b, err := newBook(SheetProductSales)
	if err != nil {
		return nil, err
	}
	b.widths(14, 40, 12)
	b.banner(1, 2, fmt.Sprintf("%s - %s", SheetProductSales, r.Company), 1, period(r.From, r.To))
	blocks := []struct {
		title string
		rows  []repository.ProductQuantityRow
	}{
		{"PRODUCTOS VENDIDOS", r.Sold},
		{"PRODUCTOS ANULADOS", r.Nulled},
		{"OBSEQUIOS", r.Gifts},
	}
	row := 3
	for _, blk := range blocks {
		b.banner(row, 3, blk.title, 0, "")
		b.headers(row+1, "CODIGO", "NOMBRE", "CANTIDAD")
		first := row + 2
		row = first
		for _, p := range blk.rows {
			b.line(row, p.Code, p.Name, p.Quantity)
			row++
		}
		b.line(row, nil, "TOTAL")
		b.sum(3, row, first, row-1)
		b.highlight(row, 3)
		row += 2
	}
	return b.bytes()
}

// Invoices una fila por factura con total y datos del cliente.
func (Renderer) Invoices(r reports.InvoicesReport) ([]byte, error) {
	b, err := newBook(SheetInvoices)
	if err != nil {
		return nil, err
	}
	b.widths(12, 24, 10, 16, 18, 14, 16, 28, 28, 14, 28)
	b.banner(1, 10, SheetInvoices, 1, period(r.From, r.To))
	b.headers(2, "FECHA", "VENDEDOR", "FACTURA", "RESOLUCION", "DATAFONO", "TOTAL",
		"DOCUMENTO", "CLIENTE", "EMAIL", "TELEFONO", "DIRECCION")
	row := 3
	for _, inv := range r.Rows {
		b.line(row, inv.CreatedAt, inv.Seller, inv.InvoiceNumber, inv.Resolution, inv.Terminal, inv.Total,
			inv.CustomerDocument, inv.CustomerName, inv.CustomerEmail, inv.CustomerPhone, inv.CustomerAddress)
		row++
	}
	b.line(row, "TOTAL")
	b.sum(6, row, 3, row-1)
	b.highlight(row, 11)
	return b.bytes()
}

// Columnas (1-based) del formato de importación contable. Las demás van vacías.
var (
	movementHeaders = map[int]string{
		1: "Empresa", 2: "Tipo de documento", 3: "Prefijo", 4: "Documento número", 5: "Fecha",
		6: "Tercero interno", 7: "Tercero externo", 8: "Nota", 9: "Forma de pago", 10: "Fecha de entrega",
		13: "Verificado", 14: "Anulado",
		32: "Producto", 33: "Bodega", 34: "Unidad de medida", 35: "Cantidad", 36: "IVA",
		37: "Valor unitario", 38: "Descuento", 39: "Vencimiento", 40: "Nota", 41: "Centro costos",
	}
	thirdPartyHeaders = map[int]string{
		1: "Tipo de identificación", 2: "Identificación", 3: "Ciudad", 4: "Nombre", 5: "Dígito de verificación",
		8: "Tipo", 9: "Activo", 10: "Responsabilidad fiscal", 11: "Fecha de creación", 12: "Cupo",
		13: "Clasificación DIAN", 48: "Tipo de dirección", 49: "Ciudad", 50: "Dirección", 51: "Principal",
		52: "Teléfono", 53: "Código postal", 57: "Correo electrónico",
	}
)

const (
	movementColumns   = 56
	thirdPartyColumns = 62
)

// ElectronicInvoice libro con las hojas Movimientos, FormatoTerceros y Detalle Facturas.
func (Renderer) ElectronicInvoice(r reports.ElectronicInvoiceReport) ([]byte, error) {
	b, err := newBook(SheetMovements)
	if err != nil {
		return nil, err
	}
	b.plainHeaders(1, movementHeaders)
	for i, m := range r.Movements {
		b.line(i+2, sparse(movementColumns, map[int]any{
			1: m.Company, 2: m.DocType, 3: m.Prefix, 4: m.InvoiceNumber, 5: m.Date,
			6: m.CompanyNIT, 7: m.CustomerDocument, 8: m.Note, 9: m.PaymentLabel, 10: m.Date,
			13: 0, 14: 0,
			32: m.ItemCode, 33: m.Warehouse, 34: "Und.", 35: m.Quantity, 36: m.VATRate,
			37: m.UnitValue, 38: m.Discount, 39: m.Date, 40: m.ItemName, 41: m.CostCenter,
		})...)
	}

	b.use(SheetThirdParties)
	b.plainHeaders(1, thirdPartyHeaders)
	for i, t := range r.ThirdParties {
		values := map[int]any{
			1: t.DocumentLabel, 2: t.DocumentID, 3: t.City, 4: t.Name,
			8: "Cliente;", 9: -1, 10: "Persona Natural No Responsable del IVA", 11: r.Today, 12: 0,
			13: "Normal", 48: "Casa", 49: t.City, 50: t.Address, 51: -1, 52: t.Phone, 53: 11111, 57: t.Email,
		}
		if t.VerificationDigit != "" {
			values[5] = t.VerificationDigit
		}
		b.line(i+2, sparse(thirdPartyColumns, values)...)
	}

	b.use(SheetInvoiceTotal)
	b.line(1, "Factura", "Forma de pago", "Total")
	for i, d := range r.Details {
		b.line(i+2, d.InvoiceNumber, d.PaymentLabel, d.Total)
	}
	return b.bytes()
}

func decimalOf(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// sparse arma una fila de n columnas con los valores en sus posiciones 1-based.
func sparse(n int, values map[int]any) []any {
	out := make([]any, n)
	for col, v := range values {
		out[col-1] = v
	}
	return out
}
