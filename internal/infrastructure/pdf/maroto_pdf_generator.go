// Package pdf genera el recibo imprimible de una factura POS.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT       │  N° Factura + Fecha          │
//	│  RESOLUCIÓN DIAN: número, vigencia y rango autorizado       │
//	│  CLIENTE / VENDEDOR / DATÁFONO                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | V.Unit | Desc% | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total COP / Total USD                              │
//	│  MEDIOS DE PAGO: recibido / vuelto                           │
//	│  FOOTER: QR con el número de factura                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/dian"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 190, Green: 30, Blue: 45}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa billing.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, r billing.Receipt) ([]byte, error) {
	if r.Invoice == nil || r.Company == nil {
		return nil, fmt.Errorf("pdf: factura y empresa son obligatorias")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Factura %d", r.Invoice.InvoiceNumber), true).
		WithAuthor(r.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r.Invoice, r.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r.Resolution != nil {
		m.AddRows(resolutionRow(r.Resolution))
	}
	m.AddRows(partiesRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(r.Invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Invoice))
	m.AddRows(paymentRows(r.Invoice.PaymentMethods)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(r.Invoice, r.Company))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + NIT (izq) y N° factura + fecha (der).
func headerRow(inv *entity.Invoice, company *entity.Company) core.Row {
	nit := company.NIT
	if dv, err := dian.VerificationDigit(company.NIT); err == nil {
		nit = fmt.Sprintf("%s-%d", company.NIT, dv)
	}
	right := []core.Component{
		text.New("FACTURA DE VENTA POS", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
		text.New("N° "+strconv.FormatInt(inv.InvoiceNumber, 10), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
		text.New("Fecha: "+inv.CreatedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	}
	if inv.IsOverride {
		right = append(right, text.New("ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 19, Color: colorRed,
		}))
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.ShortName, company.Name), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(company.Name+"  |  NIT: "+nit, props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Tel: "+nonEmpty(company.Phone, "—"), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		col.New(5).Add(right...),
	)
}

// resolutionRow: autorización de numeración.
func resolutionRow(res *entity.DianResolution) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Resolución DIAN N° %s del %s al %s. Numeración autorizada del %d al %d",
			res.DocumentNumber,
			res.FromDate.Format("02/01/2006"),
			res.ToDate.Format("02/01/2006"),
			res.FromNumber, res.ToNumber,
		), props.Text{Size: 7.5, Top: 2, Color: colorGray}),
	))
}

// partiesRow: cliente (izq) y vendedor / datáfono (der).
func partiesRow(r billing.Receipt) core.Row {
	customer := "Consumidor final"
	customerDoc := "—"
	if r.Customer != nil {
		customer = r.Customer.Name
		customerDoc = fmt.Sprintf("%s %s", dian.DocumentLabel(r.Customer.DocumentType), r.Customer.DocumentID)
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(customer, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(customerDoc, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Vendedor: "+nonEmpty(r.SaleBy, "—"), props.Text{Size: 8, Align: align.Right, Top: 6}),
			text.New("Datáfono: "+nonEmpty(r.Terminal, "—"), props.Text{Size: 8, Align: align.Right, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("V. Unit.", 2, align.Right),
		h("Desc%", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: una fila por ítem; los obsequios se marcan y van en cero.
func tableItemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := fmt.Sprintf("%s - %s", it.ItemCode, it.ItemName)
		if it.IsGift {
			name += " (obsequio)"
		}
		unit := decimal.Zero
		if it.Quantity > 0 {
			unit = it.OriginalAmount.Div(decimal.NewFromInt(int64(it.Quantity)))
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(unit.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.Discount.StringFixed(0)+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+formatMoney(it.Amount.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: total en pesos y, si la factura es en dólares, el total USD.
func totalsRow(inv *entity.Invoice) core.Row {
	cop, usd := inv.TotalSum()
	labels := []core.Component{
		text.New("TOTAL A PAGAR:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
	}
	values := []core.Component{
		text.New("$"+formatMoney(cop.StringFixed(0)), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}),
	}
	if inv.IsDollar {
		labels = append(labels, text.New("TOTAL USD:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 6, Right: 2}))
		values = append(values, text.New("US$"+usd.StringFixed(2), props.Text{Size: 9, Align: align.Right, Top: 6, Right: 1}))
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// paymentRows: una fila por medio de pago con recibido y vuelto.
func paymentRows(methods []entity.PaymentMethod) []core.Row {
	if len(methods) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("MEDIOS DE PAGO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, pm := range methods {
		detail := fmt.Sprintf("Pagado $%s  |  Recibido $%s  |  Vuelto $%s",
			formatMoney(pm.PaidAmount.StringFixed(0)),
			formatMoney(pm.ReceivedAmount.StringFixed(0)),
			formatMoney(pm.BackAmount.StringFixed(0)),
		)
		if pm.TransactionCode != "" {
			detail += "  |  Transacción " + pm.TransactionCode
		}
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(dian.PaymentLabel(pm.Name), props.Text{Size: 8, Top: 1})),
			col.New(8).Add(text.New(detail, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
		))
	}
	return rows
}

// footerRow: QR con empresa y número para ubicar la factura desde el POS.
func footerRow(inv *entity.Invoice, company *entity.Company) core.Row {
	qr := fmt.Sprintf("NIT:%s;FACTURA:%d;FECHA:%s", company.NIT, inv.InvoiceNumber, inv.CreatedAt.Format("2006-01-02"))
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorPrimary}),
			text.New("Conserve este documento como soporte de su compra.", props.Text{Size: 7.5, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
