// Package reports arma los reportes xlsx descargables del back office.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/dian"
)

// ContentType tipo MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"

	defaultCity    = "Bogota D.C."
	defaultAddress = "CR 15  01 01"
	defaultPhone   = "3333333333"
)

// EInvoiceConfig constantes del formato de facturación electrónica.
type EInvoiceConfig struct {
	Prefix           string
	DocType          string
	Note             string
	DefaultWarehouse string
	Warehouses       map[string]string // centro de costo -> bodega
	VATRate          decimal.Decimal
}

// File archivo listo para descargar.
type File struct {
	Name    string
	Content []byte
}

// UseCase reportes de ventas, inventario y facturación.
type UseCase struct {
	repo      repository.ReportRepository
	companies repository.CompanyRepository
	renderer  Renderer
	activity  *usecase.ActivityRecorder
	einvoice  EInvoiceConfig
	now       func() time.Time
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(repo repository.ReportRepository, companies repository.CompanyRepository, renderer Renderer, activity *usecase.ActivityRecorder, einvoice EInvoiceConfig) *UseCase {
	if einvoice.VATRate.IsZero() {
		einvoice.VATRate = decimal.RequireFromString("0.19")
	}
	return &UseCase{repo: repo, companies: companies, renderer: renderer, activity: activity, einvoice: einvoice, now: time.Now}
}

// DailySales reporte diario de tarjetas, dólares y cierre de caja por vendedor.
func (uc *UseCase) DailySales(ctx context.Context, companyID, actorID string, in dto.DateRangeRequest) (*File, error) {
	from, to, err := parseRange(in, dateLayout)
	if err != nil {
		return nil, err
	}
	report := DailySalesReport{From: from, To: to}
	if report.Cards, err = uc.repo.CardSales(ctx, companyID, from, to); err != nil {
		return nil, err
	}
	if report.Dollars, err = uc.repo.DollarSales(ctx, companyID, from, to); err != nil {
		return nil, err
	}
	if report.Sellers, err = uc.repo.SellerDailySales(ctx, companyID, from, to); err != nil {
		return nil, err
	}
	content, err := uc.renderer.DailySales(report)
	if err != nil {
		return nil, fmt.Errorf("render daily report: %w", err)
	}
	uc.activity.Record(ctx, actorID, "Se descargó el reporte diario de ventas")
	return &File{Name: fmt.Sprintf("reporte_ventas_%s_al_%s.xlsx", in.StartDate, in.EndDate), Content: content}, nil
}

// Inventories inventario valorizado de los productos activos. No requiere fechas.
func (uc *UseCase) Inventories(ctx context.Context, companyID, actorID string) (*File, error) {
	rows, err := uc.repo.ActiveInventory(ctx, companyID)
	if err != nil {
		return nil, err
	}
	upper := cases.Upper(language.Spanish)
	for i := range rows {
		rows[i].ParentGroup = upper.String(rows[i].ParentGroup)
		rows[i].Group = upper.String(rows[i].Group)
		rows[i].Name = upper.String(rows[i].Name)
	}
	content, err := uc.renderer.Inventories(InventoryReport{Date: uc.now(), Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("render inventory report: %w", err)
	}
	uc.activity.Record(ctx, actorID, "Se descargó el reporte de inventarios")
	return &File{Name: "reporte_inventarios.xlsx", Content: content}, nil
}

// ProductSales unidades vendidas, anuladas y obsequiadas por producto.
func (uc *UseCase) ProductSales(ctx context.Context, companyID, actorID string, in dto.DateRangeRequest) (*File, error) {
	from, to, err := parseRange(in, dateLayout)
	if err != nil {
		return nil, err
	}
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	report := ProductSalesReport{Company: company.Name, From: from, To: to}
	if report.Sold, report.Nulled, report.Gifts, err = uc.repo.ProductSales(ctx, companyID, from, to); err != nil {
		return nil, err
	}
	content, err := uc.renderer.ProductSales(report)
	if err != nil {
		return nil, fmt.Errorf("render product sales report: %w", err)
	}
	uc.activity.Record(ctx, actorID, "Se descargó el reporte de ventas de productos")
	return &File{Name: fmt.Sprintf("reporte_ventas_x_producto_%s_%s.xlsx", in.StartDate, in.EndDate), Content: content}, nil
}

// Invoices una fila por factura no anulada con los datos del cliente.
func (uc *UseCase) Invoices(ctx context.Context, companyID, actorID string, in dto.DateRangeRequest) (*File, error) {
	from, to, err := parseRange(in, dateLayout)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.Invoices(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	content, err := uc.renderer.Invoices(InvoicesReport{From: from, To: to, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("render invoices report: %w", err)
	}
	uc.activity.Record(ctx, actorID, "Se descargó el reporte de facturación")
	return &File{Name: fmt.Sprintf("reporte_facturas_%s_%s.xlsx", in.StartDate, in.EndDate), Content: content}, nil
}

// ElectronicInvoice formato de importación del software contable. Las fechas incluyen hora.
func (uc *UseCase) ElectronicInvoice(ctx context.Context, companyID, actorID string, in dto.DateRangeRequest) (*File, error) {
	from, to, err := parseRange(in, dateTimeLayout)
	if err != nil {
		return nil, err
	}
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ElectronicItems(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	customers, err := uc.repo.ThirdParties(ctx, companyID, from)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repo.InvoicePayments(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	report := ElectronicInvoiceReport{
		Today:        uc.now(),
		Movements:    make([]MovementLine, 0, len(items)),
		ThirdParties: make([]ThirdPartyLine, 0, len(customers)),
		Details:      make([]InvoiceDetailLine, 0, len(payments)),
	}
	divisor := decimal.NewFromInt(1).Add(uc.einvoice.VATRate)
	hundred := decimal.NewFromInt(100)
	for _, it := range items {
		report.Movements = append(report.Movements, MovementLine{
			Company:          company.Name,
			DocType:          uc.einvoice.DocType,
			Prefix:           uc.einvoice.Prefix,
			InvoiceNumber:    it.InvoiceNumber,
			Date:             it.CreatedAt,
			CompanyNIT:       company.NIT,
			CustomerDocument: it.CustomerDocument,
			Note:             uc.einvoice.Note,
			PaymentLabel:     dian.PaymentLabel(it.PaymentMethod),
			ItemCode:         it.ItemCode,
			Warehouse:        uc.warehouse(it.CostCenter),
			Quantity:         it.Quantity,
			VATRate:          uc.einvoice.VATRate,
			UnitValue:        it.SellingPrice.Div(divisor).Round(2),
			Discount:         it.Discount.Div(hundred).Round(2),
			ItemName:         it.ItemName,
			CostCenter:       it.CostCenter,
		})
	}
	for _, c := range customers {
		report.ThirdParties = append(report.ThirdParties, thirdPartyLine(c))
	}
	for _, p := range payments {
		report.Details = append(report.Details, InvoiceDetailLine{
			InvoiceNumber: p.InvoiceNumber,
			PaymentLabel:  dian.PaymentLabel(p.PaymentMethod),
			Total:         p.Total,
		})
	}

	content, err := uc.renderer.ElectronicInvoice(report)
	if err != nil {
		return nil, fmt.Errorf("render electronic invoice report: %w", err)
	}
	uc.activity.Record(ctx, actorID, "Se descargó el reporte de facturación electrónica")
	name := fmt.Sprintf("FormatoFacturaElectronica-%s-%s.xlsx",
		from.Format("2006-01-02_15_04_05"), to.Format("2006-01-02_15_04_05"))
	return &File{Name: name, Content: content}, nil
}

func (uc *UseCase) warehouse(costCenter string) string {
	if w, ok := uc.einvoice.Warehouses[costCenter]; ok {
		return w
	}
	return uc.einvoice.DefaultWarehouse
}

func (uc *UseCase) company(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return company, nil
}

func thirdPartyLine(c repository.ThirdPartyRow) ThirdPartyLine {
	line := ThirdPartyLine{
		DocumentLabel: dian.DocumentLabel(c.DocumentType),
		DocumentID:    c.DocumentID,
		City:          orDefault(c.City, defaultCity),
		Name:          c.Name,
		Address:       orDefault(c.Address, defaultAddress),
		Phone:         orDefault(c.Phone, defaultPhone),
		Email:         c.Email,
	}
	if c.DocumentType == "NIT" {
		if dv, err := dian.VerificationDigit(c.DocumentID); err == nil {
			line.VerificationDigit = strconv.Itoa(dv)
		}
	}
	return line
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// parseRange exige ambas fechas en el layout indicado.
func parseRange(in dto.DateRangeRequest, layout string) (time.Time, time.Time, error) {
	if in.StartDate == "" || in.EndDate == "" {
		return time.Time{}, time.Time{}, domain.ErrDateRangeRequired
	}
	from, err := time.ParseInLocation(layout, in.StartDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date debe tener formato %s: %w", layout, domain.ErrInvalidInput)
	}
	to, err := time.ParseInLocation(layout, in.EndDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date debe tener formato %s: %w", layout, domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}
