package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// InvoiceSummary fila del listado simple de facturas (sin ítems).
type InvoiceSummary struct {
	ID                  string
	InvoiceNumber       int64
	IsDollar            bool
	IsOverride          bool
	SaleByFullname      string
	CustomerName        string
	ResolutionNumber    string
	PaymentTerminalName string
	TotalSum            decimal.Decimal
	TotalSumUSD         decimal.Decimal
	CreatedAt           time.Time
}

// InvoiceRepository define el puerto de persistencia para Invoice, sus ítems y medios de pago.
type InvoiceRepository interface {
	// Create persiste solo la cabecera.
	Create(ctx context.Context, inv *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	CreatePaymentMethod(ctx context.Context, pm *entity.PaymentMethod) error
	DeletePaymentMethods(ctx context.Context, invoiceID string) error

	// GetByID y GetByNumber cargan ítems y medios de pago. Devuelven nil, nil si no existe.
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, companyID string, number int64) (*entity.Invoice, error)
	// GetByNumberForUpdate bloquea la cabecera y carga los ítems.
	GetByNumberForUpdate(ctx context.Context, companyID string, number int64) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera por id.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error)

	SetOverride(ctx context.Context, id string) error
	// UpdateHeader persiste PaymentTerminalID e IsDollar.
	UpdateHeader(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, companyID, id string) error

	// List filtros: is_override, is_dollar, sale_by_id, customer_id, invoice_number.
	List(ctx context.Context, f ListFilter) ([]*entity.Invoice, int, error)
	SimpleList(ctx context.Context, f ListFilter) ([]*InvoiceSummary, int, error)
}
