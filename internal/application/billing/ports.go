package billing

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye los repos de
// numeración, inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		resolutionRepo repository.DianResolutionRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// Receipt datos de la representación impresa de una factura POS.
type Receipt struct {
	Invoice    *entity.Invoice
	Company    *entity.Company
	Resolution *entity.DianResolution
	Customer   *entity.Customer // nil si la factura no tiene cliente
	SaleBy     string
	Terminal   string
}

// ReceiptGenerator genera el PDF de una factura.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, r Receipt) ([]byte, error)
}

// StatsInvalidator descarta las estadísticas en caché de una empresa cuando cambian sus ventas.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, companyID string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, string) {}

// Eventos de métricas de facturación.
const (
	EventInvoiceCreated    = "invoice_created"
	EventInvoiceOverridden = "invoice_overridden"
)
