package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// InvoiceUseCase crea, anula y consulta facturas POS.
//
// La numeración sale de la resolución activa bloqueada con FOR UPDATE, de modo que las
// facturas concurrentes de una empresa se serializan y los números son estrictamente
// crecientes. El stock en tiendas se descuenta en la misma transacción.
type InvoiceUseCase struct {
	tx          BillingTxRunner
	invoices    repository.InvoiceRepository
	resolutions repository.DianResolutionRepository
	customers   repository.CustomerRepository
	terminals   repository.PaymentTerminalRepository
	users       repository.UserRepository
	companies   repository.CompanyRepository
	receipts    ReceiptGenerator
	activity    *usecase.ActivityRecorder
	counter     usecase.EventCounter
	stats       StatsInvalidator
	now         func() time.Time
}

// InvoiceDeps dependencias del caso de uso de facturas.
type InvoiceDeps struct {
	Tx          BillingTxRunner
	Invoices    repository.InvoiceRepository
	Resolutions repository.DianResolutionRepository
	Customers   repository.CustomerRepository
	Terminals   repository.PaymentTerminalRepository
	Users       repository.UserRepository
	Companies   repository.CompanyRepository
	Receipts    ReceiptGenerator
	Activity    *usecase.ActivityRecorder
	Counter     usecase.EventCounter
	Stats       StatsInvalidator // puede ser nil
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(d InvoiceDeps) *InvoiceUseCase {
	counter := d.Counter
	if counter == nil {
		counter = usecase.NopCounter{}
	}
	var stats StatsInvalidator = nopInvalidator{}
	if d.Stats != nil {
		stats = d.Stats
	}
	return &InvoiceUseCase{
		tx:          d.Tx,
		invoices:    d.Invoices,
		resolutions: d.Resolutions,
		customers:   d.Customers,
		terminals:   d.Terminals,
		users:       d.Users,
		companies:   d.Companies,
		receipts:    d.Receipts,
		activity:    d.Activity,
		counter:     counter,
		stats:       stats,
		now:         time.Now,
	}
}

// Create asigna el siguiente número de la resolución activa, descuenta el stock en
// tiendas de cada producto y guarda ítems y medios de pago en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID, actorID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.InvoiceItems) == 0 {
		return nil, domain.ErrInvoiceItemsRequired
	}
	if len(in.PaymentMethods) == 0 {
		return nil, domain.ErrPaymentMethodsRequired
	}
	for i, it := range in.InvoiceItems {
		if it.ItemID == "" {
			return nil, fmt.Errorf("ítem %d: falta el producto: %w", i+1, domain.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("ítem %d: la cantidad debe ser mayor que cero: %w", i+1, domain.ErrInvalidInput)
		}
	}
	for _, pm := range in.PaymentMethods {
		if !entity.ValidPaymentMethod(pm.Name) {
			return nil, fmt.Errorf("medio de pago %q no válido: %w", pm.Name, domain.ErrInvalidInput)
		}
	}
	saleBy := in.SaleByID
	if saleBy == "" {
		saleBy = actorID
	}
	if err := uc.checkReferences(ctx, companyID, saleBy, in.CustomerID, in.PaymentTerminalID); err != nil {
		return nil, err
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		CreatedByID:       actorID,
		SaleByID:          saleBy,
		PaymentTerminalID: optional(in.PaymentTerminalID),
		CustomerID:        optional(in.CustomerID),
		IsDollar:          in.IsDollar,
		CreatedAt:         now,
	}

	err := uc.tx.RunBilling(ctx, func(
		resolutionRepo repository.DianResolutionRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		res, err := resolutionRepo.GetActiveForUpdate(ctx, companyID)
		if err != nil {
			return err
		}
		if res == nil || res.ExpiredAt(now) {
			return domain.ErrNoActiveResolution
		}
		next, ok := res.NextNumber()
		if !ok {
			return domain.ErrResolutionExhausted
		}
		if err := resolutionRepo.UpdateCurrentNumber(ctx, res.ID, next); err != nil {
			return err
		}
		inv.DianResolutionID = res.ID
		inv.InvoiceNumber = next
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}

		products, err := lockProducts(ctx, productRepo, companyID, itemIDs(in.InvoiceItems))
		if err != nil {
			return err
		}
		for _, req := range in.InvoiceItems {
			p := products[req.ItemID]
			if p.TotalInShops < req.Quantity {
				return &domain.StockError{Code: p.Code}
			}
			p.TotalInShops -= req.Quantity
			qty := decimal.NewFromInt(int64(req.Quantity))
			item := entity.InvoiceItem{
				ID:                uuid.New().String(),
				InvoiceID:         inv.ID,
				ItemID:            p.ID,
				ItemName:          p.Name,
				ItemCode:          p.Code,
				Quantity:          req.Quantity,
				Amount:            req.Amount,
				UsdAmount:         req.UsdAmount,
				Discount:          req.Discount,
				OriginalAmount:    qty.Mul(p.SellingPrice),
				OriginalUsdAmount: qty.Mul(p.USDPrice),
				IsGift:            req.IsGift,
			}
			if err := invoiceRepo.CreateItem(ctx, &item); err != nil {
				return err
			}
			inv.Items = append(inv.Items, item)
		}
		for _, p := range products {
			if err := productRepo.UpdateQuantities(ctx, p); err != nil {
				return err
			}
		}
		methods, err := insertPaymentMethods(ctx, invoiceRepo, inv.ID, in.PaymentMethods)
		if err != nil {
			return err
		}
		inv.PaymentMethods = methods
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.counter.Inc(EventInvoiceCreated)
	uc.stats.Invalidate(ctx, companyID)
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó la factura %d", inv.InvoiceNumber))
	return InvoiceToResponse(inv), nil
}

// Override anula la factura y devuelve a tiendas las cantidades de sus ítems.
func (uc *InvoiceUseCase) Override(ctx context.Context, companyID, actorID string, number int64) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.tx.RunBilling(ctx, func(
		_ repository.DianResolutionRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByNumberForUpdate(ctx, companyID, number)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if inv.IsOverride {
			return domain.ErrInvoiceOverridden
		}
		if err := invoiceRepo.SetOverride(ctx, inv.ID); err != nil {
			return err
		}
		inv.IsOverride = true

		// Los productos eliminados después de la venta quedan sin referencia y no se reponen.
		var ids []string
		for _, it := range inv.Items {
			if it.ItemID != "" {
				ids = append(ids, it.ItemID)
			}
		}
		products, err := lockExistingProducts(ctx, productRepo, companyID, ids)
		if err != nil {
			return err
		}
		for _, it := range inv.Items {
			if p, ok := products[it.ItemID]; ok {
				p.TotalInShops += it.Quantity
			}
		}
		for _, p := range products {
			if err := productRepo.UpdateQuantities(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.counter.Inc(EventInvoiceOverridden)
	uc.stats.Invalidate(ctx, companyID)
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó la factura %d", inv.InvoiceNumber))
	return InvoiceToResponse(inv), nil
}

// UpdatePaymentMethods reemplaza los medios de pago; opcionalmente cambia datáfono y moneda.
func (uc *InvoiceUseCase) UpdatePaymentMethods(ctx context.Context, companyID, actorID, invoiceID string, in dto.UpdatePaymentMethodsRequest) (*dto.InvoiceResponse, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("invoice_id es obligatorio: %w", domain.ErrInvalidInput)
	}
	if len(in.PaymentMethods) == 0 {
		return nil, domain.ErrPaymentMethodsRequired
	}
	for _, pm := range in.PaymentMethods {
		if pm.Name == "" || pm.PaidAmount == nil || pm.BackAmount == nil || pm.ReceivedAmount == nil {
			return nil, domain.ErrPaymentMethodIncomplete
		}
		if !entity.ValidPaymentMethod(pm.Name) {
			return nil, fmt.Errorf("medio de pago %q no válido: %w", pm.Name, domain.ErrInvalidInput)
		}
	}
	if in.PaymentTerminalID != nil && *in.PaymentTerminalID != "" {
		if err := uc.checkReferences(ctx, companyID, "", nil, in.PaymentTerminalID); err != nil {
			return nil, err
		}
	}

	var inv *entity.Invoice
	var oldNames []string
	err := uc.tx.RunBilling(ctx, func(
		_ repository.DianResolutionRepository,
		_ repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		for _, pm := range inv.PaymentMethods {
			oldNames = append(oldNames, pm.Name)
		}
		if err := invoiceRepo.DeletePaymentMethods(ctx, inv.ID); err != nil {
			return err
		}
		methods, err := insertPaymentMethods(ctx, invoiceRepo, inv.ID, in.PaymentMethods)
		if err != nil {
			return err
		}
		inv.PaymentMethods = methods
		if in.PaymentTerminalID == nil && in.IsDollar == nil {
			return nil
		}
		if in.PaymentTerminalID != nil {
			inv.PaymentTerminalID = optional(in.PaymentTerminalID)
		}
		if in.IsDollar != nil {
			inv.IsDollar = *in.IsDollar
		}
		return invoiceRepo.UpdateHeader(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	newNames := make([]string, 0, len(inv.PaymentMethods))
	for _, pm := range inv.PaymentMethods {
		newNames = append(newNames, pm.Name)
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó los métodos de pago '[%s]' a '[%s]'",
		strings.Join(oldNames, ", "), strings.Join(newNames, ", ")))
	return InvoiceToResponse(inv), nil
}

// Get factura completa por id.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return InvoiceToResponse(inv), nil
}

// GetByNumber factura completa por número (invoice painter).
func (uc *InvoiceUseCase) GetByNumber(ctx context.Context, companyID string, number int64) (*dto.InvoiceResponse, error) {
	if number <= 0 {
		return nil, domain.ErrInvoiceNumberRequired
	}
	inv, err := uc.invoices.GetByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return InvoiceToResponse(inv), nil
}

// List facturas con ítems y medios de pago.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.InvoiceResponse], error) {
	f := usecase.ListFilter(companyID, q)
	rows, count, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return usecase.ListResponse(f, rows, count, func(inv *entity.Invoice) dto.InvoiceResponse {
		return *InvoiceToResponse(inv)
	}), nil
}

// SimpleList facturas sin detalle, con totales, de la más reciente a la más antigua.
func (uc *InvoiceUseCase) SimpleList(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.InvoiceSimpleResponse], error) {
	f := usecase.ListFilter(companyID, q)
	rows, count, err := uc.invoices.SimpleList(ctx, f)
	if err != nil {
		return nil, err
	}
	return usecase.ListResponse(f, rows, count, func(s *repository.InvoiceSummary) dto.InvoiceSimpleResponse {
		return dto.InvoiceSimpleResponse{
			ID:              s.ID,
			InvoiceNumber:   s.InvoiceNumber,
			IsDollar:        s.IsDollar,
			IsOverride:      s.IsOverride,
			SaleBy:          s.SaleByFullname,
			Customer:        s.CustomerName,
			DianResolution:  s.ResolutionNumber,
			PaymentTerminal: s.PaymentTerminalName,
			TotalSum:        s.TotalSum,
			TotalSumUSD:     s.TotalSumUSD,
			CreatedAt:       s.CreatedAt,
		}
	}), nil
}

// Delete elimina la factura con sus ítems y pagos. No repone stock: para eso está la anulación.
func (uc *InvoiceUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	inv, err := uc.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrInvoiceNotFound
	}
	if err := uc.invoices.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.stats.Invalidate(ctx, companyID)
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó la factura %d", inv.InvoiceNumber))
	return nil
}

// Receipt genera el PDF imprimible de la factura.
func (uc *InvoiceUseCase) Receipt(ctx context.Context, companyID, id string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrInvoiceNotFound
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrCompanyNotFound
	}
	r := Receipt{Invoice: inv, Company: company}
	if inv.DianResolutionID != "" {
		if r.Resolution, err = uc.resolutions.GetByID(ctx, companyID, inv.DianResolutionID); err != nil {
			return nil, "", err
		}
	}
	if inv.CustomerID != nil {
		if r.Customer, err = uc.customers.GetByID(ctx, companyID, *inv.CustomerID); err != nil {
			return nil, "", err
		}
	}
	if inv.PaymentTerminalID != nil {
		t, err := uc.terminals.GetByID(ctx, companyID, *inv.PaymentTerminalID)
		if err != nil {
			return nil, "", err
		}
		if t != nil {
			r.Terminal = t.Name
		}
	}
	if inv.SaleByID != "" {
		u, err := uc.users.GetByID(ctx, inv.SaleByID)
		if err != nil {
			return nil, "", err
		}
		if u != nil {
			r.SaleBy = u.Fullname
		}
	}
	pdf, err := uc.receipts.GenerateReceipt(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("generar recibo: %w", err)
	}
	return pdf, fmt.Sprintf("factura_%d.pdf", inv.InvoiceNumber), nil
}

// checkReferences valida que vendedor, cliente y datáfono pertenezcan a la empresa.
func (uc *InvoiceUseCase) checkReferences(ctx context.Context, companyID, saleBy string, customerID, terminalID *string) error {
	if saleBy != "" {
		u, err := uc.users.GetByID(ctx, saleBy)
		if err != nil {
			return err
		}
		if u == nil || u.CompanyID != companyID {
			return domain.ErrUserNotFound
		}
	}
	if id := optional(customerID); id != nil {
		c, err := uc.customers.GetByID(ctx, companyID, *id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("Cliente no encontrado")
		}
	}
	if id := optional(terminalID); id != nil {
		t, err := uc.terminals.GetByID(ctx, companyID, *id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NotFound("Datafono no encontrado")
		}
	}
	return nil
}

// lockProducts bloquea los productos en orden ascendente de id para evitar interbloqueos
// entre transacciones que toquen los mismos productos. Todos deben existir.
func lockProducts(ctx context.Context, repo repository.ProductRepository, companyID string, ids []string) (map[string]*entity.Product, error) {
	products, err := lockExistingProducts(ctx, repo, companyID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, domain.NotFound(fmt.Sprintf("Producto %s no encontrado", id))
		}
	}
	return products, nil
}

func lockExistingProducts(ctx context.Context, repo repository.ProductRepository, companyID string, ids []string) (map[string]*entity.Product, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Strings(unique)
	products := make(map[string]*entity.Product, len(unique))
	for _, id := range unique {
		p, err := repo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[id] = p
		}
	}
	return products, nil
}

func insertPaymentMethods(ctx context.Context, repo repository.InvoiceRepository, invoiceID string, in []dto.PaymentMethodRequest) ([]entity.PaymentMethod, error) {
	out := make([]entity.PaymentMethod, 0, len(in))
	for _, req := range in {
		pm := entity.PaymentMethod{
			ID:              uuid.New().String(),
			InvoiceID:       invoiceID,
			Name:            req.Name,
			PaidAmount:      amountOrZero(req.PaidAmount),
			BackAmount:      amountOrZero(req.BackAmount),
			ReceivedAmount:  amountOrZero(req.ReceivedAmount),
			TransactionCode: req.TransactionCode,
		}
		if err := repo.CreatePaymentMethod(ctx, &pm); err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	return out, nil
}

func itemIDs(items []dto.InvoiceItemRequest) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	return ids
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func optional(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

// InvoiceToResponse convierte la factura a DTO.
func InvoiceToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		DianResolutionID:  inv.DianResolutionID,
		PaymentTerminalID: inv.PaymentTerminalID,
		CustomerID:        inv.CustomerID,
		SaleByID:          inv.SaleByID,
		CreatedByID:       inv.CreatedByID,
		IsDollar:          inv.IsDollar,
		IsOverride:        inv.IsOverride,
		InvoiceItems:      make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		PaymentMethods:    make([]dto.PaymentMethodResponse, 0, len(inv.PaymentMethods)),
		CreatedAt:         inv.CreatedAt,
	}
	for _, it := range inv.Items {
		out.InvoiceItems = append(out.InvoiceItems, dto.InvoiceItemResponse{
			ID:                it.ID,
			ItemID:            it.ItemID,
			ItemName:          it.ItemName,
			ItemCode:          it.ItemCode,
			Quantity:          it.Quantity,
			Amount:            it.Amount,
			UsdAmount:         it.UsdAmount,
			Discount:          it.Discount,
			OriginalAmount:    it.OriginalAmount,
			OriginalUsdAmount: it.OriginalUsdAmount,
			IsGift:            it.IsGift,
		})
	}
	for _, pm := range inv.PaymentMethods {
		out.PaymentMethods = append(out.PaymentMethods, dto.PaymentMethodResponse{
			ID:              pm.ID,
			Name:            pm.Name,
			PaidAmount:      pm.PaidAmount,
			BackAmount:      pm.BackAmount,
			ReceivedAmount:  pm.ReceivedAmount,
			TransactionCode: pm.TransactionCode,
		})
	}
	return out
}
