package apptest

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ResolutionRepo fake de repository.DianResolutionRepository.
type ResolutionRepo struct{ s *Store }

func (s *Store) Resolutions() ResolutionRepo { return ResolutionRepo{s} }

func (r ResolutionRepo) Create(_ context.Context, res *entity.DianResolution) error {
	r.s.PutResolution(*res)
	return nil
}

func (r ResolutionRepo) GetByID(_ context.Context, companyID, id string) (*entity.DianResolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resolutions[id]
	if !ok || res.CompanyID != companyID {
		return nil, nil
	}
	return &res, nil
}

// Update escribe las mismas columnas que el adaptador de Postgres.
func (r ResolutionRepo) Update(_ context.Context, res *entity.DianResolution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.resolutions[res.ID]
	if !ok || cur.CompanyID != res.CompanyID {
		return nil
	}
	cur.DocumentNumber = res.DocumentNumber
	cur.FromDate, cur.ToDate = res.FromDate, res.ToDate
	cur.FromNumber, cur.ToNumber = res.FromNumber, res.ToNumber
	cur.Active = res.Active
	if res.CurrentNumber > cur.CurrentNumber {
		cur.CurrentNumber = res.CurrentNumber
	}
	r.s.resolutions[res.ID] = cur
	return nil
}

func (r ResolutionRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.resolutions, id)
	return nil
}

func (r ResolutionRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.resolutions[id]; ok {
		res.Active = active
		r.s.resolutions[id] = res
	}
	return nil
}

func (r ResolutionRepo) GetActive(_ context.Context, companyID string) (*entity.DianResolution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.resolutions {
		if res.CompanyID == companyID && res.Active {
			return &res, nil
		}
	}
	return nil, nil
}

func (r ResolutionRepo) GetActiveForUpdate(ctx context.Context, companyID string) (*entity.DianResolution, error) {
	return r.GetActive(ctx, companyID)
}

func (r ResolutionRepo) UpdateCurrentNumber(_ context.Context, id string, current int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.resolutions[id]; ok {
		res.CurrentNumber = current
		r.s.resolutions[id] = res
	}
	return nil
}

func (r ResolutionRepo) DeactivateExpired(_ context.Context, companyID string, today time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, res := range r.s.resolutions {
		if res.CompanyID == companyID && res.Active && res.ExpiredAt(today) {
			res.Active = false
			r.s.resolutions[id] = res
		}
	}
	return nil
}

func (r ResolutionRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.DianResolution, int, error) {
	r.s.mu.Lock()
	var rows []*entity.DianResolution
	for _, res := range r.s.resolutions {
		if res.CompanyID == f.CompanyID && matches(f.Keyword, res.DocumentNumber) {
			res := res
			rows = append(rows, &res)
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(res *entity.DianResolution) time.Time { return res.CreatedAt })
	return out, count, nil
}

// InvoiceRepo fake de repository.InvoiceRepository.
type InvoiceRepo struct{ s *Store }

func (s *Store) Invoices() InvoiceRepo { return InvoiceRepo{s} }

func (r InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.CompanyID == inv.CompanyID && existing.InvoiceNumber == inv.InvoiceNumber {
			return errDuplicate
		}
	}
	head := *inv
	head.Items, head.PaymentMethods = nil, nil
	r.s.invoices[inv.ID] = head
	return nil
}

func (r InvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv := r.s.invoices[item.InvoiceID]
	inv.Items = append(inv.Items, *item)
	r.s.invoices[item.InvoiceID] = inv
	return nil
}

func (r InvoiceRepo) CreatePaymentMethod(_ context.Context, pm *entity.PaymentMethod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv := r.s.invoices[pm.InvoiceID]
	inv.PaymentMethods = append(inv.PaymentMethods, *pm)
	r.s.invoices[pm.InvoiceID] = inv
	return nil
}

func (r InvoiceRepo) DeletePaymentMethods(_ context.Context, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv := r.s.invoices[invoiceID]
	inv.PaymentMethods = nil
	r.s.invoices[invoiceID] = inv
	return nil
}

func (r InvoiceRepo) GetByID(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

func (r InvoiceRepo) GetByNumber(_ context.Context, companyID string, number int64) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && inv.InvoiceNumber == number {
			inv = cloneInvoice(inv)
			return &inv, nil
		}
	}
	return nil, nil
}

func (r InvoiceRepo) GetByNumberForUpdate(ctx context.Context, companyID string, number int64) (*entity.Invoice, error) {
	return r.GetByNumber(ctx, companyID, number)
}

func (r InvoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r InvoiceRepo) SetOverride(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv := r.s.invoices[id]
	inv.IsOverride = true
	r.s.invoices[id] = inv
	return nil
}

func (r InvoiceRepo) UpdateHeader(_ context.Context, in *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv := r.s.invoices[in.ID]
	inv.PaymentTerminalID, inv.IsDollar = in.PaymentTerminalID, in.IsDollar
	r.s.invoices[in.ID] = inv
	return nil
}

func (r InvoiceRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	return nil
}

func (r InvoiceRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.Lock()
	var rows []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == f.CompanyID {
			inv := cloneInvoice(inv)
			rows = append(rows, &inv)
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(inv *entity.Invoice) time.Time { return inv.CreatedAt })
	return out, count, nil
}

func (r InvoiceRepo) SimpleList(ctx context.Context, f repository.ListFilter) ([]*repository.InvoiceSummary, int, error) {
	rows, count, err := r.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*repository.InvoiceSummary, 0, len(rows))
	for _, inv := range rows {
		cop, usd := inv.TotalSum()
		out = append(out, &repository.InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			IsDollar:      inv.IsDollar,
			IsOverride:    inv.IsOverride,
			TotalSum:      cop,
			TotalSumUSD:   usd,
			CreatedAt:     inv.CreatedAt,
		})
	}
	return out, count, nil
}

// InvoiceCount número de facturas guardadas.
func (s *Store) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}
