package apptest

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// GroupRepo fake de repository.InventoryGroupRepository.
type GroupRepo struct{ s *Store }

func (s *Store) Groups() GroupRepo { return GroupRepo{s} }

func (r GroupRepo) Create(_ context.Context, g *entity.InventoryGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.groups {
		if existing.CompanyID == g.CompanyID && existing.Name == g.Name {
			return errDuplicate
		}
	}
	r.s.groups[g.ID] = *g
	return nil
}

func (r GroupRepo) GetByID(_ context.Context, companyID, id string) (*entity.InventoryGroup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok || g.CompanyID != companyID {
		return nil, nil
	}
	return &g, nil
}

func (r GroupRepo) Update(_ context.Context, g *entity.InventoryGroup) error {
	r.s.PutGroup(*g)
	return nil
}

func (r GroupRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.groups, id)
	return nil
}

func (r GroupRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.groups[id]; ok {
		g.Active = active
		r.s.groups[id] = g
	}
	return nil
}

func (r GroupRepo) DeactivateChildren(_ context.Context, companyID, parentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, g := range r.s.groups {
		if g.CompanyID == companyID && g.BelongsToID != nil && *g.BelongsToID == parentID {
			g.Active = false
			r.s.groups[id] = g
		}
	}
	return nil
}

func (r GroupRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.InventoryGroupView, int, error) {
	r.s.mu.Lock()
	var rows []*entity.InventoryGroupView
	for _, g := range r.s.groups {
		if g.CompanyID == f.CompanyID && matches(f.Keyword, g.Name) {
			rows = append(rows, &entity.InventoryGroupView{InventoryGroup: g})
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(g *entity.InventoryGroupView) time.Time { return g.CreatedAt })
	return out, count, nil
}

// ProviderRepo fake de repository.ProviderRepository.
type ProviderRepo struct{ s *Store }

func (s *Store) Providers() ProviderRepo { return ProviderRepo{s} }

func (r ProviderRepo) Create(_ context.Context, p *entity.Provider) error {
	r.s.PutProvider(*p)
	return nil
}

func (r ProviderRepo) GetByID(_ context.Context, companyID, id string) (*entity.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.providers[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r ProviderRepo) Update(_ context.Context, p *entity.Provider) error {
	r.s.PutProvider(*p)
	return nil
}

func (r ProviderRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.providers, id)
	return nil
}

func (r ProviderRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.providers[id]; ok {
		p.Active = active
		r.s.providers[id] = p
	}
	return nil
}

func (r ProviderRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Provider, int, error) {
	r.s.mu.Lock()
	var rows []*entity.Provider
	for _, p := range r.s.providers {
		if p.CompanyID == f.CompanyID && matches(f.Keyword, p.Name, p.LegalName, p.NIT) {
			p := p
			rows = append(rows, &p)
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(p *entity.Provider) time.Time { return p.CreatedAt })
	return out, count, nil
}

// ProductRepo fake de repository.ProductRepository.
type ProductRepo struct{ s *Store }

func (s *Store) Products() ProductRepo { return ProductRepo{s} }

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.CompanyID == p.CompanyID && existing.Code == p.Code {
			return errDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r ProductRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.PutProduct(*p)
	return nil
}

func (r ProductRepo) UpdateQuantities(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.products[p.ID]; ok {
		cur.TotalInShops, cur.TotalInStorage = p.TotalInShops, p.TotalInStorage
		r.s.products[p.ID] = cur
	}
	return nil
}

func (r ProductRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r ProductRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p.Active = active
		r.s.products[id] = p
	}
	return nil
}

func (r ProductRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.ProductView, int, error) {
	r.s.mu.Lock()
	var rows []*entity.ProductView
	for _, p := range r.s.products {
		if p.CompanyID == f.CompanyID && matches(f.Keyword, p.Code, p.Name) {
			rows = append(rows, &entity.ProductView{Product: p})
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(p *entity.ProductView) time.Time { return p.CreatedAt })
	return out, count, nil
}

// CustomerRepo fake de repository.CustomerRepository.
type CustomerRepo struct{ s *Store }

func (s *Store) Customers() CustomerRepo { return CustomerRepo{s} }

func (r CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.CompanyID == c.CompanyID && existing.DocumentID == c.DocumentID {
			return errDuplicate
		}
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r CustomerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	return &c, nil
}

func (r CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[c.ID] = *c
	return nil
}

func (r CustomerRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r CustomerRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	r.s.mu.Lock()
	var rows []*entity.Customer
	for _, c := range r.s.customers {
		if c.CompanyID == f.CompanyID && matches(f.Keyword, c.Name, c.DocumentID, c.Email) {
			c := c
			rows = append(rows, &c)
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(c *entity.Customer) time.Time { return c.CreatedAt })
	return out, count, nil
}

// TerminalRepo fake de repository.PaymentTerminalRepository.
type TerminalRepo struct{ s *Store }

func (s *Store) Terminals() TerminalRepo { return TerminalRepo{s} }

func (r TerminalRepo) Create(_ context.Context, t *entity.PaymentTerminal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.terminals[t.ID] = *t
	return nil
}

func (r TerminalRepo) GetByID(_ context.Context, companyID, id string) (*entity.PaymentTerminal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.terminals[id]
	if !ok || t.CompanyID != companyID {
		return nil, nil
	}
	return &t, nil
}

func (r TerminalRepo) Update(ctx context.Context, t *entity.PaymentTerminal) error {
	return r.Create(ctx, t)
}

func (r TerminalRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.terminals, id)
	return nil
}

func (r TerminalRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.terminals[id]; ok {
		t.Active = active
		r.s.terminals[id] = t
	}
	return nil
}

func (r TerminalRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.PaymentTerminal, int, error) {
	r.s.mu.Lock()
	var rows []*entity.PaymentTerminal
	for _, t := range r.s.terminals {
		if t.CompanyID == f.CompanyID && matches(f.Keyword, t.Name, t.AccountCode) {
			t := t
			rows = append(rows, &t)
		}
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(t *entity.PaymentTerminal) time.Time { return t.CreatedAt })
	return out, count, nil
}

// GoalRepo fake de repository.GoalRepository.
type GoalRepo struct{ s *Store }

func (s *Store) Goals() GoalRepo { return GoalRepo{s} }

func (r GoalRepo) Create(_ context.Context, g *entity.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.goals {
		if existing.CompanyID == g.CompanyID && existing.GoalType == g.GoalType {
			return errDuplicate
		}
	}
	r.s.goals[g.ID] = *g
	return nil
}

func (r GoalRepo) GetByID(_ context.Context, companyID, id string) (*entity.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.goals[id]
	if !ok || g.CompanyID != companyID {
		return nil, nil
	}
	return &g, nil
}

func (r GoalRepo) Update(_ context.Context, g *entity.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.goals[g.ID] = *g
	return nil
}

func (r GoalRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.goals, id)
	return nil
}

func (r GoalRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Goal, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []*entity.Goal
	for _, g := range r.s.goals {
		if g.CompanyID == f.CompanyID {
			g := g
			rows = append(rows, &g)
		}
	}
	return rows, len(rows), nil
}
