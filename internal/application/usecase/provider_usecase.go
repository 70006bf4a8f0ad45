package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ProviderUseCase casos de uso de proveedores.
type ProviderUseCase struct {
	repo     repository.ProviderRepository
	activity *ActivityRecorder
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository, activity *ActivityRecorder) *ProviderUseCase {
	return &ProviderUseCase{repo: repo, activity: activity}
}

func (uc *ProviderUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.ProviderResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, providerToResponse), nil
}

func (uc *ProviderUseCase) Create(ctx context.Context, companyID, actorID string, in dto.ProviderRequest) (*dto.ProviderResponse, error) {
	now := time.Now()
	p := &entity.Provider{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applyProvider(p, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó el proveedor %s", p.Name))
	r := providerToResponse(p)
	return &r, nil
}

func (uc *ProviderUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.ProviderRequest) (*dto.ProviderResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyProvider(p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó el proveedor %s (%s)", p.Name, Describe(in)))
	r := providerToResponse(p)
	return &r, nil
}

func (uc *ProviderUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó el proveedor %s", p.Name))
	return nil
}

func (uc *ProviderUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.ProviderResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	p.Active = !p.Active
	if err := uc.repo.SetActive(ctx, companyID, id, p.Active); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("%s el proveedor %s", toggleVerb(p.Active), p.Name))
	r := providerToResponse(p)
	return &r, nil
}

func (uc *ProviderUseCase) get(ctx context.Context, companyID, id string) (*entity.Provider, error) {
	p, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("Proveedor no encontrado")
	}
	return p, nil
}

func applyProvider(p *entity.Provider, in dto.ProviderRequest) error {
	setString(&p.Name, in.Name)
	setString(&p.LegalName, in.LegalName)
	setString(&p.NIT, in.NIT)
	setString(&p.Phone, in.Phone)
	setString(&p.Email, in.Email)
	setString(&p.BankAccount, in.BankAccount)
	setString(&p.AccountType, in.AccountType)
	setBool(&p.Active, in.Active)
	if p.Name == "" {
		return fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	return nil
}

func providerToResponse(p *entity.Provider) dto.ProviderResponse {
	return dto.ProviderResponse{
		ID:          p.ID,
		Name:        p.Name,
		LegalName:   p.LegalName,
		NIT:         p.NIT,
		Phone:       p.Phone,
		Email:       p.Email,
		BankAccount: p.BankAccount,
		AccountType: p.AccountType,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

func toggleVerb(active bool) string {
	if active {
		return "Activó"
	}
	return "Desactivó"
}
