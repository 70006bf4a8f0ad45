package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	users    repository.UserRepository
	activity *ActivityRecorder
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, users repository.UserRepository, activity *ActivityRecorder) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, users: users, activity: activity}
}

// Create crea una nueva empresa (lo usa la CLI de administración). (name, nit) es único.
func (uc *CompanyUseCase) Create(ctx context.Context, name, nit string) (*dto.CompanyResponse, error) {
	name, nit = strings.TrimSpace(name), strings.TrimSpace(nit)
	if name == "" || nit == "" {
		return nil, fmt.Errorf("nombre y nit son obligatorios: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		NIT:       nit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return CompanyToResponse(company), nil
}

// Get devuelve la empresa del usuario.
func (uc *CompanyUseCase) Get(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return CompanyToResponse(company), nil
}

// Update actualización parcial; solo un superusuario puede modificar empresas.
func (uc *CompanyUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	actor, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsSuperuser {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	setString(&company.Name, in.Name)
	setString(&company.DianToken, in.DianToken)
	setString(&company.NIT, in.NIT)
	setString(&company.ShortName, in.ShortName)
	setString(&company.Phone, in.Phone)
	setString(&company.Logo, in.Logo)
	if strings.TrimSpace(company.Name) == "" || strings.TrimSpace(company.NIT) == "" {
		return nil, fmt.Errorf("nombre y nit son obligatorios: %w", domain.ErrInvalidInput)
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Empresa '%s' Actualizada", company.Name))
	return CompanyToResponse(company), nil
}

// CompanyToResponse convierte la entidad a DTO.
func CompanyToResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		DianToken: c.DianToken,
		NIT:       c.NIT,
		ShortName: c.ShortName,
		Phone:     c.Phone,
		Logo:      c.Logo,
		CreatedAt: c.CreatedAt,
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
