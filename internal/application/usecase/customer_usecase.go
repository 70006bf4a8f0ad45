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

// CustomerUseCase casos de uso de clientes (facturación).
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	activity *ActivityRecorder
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, activity *ActivityRecorder) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, activity: activity}
}

func (uc *CustomerUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, customerToResponse), nil
}

// Create crea un cliente; el tipo de documento por defecto es CC.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID, actorID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	c := &entity.Customer{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CreatedByID:  actorID,
		DocumentType: entity.DocumentCC,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applyCustomer(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó el cliente %s", c.Name))
	r := customerToResponse(c)
	return &r, nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyCustomer(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó el cliente %s (%s)", c.Name, Describe(in)))
	r := customerToResponse(c)
	return &r, nil
}

func (uc *CustomerUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	c, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó el cliente %s", c.Name))
	return nil
}

func (uc *CustomerUseCase) get(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	return c, nil
}

func applyCustomer(c *entity.Customer, in dto.CustomerRequest) error {
	setString(&c.DocumentID, in.DocumentID)
	setString(&c.DocumentType, in.DocumentType)
	setString(&c.Name, in.Name)
	setString(&c.Phone, in.Phone)
	setString(&c.Email, in.Email)
	setString(&c.Address, in.Address)
	setString(&c.City, in.City)
	if c.DocumentType == "" {
		c.DocumentType = entity.DocumentCC
	}
	if c.DocumentID == "" || c.Name == "" {
		return fmt.Errorf("documento y nombre son obligatorios: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidDocumentType(c.DocumentType) {
		return fmt.Errorf("tipo de documento %q no válido: %w", c.DocumentType, domain.ErrInvalidInput)
	}
	return nil
}

func customerToResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:           c.ID,
		DocumentID:   c.DocumentID,
		DocumentType: c.DocumentType,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		City:         c.City,
		CreatedAt:    c.CreatedAt,
	}
}
