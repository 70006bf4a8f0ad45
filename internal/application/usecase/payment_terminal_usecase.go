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

// PaymentTerminalUseCase casos de uso de datáfonos.
type PaymentTerminalUseCase struct {
	repo     repository.PaymentTerminalRepository
	activity *ActivityRecorder
}

// NewPaymentTerminalUseCase construye el caso de uso.
func NewPaymentTerminalUseCase(repo repository.PaymentTerminalRepository, activity *ActivityRecorder) *PaymentTerminalUseCase {
	return &PaymentTerminalUseCase{repo: repo, activity: activity}
}

func (uc *PaymentTerminalUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.PaymentTerminalResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, terminalToResponse), nil
}

func (uc *PaymentTerminalUseCase) Create(ctx context.Context, companyID, actorID string, in dto.PaymentTerminalRequest) (*dto.PaymentTerminalResponse, error) {
	now := time.Now()
	t := &entity.PaymentTerminal{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := applyTerminal(t, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó el datafono %s", t.Name))
	r := terminalToResponse(t)
	return &r, nil
}

func (uc *PaymentTerminalUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.PaymentTerminalRequest) (*dto.PaymentTerminalResponse, error) {
	t, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyTerminal(t, in); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó el datafono %s (%s)", t.Name, Describe(in)))
	r := terminalToResponse(t)
	return &r, nil
}

func (uc *PaymentTerminalUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	t, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó el datafono %s", t.Name))
	return nil
}

func (uc *PaymentTerminalUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.PaymentTerminalResponse, error) {
	t, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	t.Active = !t.Active
	if err := uc.repo.SetActive(ctx, companyID, id, t.Active); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("%s el datafono %s", toggleVerb(t.Active), t.Name))
	r := terminalToResponse(t)
	return &r, nil
}

func (uc *PaymentTerminalUseCase) get(ctx context.Context, companyID, id string) (*entity.PaymentTerminal, error) {
	t, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("Datafono no encontrado")
	}
	return t, nil
}

func applyTerminal(t *entity.PaymentTerminal, in dto.PaymentTerminalRequest) error {
	setString(&t.AccountCode, in.AccountCode)
	setString(&t.Name, in.Name)
	setBool(&t.IsWireless, in.IsWireless)
	setBool(&t.Active, in.Active)
	if t.Name == "" {
		return fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	return nil
}

func terminalToResponse(t *entity.PaymentTerminal) dto.PaymentTerminalResponse {
	return dto.PaymentTerminalResponse{
		ID:          t.ID,
		AccountCode: t.AccountCode,
		Name:        t.Name,
		IsWireless:  t.IsWireless,
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
	}
}
