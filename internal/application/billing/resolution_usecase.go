package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ResolutionUseCase administra las resoluciones de numeración DIAN.
// Invariante: como máximo una resolución activa por empresa.
type ResolutionUseCase struct {
	repo     repository.DianResolutionRepository
	activity *usecase.ActivityRecorder
	now      func() time.Time
}

// NewResolutionUseCase construye el caso de uso.
func NewResolutionUseCase(repo repository.DianResolutionRepository, activity *usecase.ActivityRecorder) *ResolutionUseCase {
	return &ResolutionUseCase{repo: repo, activity: activity, now: time.Now}
}

// List desactiva primero la resolución activa vencida y luego lista.
func (uc *ResolutionUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.DianResolutionResponse], error) {
	if err := uc.repo.DeactivateExpired(ctx, companyID, uc.now()); err != nil {
		return nil, err
	}
	f := usecase.ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return usecase.ListResponse(f, rows, count, resolutionToResponse), nil
}

func (uc *ResolutionUseCase) Create(ctx context.Context, companyID, actorID string, in dto.DianResolutionRequest) (*dto.DianResolutionResponse, error) {
	r := &entity.DianResolution{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		Active:      true,
		CreatedAt:   uc.now(),
	}
	if err := applyResolution(r, in); err != nil {
		return nil, err
	}
	r.CurrentNumber = r.FromNumber
	if r.Active {
		if err := uc.ensureNoOtherActive(ctx, companyID, r.ID); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó la resolución '%s' válida desde '%s' hasta '%s'",
		r.DocumentNumber, r.FromDate.Format(dateLayout), r.ToDate.Format(dateLayout)))
	out := resolutionToResponse(r)
	return &out, nil
}

// Update actualización parcial. Activarla estando otra activa falla.
// Si from_number sube por encima del consecutivo, el consecutivo arranca en from_number;
// to_number no puede quedar por debajo del último número emitido.
func (uc *ResolutionUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.DianResolutionRequest) (*dto.DianResolutionResponse, error) {
	r, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyResolution(r, in); err != nil {
		return nil, err
	}
	if r.CurrentNumber < r.FromNumber {
		r.CurrentNumber = r.FromNumber
	}
	if r.ToNumber < r.CurrentNumber {
		return nil, domain.ErrInvalidResolutionRange
	}
	if r.Active {
		if err := uc.ensureNoOtherActive(ctx, companyID, r.ID); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	// current_number pudo avanzar con una factura concurrente.
	if r, err = uc.get(ctx, companyID, id); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó la resolución '%s' (%s)", r.DocumentNumber, usecase.Describe(in)))
	out := resolutionToResponse(r)
	return &out, nil
}

func (uc *ResolutionUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	r, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó la resolución '%s'", r.DocumentNumber))
	return nil
}

// ToggleActive activa o desactiva. No se puede activar una vencida ni si ya hay otra activa.
func (uc *ResolutionUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.DianResolutionResponse, error) {
	r, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !r.Active {
		if err := uc.ensureNoOtherActive(ctx, companyID, r.ID); err != nil {
			return nil, err
		}
		if r.ExpiredAt(uc.now()) {
			return nil, domain.ErrResolutionExpired
		}
	}
	r.Active = !r.Active
	if err := uc.repo.SetActive(ctx, companyID, id, r.Active); err != nil {
		return nil, err
	}
	verb := "Desactivó"
	if r.Active {
		verb = "Activó"
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("%s la resolución '%s'", verb, r.DocumentNumber))
	out := resolutionToResponse(r)
	return &out, nil
}

func (uc *ResolutionUseCase) ensureNoOtherActive(ctx context.Context, companyID, id string) error {
	active, err := uc.repo.GetActive(ctx, companyID)
	if err != nil {
		return err
	}
	if active != nil && active.ID != id {
		return domain.ErrActiveResolutionExists
	}
	return nil
}

func (uc *ResolutionUseCase) get(ctx context.Context, companyID, id string) (*entity.DianResolution, error) {
	r, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NotFound("Resolución DIAN no encontrada")
	}
	return r, nil
}

func applyResolution(r *entity.DianResolution, in dto.DianResolutionRequest) error {
	if in.DocumentNumber != nil {
		r.DocumentNumber = strings.TrimSpace(*in.DocumentNumber)
	}
	if in.FromDate != nil {
		d, err := time.Parse(dateLayout, *in.FromDate)
		if err != nil {
			return fmt.Errorf("from_date debe tener formato YYYY-MM-DD: %w", domain.ErrInvalidInput)
		}
		r.FromDate = d
	}
	if in.ToDate != nil {
		d, err := time.Parse(dateLayout, *in.ToDate)
		if err != nil {
			return fmt.Errorf("to_date debe tener formato YYYY-MM-DD: %w", domain.ErrInvalidInput)
		}
		r.ToDate = d
	}
	if in.FromNumber != nil {
		r.FromNumber = *in.FromNumber
	}
	if in.ToNumber != nil {
		r.ToNumber = *in.ToNumber
	}
	if in.Active != nil {
		r.Active = *in.Active
	}
	if r.DocumentNumber == "" || r.FromDate.IsZero() || r.ToDate.IsZero() {
		return fmt.Errorf("número de documento y fechas son obligatorios: %w", domain.ErrInvalidInput)
	}
	if r.FromNumber < 0 || r.FromNumber > r.ToNumber || r.FromDate.After(r.ToDate) {
		return domain.ErrInvalidResolutionRange
	}
	return nil
}

func resolutionToResponse(r *entity.DianResolution) dto.DianResolutionResponse {
	return dto.DianResolutionResponse{
		ID:             r.ID,
		DocumentNumber: r.DocumentNumber,
		FromDate:       r.FromDate.Format(dateLayout),
		ToDate:         r.ToDate.Format(dateLayout),
		FromNumber:     r.FromNumber,
		ToNumber:       r.ToNumber,
		CurrentNumber:  r.CurrentNumber,
		Active:         r.Active,
		CreatedAt:      r.CreatedAt,
	}
}
