package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// GoalUseCase metas de ventas (una por tipo y empresa).
type GoalUseCase struct {
	repo     repository.GoalRepository
	activity *ActivityRecorder
}

// NewGoalUseCase construye el caso de uso.
func NewGoalUseCase(repo repository.GoalRepository, activity *ActivityRecorder) *GoalUseCase {
	return &GoalUseCase{repo: repo, activity: activity}
}

func (uc *GoalUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.GoalResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, goalToResponse), nil
}

func (uc *GoalUseCase) Create(ctx context.Context, companyID, actorID string, in dto.GoalRequest) (*dto.GoalResponse, error) {
	g := &entity.Goal{ID: uuid.New().String(), CompanyID: companyID}
	if err := applyGoal(g, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó la meta %s de %s", entity.GoalLabels[g.GoalType], g.GoalValue))
	r := goalToResponse(g)
	return &r, nil
}

func (uc *GoalUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.GoalRequest) (*dto.GoalResponse, error) {
	g, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	old := g.GoalValue
	if err := applyGoal(g, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó la meta %s de %s a %s", entity.GoalLabels[g.GoalType], old, g.GoalValue))
	r := goalToResponse(g)
	return &r, nil
}

func (uc *GoalUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	g, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó la meta %s de %s", entity.GoalLabels[g.GoalType], g.GoalValue))
	return nil
}

func (uc *GoalUseCase) get(ctx context.Context, companyID, id string) (*entity.Goal, error) {
	g, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NotFound("Meta no encontrada")
	}
	return g, nil
}

func applyGoal(g *entity.Goal, in dto.GoalRequest) error {
	setString(&g.GoalType, in.GoalType)
	if in.GoalValue != nil {
		g.GoalValue = *in.GoalValue
	}
	if _, ok := entity.GoalLabels[g.GoalType]; !ok {
		return fmt.Errorf("tipo de meta %q no válido: %w", g.GoalType, domain.ErrInvalidInput)
	}
	if g.GoalValue.IsNegative() {
		return fmt.Errorf("el valor de la meta no puede ser negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

func goalToResponse(g *entity.Goal) dto.GoalResponse {
	return dto.GoalResponse{ID: g.ID, GoalType: g.GoalType, GoalValue: g.GoalValue}
}
