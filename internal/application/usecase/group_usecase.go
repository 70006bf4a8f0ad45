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

// InventoryGroupUseCase casos de uso de categorías de productos.
type InventoryGroupUseCase struct {
	repo     repository.InventoryGroupRepository
	tx       CatalogTxRunner
	activity *ActivityRecorder
}

// NewInventoryGroupUseCase construye el caso de uso.
func NewInventoryGroupUseCase(repo repository.InventoryGroupRepository, tx CatalogTxRunner, activity *ActivityRecorder) *InventoryGroupUseCase {
	return &InventoryGroupUseCase{repo: repo, tx: tx, activity: activity}
}

// List categorías con su padre y el número de productos.
func (uc *InventoryGroupUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.InventoryGroupResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, func(g *entity.InventoryGroupView) dto.InventoryGroupResponse {
		r := groupToResponse(&g.InventoryGroup)
		r.BelongsTo = g.ParentName
		r.TotalItems = g.TotalItems
		r.CreatedBy = g.CreatedBy
		return r
	}), nil
}

// Create crea una categoría, opcionalmente bajo un padre de la misma empresa.
func (uc *InventoryGroupUseCase) Create(ctx context.Context, companyID, actorID string, in dto.InventoryGroupRequest) (*dto.InventoryGroupResponse, error) {
	now := time.Now()
	g := &entity.InventoryGroup{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.apply(ctx, g, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó la categoría %s", g.Name))
	r := groupToResponse(g)
	return &r, nil
}

// Update actualización parcial. Una categoría no puede ser su propio padre.
func (uc *InventoryGroupUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.InventoryGroupRequest) (*dto.InventoryGroupResponse, error) {
	g, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, g, in); err != nil {
		return nil, err
	}
	g.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó la categoría %s (%s)", g.Name, Describe(in)))
	r := groupToResponse(g)
	return &r, nil
}

// Delete elimina la categoría; las subcategorías quedan sin padre.
func (uc *InventoryGroupUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	g, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó la categoría %s", g.Name))
	return nil
}

// ToggleActive invierte el estado. Falla si el padre está inactivo; al desactivar
// también se desactivan las subcategorías directas, en la misma transacción.
func (uc *InventoryGroupUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.InventoryGroupResponse, error) {
	g, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if g.BelongsToID != nil {
		parent, err := uc.repo.GetByID(ctx, companyID, *g.BelongsToID)
		if err != nil {
			return nil, err
		}
		if parent != nil && !parent.Active {
			return nil, domain.ErrParentGroupInactive
		}
	}
	g.Active = !g.Active
	err = uc.tx.RunCatalog(ctx, func(groupRepo repository.InventoryGroupRepository, _ repository.ProductRepository) error {
		if err := groupRepo.SetActive(ctx, companyID, g.ID, g.Active); err != nil {
			return err
		}
		if !g.Active {
			return groupRepo.DeactivateChildren(ctx, companyID, g.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("%s la categoría %s", toggleVerb(g.Active), g.Name))
	r := groupToResponse(g)
	return &r, nil
}

func (uc *InventoryGroupUseCase) get(ctx context.Context, companyID, id string) (*entity.InventoryGroup, error) {
	g, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NotFound("Categoría no encontrada")
	}
	return g, nil
}

// apply copia los campos presentes y valida nombre y padre.
func (uc *InventoryGroupUseCase) apply(ctx context.Context, g *entity.InventoryGroup, in dto.InventoryGroupRequest) error {
	setString(&g.Name, in.Name)
	setBool(&g.Active, in.Active)
	if in.BelongsToID != nil {
		if *in.BelongsToID == "" {
			g.BelongsToID = nil
		} else {
			parentID := *in.BelongsToID
			g.BelongsToID = &parentID
		}
	}
	if g.Name == "" {
		return fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	if g.BelongsToID == nil {
		return nil
	}
	if *g.BelongsToID == g.ID {
		return domain.ErrSelfParentGroup
	}
	parent, err := uc.repo.GetByID(ctx, g.CompanyID, *g.BelongsToID)
	if err != nil {
		return err
	}
	if parent == nil {
		return domain.NotFound("Categoría padre no encontrada")
	}
	return nil
}

func groupToResponse(g *entity.InventoryGroup) dto.InventoryGroupResponse {
	return dto.InventoryGroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		BelongsToID: g.BelongsToID,
		Active:      g.Active,
		CreatedAt:   g.CreatedAt,
	}
}
