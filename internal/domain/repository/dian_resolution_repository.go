package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// DianResolutionRepository define el puerto de persistencia para resoluciones DIAN.
type DianResolutionRepository interface {
	Create(ctx context.Context, r *entity.DianResolution) error
	GetByID(ctx context.Context, companyID, id string) (*entity.DianResolution, error)
	Update(ctx context.Context, r *entity.DianResolution) error
	Delete(ctx context.Context, companyID, id string) error
	SetActive(ctx context.Context, companyID, id string, active bool) error

	// GetActive devuelve la resolución activa de la empresa o nil, nil si no hay.
	GetActive(ctx context.Context, companyID string) (*entity.DianResolution, error)
	// GetActiveForUpdate igual que GetActive pero bloquea la fila. Serializa la numeración de facturas.
	GetActiveForUpdate(ctx context.Context, companyID string) (*entity.DianResolution, error)
	UpdateCurrentNumber(ctx context.Context, id string, current int64) error
	// DeactivateExpired desactiva la resolución activa si su fecha final es anterior a today.
	DeactivateExpired(ctx context.Context, companyID string, today time.Time) error

	List(ctx context.Context, f ListFilter) ([]*entity.DianResolution, int, error)
}
