package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update actualiza datos de perfil: nombre, documento, rol y meta diaria.
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
	// List excluye superusuarios. Filtros: role, is_active.
	List(ctx context.Context, f ListFilter) ([]*entity.User, int, error)
}

// UserActivityRepository bitácora de acciones.
type UserActivityRepository interface {
	Create(ctx context.Context, a *entity.UserActivity) error
	// List ordena de la más reciente a la más antigua. Filtro: user_id.
	List(ctx context.Context, f ListFilter) ([]*entity.UserActivity, int, error)
}
