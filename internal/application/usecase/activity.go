package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// ActivityRecorder escribe la bitácora de acciones de los usuarios.
// Un fallo al registrar no afecta la operación principal: solo se deja en el log.
type ActivityRecorder struct {
	users      repository.UserRepository
	activities repository.UserActivityRepository
	log        *logger.Logger
}

// NewActivityRecorder construye el registrador de actividades.
func NewActivityRecorder(users repository.UserRepository, activities repository.UserActivityRepository, log *logger.Logger) *ActivityRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityRecorder{users: users, activities: activities, log: log.Component("activity")}
}

// Record guarda action a nombre de userID con su email y nombre actuales.
func (r *ActivityRecorder) Record(ctx context.Context, userID, action string) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		r.log.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("no se pudo cargar el usuario de la actividad")
		return
	}
	a := &entity.UserActivity{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		Fullname:  user.Fullname,
		Action:    action,
		CreatedAt: time.Now(),
	}
	if err := r.activities.Create(ctx, a); err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Str("action", action).Msg("no se pudo registrar la actividad")
	}
}

// List bitácora de la empresa, de la más reciente a la más antigua.
func (r *ActivityRecorder) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.UserActivityResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := r.activities.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, func(a *entity.UserActivity) dto.UserActivityResponse {
		return dto.UserActivityResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			Email:     a.Email,
			Fullname:  a.Fullname,
			Action:    a.Action,
			CreatedAt: a.CreatedAt,
		}
	}), nil
}
