package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// UserUseCase administración de usuarios de la empresa.
type UserUseCase struct {
	repo     repository.UserRepository
	activity *ActivityRecorder
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, activity *ActivityRecorder) *UserUseCase {
	return &UserUseCase{repo: repo, activity: activity}
}

// List usuarios no superusuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, func(u *entity.User) dto.UserResponse { return *UserToResponse(u) }), nil
}

// Update cambia nombre, documento, rol y meta diaria de un usuario de la empresa.
func (uc *UserUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	setString(&user.Fullname, in.Fullname)
	setString(&user.DocumentType, in.DocumentType)
	setString(&user.DocumentID, in.DocumentID)
	setString(&user.Role, in.Role)
	if in.DailyGoal != nil {
		user.DailyGoal = *in.DailyGoal
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("El usuario fué actualizado '%s'", Describe(in)))
	return UserToResponse(user), nil
}

// ToggleActive activa o desactiva un usuario de la empresa.
func (uc *UserUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := uc.repo.SetActive(ctx, user.ID, user.IsActive); err != nil {
		return nil, err
	}
	state := "desactivado"
	if user.IsActive {
		state = "activado"
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Usuario %s %s", user.Email, state))
	return UserToResponse(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, companyID, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func validateUser(u *entity.User) error {
	if u.Fullname == "" {
		return fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidRole(u.Role) {
		return fmt.Errorf("rol %q no válido: %w", u.Role, domain.ErrInvalidInput)
	}
	if u.DocumentType != "" && !entity.ValidUserDocumentType(u.DocumentType) {
		return fmt.Errorf("tipo de documento %q no válido: %w", u.DocumentType, domain.ErrInvalidInput)
	}
	if u.DailyGoal.IsNegative() {
		return fmt.Errorf("la meta diaria no puede ser negativa: %w", domain.ErrInvalidInput)
	}
	return nil
}

// UserToResponse convierte la entidad a DTO (sin password).
func UserToResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		Fullname:     u.Fullname,
		DocumentType: u.DocumentType,
		DocumentID:   u.DocumentID,
		Email:        u.Email,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
		DailyGoal:    u.DailyGoal,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

// Describe serializa la entrada para el texto de la bitácora.
func Describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
