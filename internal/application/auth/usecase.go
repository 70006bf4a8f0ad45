package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
)

// MinPasswordLength longitud mínima de una contraseña nueva.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, alta de usuarios y contraseña.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	activity    *usecase.ActivityRecorder
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, activity *usecase.ActivityRecorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, activity: activity, jwtCfg: jwtCfg}
}

// CreateUser crea un usuario en la empresa del administrador que lo solicita.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) CreateUser(ctx context.Context, companyID, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Role == "" {
		in.Role = entity.RoleSales
	}
	if in.DocumentType == "" {
		in.DocumentType = entity.DocumentCC
	}
	user, err := uc.newUser(ctx, companyID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Nuevo usuario creado %s", user.Email))
	return usecase.UserToResponse(user), nil
}

// CreateSuperuser crea un administrador con is_superuser (CLI de administración).
func (uc *AuthUseCase) CreateSuperuser(ctx context.Context, companyID, email, password, fullname string) (*dto.UserResponse, error) {
	if fullname == "" {
		fullname = email
	}
	user, err := uc.newUser(ctx, companyID, dto.CreateUserRequest{
		Fullname:     fullname,
		DocumentType: entity.DocumentCC,
		Email:        email,
		Password:     password,
		Role:         entity.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = true
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return usecase.UserToResponse(user), nil
}

func (uc *AuthUseCase) newUser(ctx context.Context, companyID string, in dto.CreateUserRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email inválido: %w", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("la contraseña debe tener al menos %d caracteres: %w", MinPasswordLength, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Fullname) == "" {
		return nil, fmt.Errorf("el nombre es obligatorio: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("rol %q no válido: %w", in.Role, domain.ErrInvalidInput)
	}
	if !entity.ValidUserDocumentType(in.DocumentType) {
		return nil, fmt.Errorf("tipo de documento %q no válido: %w", in.DocumentType, domain.ErrInvalidInput)
	}
	if in.DailyGoal.IsNegative() {
		return nil, fmt.Errorf("la meta diaria no puede ser negativa: %w", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Fullname:     strings.TrimSpace(in.Fullname),
		DocumentType: in.DocumentType,
		DocumentID:   strings.TrimSpace(in.DocumentID),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		DailyGoal:    in.DailyGoal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Login verifica email/password, actualiza last_login y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	uc.activity.Record(ctx, user.ID, "Nuevo inicio de sesión")
	return &dto.LoginResponse{Access: token, User: *usecase.UserToResponse(user)}, nil
}

// UpdatePassword cambia la contraseña del propio usuario validando la anterior.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, userID string, in dto.UpdatePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return fmt.Errorf("la contraseña actual no es correcta: %w", domain.ErrInvalidInput)
	}
	if len(in.NewPassword) < MinPasswordLength {
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres: %w", MinPasswordLength, domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	uc.activity.Record(ctx, user.ID, "El usuario actualizó su contraseña")
	return nil
}

// Me devuelve el usuario autenticado con su empresa.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := usecase.UserToResponse(user)
	if user.CompanyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, err
		}
		out.Company = usecase.CompanyToResponse(company)
	}
	return out, nil
}

// IsActive indica si el usuario existe y sigue activo. Lo usa el middleware en cada request.
func (uc *AuthUseCase) IsActive(ctx context.Context, userID string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsActive, nil
}
