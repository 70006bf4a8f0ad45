package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *apptest.Store) {
	t.Helper()
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: "company-1", Name: "Guasá", NIT: "900373115"})
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	s.PutUser(entity.User{
		ID: "admin-1", CompanyID: "company-1", Fullname: "Admin", Email: "admin@guasa.co",
		PasswordHash: string(hash), Role: entity.RoleAdmin, IsActive: true,
	})
	uc := auth.NewAuthUseCase(s.Users(), s.Companies(), s.Recorder(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "backoffice"})
	return uc, s
}

func TestCreateUser_ValoresPorDefecto(t *testing.T) {
	uc, s := setup(t)

	out, err := uc.CreateUser(context.Background(), "company-1", "admin-1", dto.CreateUserRequest{
		Fullname: " Vendedor Uno ",
		Email:    "Vendedor@Guasa.co",
		Password: "clave-segura",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleSales, out.Role)
	assert.Equal(t, entity.DocumentCC, out.DocumentType)
	assert.Equal(t, "vendedor@guasa.co", out.Email)
	assert.Equal(t, "Vendedor Uno", out.Fullname)
	assert.True(t, out.IsActive)
	assert.Contains(t, s.Actions(), "Nuevo usuario creado vendedor@guasa.co")
}

func TestCreateUser_EmailDuplicado(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.CreateUser(context.Background(), "company-1", "admin-1", dto.CreateUserRequest{
		Fullname: "Otro", Email: "ADMIN@guasa.co", Password: "clave-segura",
	})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateUser_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	cases := map[string]dto.CreateUserRequest{
		"email":      {Fullname: "X", Email: "sin-arroba", Password: "clave-segura"},
		"contraseña": {Fullname: "X", Email: "x@guasa.co", Password: "corta"},
		"rol":        {Fullname: "X", Email: "x@guasa.co", Password: "clave-segura", Role: "root"},
		"documento":  {Fullname: "X", Email: "x@guasa.co", Password: "clave-segura", DocumentType: "XX"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateUser(ctx, "company-1", "admin-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.CreateUser(ctx, "no-existe", "admin-1", dto.CreateUserRequest{Fullname: "X", Email: "x@guasa.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestLogin_GeneraTokenConTenantYRol(t *testing.T) {
	uc, s := setup(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "admin@guasa.co", Password: "secreto123"})

	require.NoError(t, err)
	userID, companyID, role, err := jwt.Parse(secret, out.Access)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", userID)
	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.NotNil(t, out.User.LastLogin)
	assert.Contains(t, s.Actions(), "Nuevo inicio de sesión")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@guasa.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@guasa.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, s := setup(t)
	require.NoError(t, s.Users().SetActive(context.Background(), "admin-1", false))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "admin@guasa.co", Password: "secreto123"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdatePassword(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	err := uc.UpdatePassword(ctx, "admin-1", dto.UpdatePasswordRequest{OldPassword: "incorrecta", NewPassword: "nueva-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.UpdatePassword(ctx, "admin-1", dto.UpdatePasswordRequest{OldPassword: "secreto123", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.UpdatePassword(ctx, "admin-1", dto.UpdatePasswordRequest{OldPassword: "secreto123", NewPassword: "nueva-clave"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@guasa.co", Password: "nueva-clave"})
	assert.NoError(t, err)
}

func TestMe_IncluyeEmpresa(t *testing.T) {
	uc, _ := setup(t)

	out, err := uc.Me(context.Background(), "admin-1")

	require.NoError(t, err)
	require.NotNil(t, out.Company)
	assert.Equal(t, "Guasá", out.Company.Name)
}

func TestIsActive(t *testing.T) {
	uc, s := setup(t)
	ctx := context.Background()

	ok, err := uc.IsActive(ctx, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Users().SetActive(ctx, "admin-1", false))
	ok, _ = uc.IsActive(ctx, "admin-1")
	assert.False(t, ok)

	ok, _ = uc.IsActive(ctx, "fantasma")
	assert.False(t, ok)
}

func TestCreateSuperuser(t *testing.T) {
	uc, _ := setup(t)

	out, err := uc.CreateSuperuser(context.Background(), "company-1", "root@guasa.co", "clave-segura", "")

	require.NoError(t, err)
	assert.True(t, out.IsSuperuser)
	assert.Equal(t, entity.RoleAdmin, out.Role)
	assert.Equal(t, "root@guasa.co", out.Fullname)
}
