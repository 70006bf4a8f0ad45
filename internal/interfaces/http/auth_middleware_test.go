package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	apphttp "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-backoffice/pkg/jwt"
)

const (
	mwSecret  = "middleware-test-secret"
	mwUserID  = "00000000-0000-0000-0000-000000000001"
	mwCompany = "00000000-0000-0000-0000-000000000002"
)

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwCompany, role, "backoffice-test", 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// protectedApp expone GET /protected detrás de los middlewares dados y devuelve los locals.
func protectedApp(middlewares ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{apphttp.AuthMiddleware(mwSecret)}, middlewares...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App, authorization string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddleware_CargaLocalsDelToken(t *testing.T) {
	app := protectedApp()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearer(t, entity.RoleShopAdmin))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mwUserID, body["user_id"])
	assert.Equal(t, mwCompany, body["company_id"])
	assert.Equal(t, entity.RoleShopAdmin, body["role"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
	}
	app := protectedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuthMiddleware_SecretDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", mwUserID, mwCompany, entity.RoleAdmin, "backoffice-test", 60)
	require.NoError(t, err)

	status, body := get(t, protectedApp(), "Bearer "+tok)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

// Matriz de los grupos de roles que usa el router.
func TestRequireRole_GruposDelRouter(t *testing.T) {
	groups := map[string][]string{
		"usuarios":     {entity.RoleAdmin},
		"resoluciones": {entity.RoleAdmin, entity.RolePOSAdmin},
		"movimientos":  {entity.RoleAdmin, entity.RoleStorageAdmin, entity.RoleShopAdmin},
	}
	allowed := map[string]map[string]bool{
		"usuarios":     {entity.RoleAdmin: true},
		"resoluciones": {entity.RoleAdmin: true, entity.RolePOSAdmin: true},
		"movimientos":  {entity.RoleAdmin: true, entity.RoleStorageAdmin: true, entity.RoleShopAdmin: true},
	}
	roles := []string{entity.RoleAdmin, entity.RolePOSAdmin, entity.RoleShopAdmin, entity.RoleSales, entity.RoleSupportSales, entity.RoleStorageAdmin}

	for group, groupRoles := range groups {
		app := protectedApp(apphttp.RequireRole(groupRoles...))
		for _, role := range roles {
			t.Run(group+"/"+role, func(t *testing.T) {
				status, body := get(t, app, bearer(t, role))
				if allowed[group][role] {
					assert.Equal(t, http.StatusOK, status)
					return
				}
				assert.Equal(t, http.StatusForbidden, status)
				assert.Equal(t, "FORBIDDEN", body.Code)
			})
		}
	}
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	app := protectedApp(apphttp.RequireRole(entity.RoleAdmin))

	status, body := get(t, app, bearer(t, ""))

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_ROLE", body.Code)
}

type stubChecker struct {
	active bool
	err    error
	calls  []string
}

func (s *stubChecker) IsActive(_ context.Context, userID string) (bool, error) {
	s.calls = append(s.calls, userID)
	return s.active, s.err
}

func TestRequireActiveUser(t *testing.T) {
	cases := []struct {
		name    string
		checker *stubChecker
		status  int
		code    string
	}{
		{"activo", &stubChecker{active: true}, http.StatusOK, ""},
		{"inactivo", &stubChecker{active: false}, http.StatusForbidden, "FORBIDDEN"},
		{"falla la consulta", &stubChecker{err: errors.New("db caída")}, http.StatusServiceUnavailable, "USER_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := protectedApp(apphttp.RequireActiveUser(tc.checker))

			status, body := get(t, app, bearer(t, entity.RoleSales))

			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, []string{mwUserID}, tc.checker.calls)
		})
	}
}
