package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/reports"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
	apphttp "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-backoffice/pkg/jwt"
)

const (
	routerSecret  = "router-test-secret"
	routerCompany = "company-1"
	adminID       = "user-admin"
	sellerUserID  = "user-sales"
	adminPassword = "secreta123"
)

type routerFixture struct {
	app   *fiber.App
	store *apptest.Store
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: routerCompany, Name: "Guasá", NIT: "900373115"})
	s.PutUser(entity.User{ID: adminID, CompanyID: routerCompany, Fullname: "Admin", Email: "admin@guasa.co",
		PasswordHash: string(hash), Role: entity.RoleAdmin, IsActive: true})
	s.PutUser(entity.User{ID: sellerUserID, CompanyID: routerCompany, Fullname: "Ana Ventas", Email: "ana@guasa.co",
		PasswordHash: string(hash), Role: entity.RoleSales, IsActive: true})

	metrics := apphttp.NewMetrics("backoffice")
	activity := s.Recorder()
	app := apphttp.NewApp(apphttp.AppConfig{Name: "backoffice", Metrics: metrics})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(s.Users(), s.Companies(), activity, auth.JWTConfig{Secret: routerSecret, ExpMinutes: 60, Issuer: "backoffice-test"}),
		UserUC:     usecase.NewUserUseCase(s.Users(), activity),
		Activity:   activity,
		CompanyUC:  usecase.NewCompanyUseCase(s.Companies(), s.Users(), activity),
		GroupUC:    usecase.NewInventoryGroupUseCase(s.Groups(), apptest.TxRunner{S: s}, activity),
		ProviderUC: usecase.NewProviderUseCase(s.Providers(), activity),
		CustomerUC: usecase.NewCustomerUseCase(s.Customers(), activity),
		TerminalUC: usecase.NewPaymentTerminalUseCase(s.Terminals(), activity),
		GoalUC:     usecase.NewGoalUseCase(s.Goals(), activity),
		InvoiceUC: billing.NewInvoiceUseCase(billing.InvoiceDeps{
			Tx:          apptest.TxRunner{S: s},
			Invoices:    s.Invoices(),
			Resolutions: s.Resolutions(),
			Customers:   s.Customers(),
			Terminals:   s.Terminals(),
			Users:       s.Users(),
			Companies:   s.Companies(),
			Activity:    activity,
			Counter:     metrics,
		}),
		ReportsUC: reports.NewUseCase(nil, s.Companies(), excel.NewRenderer(), activity, reports.EInvoiceConfig{}),
		JWTSecret: routerSecret,
	})
	return &routerFixture{app: app, store: s}
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(routerSecret, userID, routerCompany, role, "backoffice-test", 60)
	require.NoError(t, err)
	return tok
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","service":"backoffice"}`, string(body))
}

func TestRouter_LoginCorrecto(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/user/login", "", dto.LoginRequest{Email: "Admin@guasa.co ", Password: adminPassword})

	require.Equal(t, http.StatusOK, status, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	userID, companyID, role, err := pkgjwt.Parse(routerSecret, out.Access)
	require.NoError(t, err)
	assert.Equal(t, adminID, userID)
	assert.Equal(t, routerCompany, companyID)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.Contains(t, f.store.Actions(), "Nuevo inicio de sesión")
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/user/login", "", dto.LoginRequest{Email: "admin@guasa.co", Password: "otra-clave"})

	assert.Equal(t, http.StatusBadRequest, status)
	e := decodeError(t, body)
	assert.Equal(t, "INVALID_CREDENTIALS", e.Code)
	assert.Equal(t, "Email o contraseña invalidas", e.Message)
}

func TestRouter_SinTokenDevuelve401(t *testing.T) {
	f := newRouterFixture(t)

	status, _ := f.do(t, http.MethodGet, "/api/user/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_UsuarioDesactivadoPierdeAcceso(t *testing.T) {
	f := newRouterFixture(t)
	token := tokenFor(t, sellerUserID, entity.RoleSales)

	status, _ := f.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPost, "/api/user/users/"+sellerUserID+"/toggle-active", tokenFor(t, adminID, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodGet, "/api/user/me", token, nil)
	assert.Equal(t, http.StatusForbidden, status, "el token sigue siendo válido pero el usuario ya no está activo")
}

func TestRouter_VendedorNoPuedeCrearUsuarios(t *testing.T) {
	f := newRouterFixture(t)

	status, _ := f.do(t, http.MethodPost, "/api/user/create-user", tokenFor(t, sellerUserID, entity.RoleSales), dto.CreateUserRequest{
		Fullname: "Nuevo", Email: "nuevo@guasa.co", Password: "12345678",
	})

	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_CrearUsuarioEmailRepetido(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/user/create-user", tokenFor(t, adminID, entity.RoleAdmin), dto.CreateUserRequest{
		Fullname: "Ana", Email: "ana@guasa.co", Password: "12345678",
	})

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_EXISTS", decodeError(t, body).Code)
}

func TestRouter_CategoriasCrearYListar(t *testing.T) {
	f := newRouterFixture(t)
	token := tokenFor(t, adminID, entity.RoleAdmin)
	name := "Dulces"

	status, body := f.do(t, http.MethodPost, "/api/app/group", token, dto.InventoryGroupRequest{Name: &name})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = f.do(t, http.MethodGet, "/api/app/group?keyword=dul", token, nil)
	require.Equal(t, http.StatusOK, status)
	var out dto.ListResponse[dto.InventoryGroupResponse]
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Dulces", out.Results[0].Name)
}

func TestRouter_CategoriaInexistenteDevuelveMensaje(t *testing.T) {
	f := newRouterFixture(t)
	name := "x"

	status, body := f.do(t, http.MethodPut, "/api/app/group/no-existe", tokenFor(t, adminID, entity.RoleAdmin), dto.InventoryGroupRequest{Name: &name})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Categoría no encontrada", decodeError(t, body).Message)
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/app/group", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, adminID, entity.RoleAdmin))

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_FacturaSinResolucionActiva(t *testing.T) {
	f := newRouterFixture(t)
	paid, zero := decimal.NewFromInt(5000), decimal.Zero

	status, body := f.do(t, http.MethodPost, "/api/app/invoice", tokenFor(t, sellerUserID, entity.RoleSales), dto.CreateInvoiceRequest{
		InvoiceItems:   []dto.InvoiceItemRequest{{ItemID: "p-1", Quantity: 1, Amount: paid}},
		PaymentMethods: []dto.PaymentMethodRequest{{Name: entity.PaymentCash, PaidAmount: &paid, BackAmount: &zero, ReceivedAmount: &paid}},
	})

	assert.Equal(t, http.StatusBadRequest, status)
	e := decodeError(t, body)
	assert.Equal(t, "BUSINESS_RULE", e.Code)
	assert.Equal(t, "Necesita una Resolución de la DIAN activa para crear facturas", e.Message)
}

func TestRouter_FacturaCreadaYConsultadaPorNumero(t *testing.T) {
	f := newRouterFixture(t)
	f.store.PutResolution(entity.DianResolution{
		ID: "res-1", CompanyID: routerCompany, DocumentNumber: "18764000001",
		FromDate: time.Now().AddDate(0, -1, 0), ToDate: time.Now().AddDate(1, 0, 0),
		FromNumber: 1, ToNumber: 100, Active: true,
	})
	f.store.PutProduct(entity.Product{ID: "p-1", CompanyID: routerCompany, Code: "A1", Name: "Chocolate",
		TotalInShops: 4, SellingPrice: decimal.NewFromInt(5000), Active: true})
	token := tokenFor(t, sellerUserID, entity.RoleSales)
	paid, zero := decimal.NewFromInt(5000), decimal.Zero

	status, body := f.do(t, http.MethodPost, "/api/app/invoice", token, dto.CreateInvoiceRequest{
		InvoiceItems:   []dto.InvoiceItemRequest{{ItemID: "p-1", Quantity: 1, Amount: paid}},
		PaymentMethods: []dto.PaymentMethodRequest{{Name: entity.PaymentCash, PaidAmount: &paid, BackAmount: &zero, ReceivedAmount: &paid}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Factura creada satisfactoriamente", created.Message)
	assert.Equal(t, 3, f.store.Product("p-1").TotalInShops)

	status, body = f.do(t, http.MethodGet, "/api/app/invoice-painter?invoice_number=1", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, int64(1), inv.InvoiceNumber)

	status, body = f.do(t, http.MethodGet, "/api/app/invoice-painter?invoice_number=99", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Factura no encontrada", decodeError(t, body).Message)

	status, body = f.do(t, http.MethodGet, "/api/app/invoice-painter", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Debe ingresar un número de factura", decodeError(t, body).Message)

	_, metrics := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, string(metrics), `backoffice_business_events_total{event="`+billing.EventInvoiceCreated+`"} 1`)
	assert.Contains(t, string(metrics), `backoffice_http_requests_total{method="POST",route="/api/app/invoice",status="201"} 1`)
}

func TestRouter_ReporteSinFechas(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/app/daily_report_export", tokenFor(t, adminID, entity.RoleAdmin), nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Debe ingresar un rango de fechas", decodeError(t, body).Message)
}

func TestRouter_ImportarSinArchivo(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/app/inventory-csv", tokenFor(t, adminID, entity.RoleAdmin), nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No se ha proporcionado un archivo", decodeError(t, body).Message)
}

func TestRouter_RutaDesconocida(t *testing.T) {
	f := newRouterFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/app/no-existe", tokenFor(t, adminID, entity.RoleAdmin), nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "HTTP_ERROR", decodeError(t, body).Code)
}
