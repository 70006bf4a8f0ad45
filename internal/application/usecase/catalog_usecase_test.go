package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

const (
	companyID = "company-1"
	actorID   = "user-1"
)

func ptr[T any](v T) *T { return &v }

func newStore() *apptest.Store {
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: companyID, Name: "Guasá", NIT: "900373115"})
	s.PutUser(entity.User{ID: actorID, CompanyID: companyID, Fullname: "Admin", Email: "admin@guasa.co", Role: entity.RoleAdmin, IsActive: true})
	return s
}

// staticSheet devuelve siempre las mismas filas.
type staticSheet struct {
	rows [][]string
	err  error
}

func (s staticSheet) Rows(string, io.Reader) ([][]string, error) { return s.rows, s.err }

type memoryStorage struct {
	keys []string
}

func (m *memoryStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (*usecase.StoredObject, error) {
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	m.keys = append(m.keys, key)
	return &usecase.StoredObject{Key: key, FinalURL: "https://cdn.local/" + key, PresignedURL: "https://cdn.local/" + key + "?sig=1"}, nil
}

func newProductUseCase(s *apptest.Store, sheet usecase.SheetReader, storage usecase.FileStorage) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(s.Products(), s.Groups(), s.Providers(), apptest.TxRunner{S: s}, sheet, storage, s.Recorder())
}

var importHeader = []string{"group", "code", "name", "photo", "total_in_storage", "total_in_shops", "selling_price", "buying_price", "usd_price", "provider"}

func TestImport_CreaProductosYSaltaFilasVacias(t *testing.T) {
	s := newStore()
	s.PutGroup(entity.InventoryGroup{ID: "g-1", CompanyID: companyID, Name: "Dulces", Active: true})
	uc := newProductUseCase(s, staticSheet{rows: [][]string{
		importHeader,
		{"g-1", "A1", "Chocolate", "", "10", "2", "5000", "3000", "1.5", ""},
		{"", "B2", "sin categoría se ignora"},
		{"g-1", "C3", "Café", "", "", "", "8000", "", "", ""},
	}}, nil)

	out, err := uc.Import(context.Background(), companyID, actorID, "productos.csv", strings.NewReader(""))

	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 2, s.CountProducts())
	assert.Contains(t, s.Actions(), "Ingresó productos mediante archivo CSV")
}

func TestImport_ArchivoSinFilas(t *testing.T) {
	s := newStore()
	uc := newProductUseCase(s, staticSheet{rows: [][]string{importHeader}}, nil)

	_, err := uc.Import(context.Background(), companyID, actorID, "productos.csv", strings.NewReader(""))

	assert.ErrorIs(t, err, domain.ErrEmptyImport)
}

func TestImport_NumeroInvalidoIndicaFila(t *testing.T) {
	s := newStore()
	s.PutGroup(entity.InventoryGroup{ID: "g-1", CompanyID: companyID, Name: "Dulces", Active: true})
	uc := newProductUseCase(s, staticSheet{rows: [][]string{
		importHeader,
		{"g-1", "A1", "Chocolate", "", "diez", "2", "5000", "3000", "1", ""},
	}}, nil)

	_, err := uc.Import(context.Background(), companyID, actorID, "productos.csv", strings.NewReader(""))

	var rowErr *domain.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "total_in_storage", rowErr.Column)
	assert.True(t, domain.IsBusinessRule(err))
}

func TestImport_CategoriaInexistenteNoDejaProductos(t *testing.T) {
	s := newStore()
	s.PutGroup(entity.InventoryGroup{ID: "g-1", CompanyID: companyID, Name: "Dulces", Active: true})
	uc := newProductUseCase(s, staticSheet{rows: [][]string{
		importHeader,
		{"g-1", "A1", "Chocolate", "", "1", "1", "1", "1", "1", ""},
		{"g-x", "B2", "Café", "", "1", "1", "1", "1", "1", ""},
	}}, nil)

	_, err := uc.Import(context.Background(), companyID, actorID, "productos.csv", strings.NewReader(""))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.CountProducts(), "la importación es atómica")
}

func TestImport_ErrorDeLectura(t *testing.T) {
	s := newStore()
	uc := newProductUseCase(s, staticSheet{err: errors.New("formato desconocido")}, nil)

	_, err := uc.Import(context.Background(), companyID, actorID, "productos.pdf", strings.NewReader(""))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadPhoto_ClavePorEmpresa(t *testing.T) {
	s := newStore()
	storage := &memoryStorage{}
	uc := newProductUseCase(s, nil, storage)

	out, err := uc.UploadPhoto(context.Background(), companyID, "../foto chocolate.png", "image/png", 4, bytes.NewReader([]byte("png!")))

	require.NoError(t, err)
	require.Len(t, storage.keys, 1)
	assert.True(t, strings.HasPrefix(out.ObjectKey, companyID+"/"))
	assert.True(t, strings.HasSuffix(out.ObjectKey, "-foto_chocolate.png"))
	assert.Equal(t, "https://cdn.local/"+out.ObjectKey, out.FinalURL)
	assert.NotEmpty(t, out.PresignedURL)
}

func TestUploadPhoto_SinArchivoOSinAlmacenamiento(t *testing.T) {
	s := newStore()

	_, err := newProductUseCase(s, nil, &memoryStorage{}).UploadPhoto(context.Background(), companyID, "", "", 0, nil)
	assert.ErrorIs(t, err, domain.ErrFileRequired)

	_, err = newProductUseCase(s, nil, nil).UploadPhoto(context.Background(), companyID, "a.png", "image/png", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"foto.png":            "foto.png",
		"../../etc/passwd":    "passwd",
		`C:\fotos\café 1.jpg`: "caf__1.jpg",
		"...":                 "archivo",
	}
	for in, want := range cases {
		assert.Equal(t, want, usecase.SanitizeFilename(in), in)
	}
}

func TestCreateProduct_CodigoDuplicado(t *testing.T) {
	s := newStore()
	uc := newProductUseCase(s, nil, nil)
	req := dto.ProductRequest{Code: ptr("A1"), Name: ptr("Chocolate"), SellingPrice: ptr(decimal.NewFromInt(5000))}
	_, err := uc.Create(context.Background(), companyID, actorID, req)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), companyID, actorID, req)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestToggleGroup_DesactivaHijas(t *testing.T) {
	s := newStore()
	parentID := "g-padre"
	s.PutGroup(entity.InventoryGroup{ID: parentID, CompanyID: companyID, Name: "Bebidas", Active: true})
	s.PutGroup(entity.InventoryGroup{ID: "g-hija", CompanyID: companyID, Name: "Café", BelongsToID: &parentID, Active: true})
	uc := usecase.NewInventoryGroupUseCase(s.Groups(), apptest.TxRunner{S: s}, s.Recorder())
	ctx := context.Background()

	out, err := uc.ToggleActive(ctx, companyID, actorID, parentID)
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.False(t, s.Group("g-hija").Active)

	_, err = uc.ToggleActive(ctx, companyID, actorID, "g-hija")
	assert.ErrorIs(t, err, domain.ErrParentGroupInactive)
	assert.Contains(t, s.Actions(), "Desactivó la categoría Bebidas")
}

func TestUpdateGroup_NoPuedeSerSuPropioPadre(t *testing.T) {
	s := newStore()
	s.PutGroup(entity.InventoryGroup{ID: "g-1", CompanyID: companyID, Name: "Bebidas", Active: true})
	uc := usecase.NewInventoryGroupUseCase(s.Groups(), apptest.TxRunner{S: s}, s.Recorder())

	_, err := uc.Update(context.Background(), companyID, actorID, "g-1", dto.InventoryGroupRequest{BelongsToID: ptr("g-1")})

	assert.ErrorIs(t, err, domain.ErrSelfParentGroup)
}

func TestUpdateCompany_SoloSuperusuario(t *testing.T) {
	s := newStore()
	uc := usecase.NewCompanyUseCase(s.Companies(), s.Users(), s.Recorder())
	ctx := context.Background()

	_, err := uc.Update(ctx, actorID, companyID, dto.UpdateCompanyRequest{Name: ptr("Guasá SAS")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	s.PutUser(entity.User{ID: "root", CompanyID: companyID, Fullname: "Root", Email: "root@guasa.co", Role: entity.RoleAdmin, IsActive: true, IsSuperuser: true})
	out, err := uc.Update(ctx, "root", companyID, dto.UpdateCompanyRequest{Name: ptr("Guasá SAS")})
	require.NoError(t, err)
	assert.Equal(t, "Guasá SAS", out.Name)
	assert.Equal(t, "900373115", out.NIT)
	assert.Contains(t, s.Actions(), "Empresa 'Guasá SAS' Actualizada")
}

func TestToggleUser_RegistraEstado(t *testing.T) {
	s := newStore()
	s.PutUser(entity.User{ID: "u-2", CompanyID: companyID, Fullname: "Vendedor", Email: "v@guasa.co", Role: entity.RoleSales, IsActive: true})
	uc := usecase.NewUserUseCase(s.Users(), s.Recorder())

	out, err := uc.ToggleActive(context.Background(), companyID, actorID, "u-2")

	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Contains(t, s.Actions(), "Usuario v@guasa.co desactivado")

	_, err = uc.ToggleActive(context.Background(), "otra-empresa", actorID, "u-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
