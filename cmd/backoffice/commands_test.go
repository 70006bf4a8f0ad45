package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
)

func TestRootCmd_Subcomandos(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "create-company", "create-superuser", "import-inventory"} {
		assert.True(t, names[want], want)
	}
}

func TestCreateSuperuserCmd_FlagsObligatorias(t *testing.T) {
	for _, name := range []string{"company", "email", "password"} {
		f := createSuperuserCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, []string{"true"}, f.Annotations["cobra_annotation_bash_completion_one_required_flag"], name)
	}
}

func TestRunCreateCompany(t *testing.T) {
	s := apptest.NewStore()
	uc := usecase.NewCompanyUseCase(s.Companies(), s.Users(), s.Recorder())
	var out bytes.Buffer

	require.NoError(t, runCreateCompany(context.Background(), &out, uc, "Guasá", "900373115"))

	assert.Contains(t, out.String(), "empresa creada:")
	assert.Contains(t, out.String(), "Guasá")
}

func TestRunCreateCompany_SinNIT(t *testing.T) {
	s := apptest.NewStore()
	uc := usecase.NewCompanyUseCase(s.Companies(), s.Users(), s.Recorder())

	err := runCreateCompany(context.Background(), &bytes.Buffer{}, uc, "Guasá", " ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunCreateSuperuser(t *testing.T) {
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: "company-1", Name: "Guasá", NIT: "900373115"})
	uc := auth.NewAuthUseCase(s.Users(), s.Companies(), s.Recorder(), auth.JWTConfig{Secret: "x"})
	var out bytes.Buffer

	require.NoError(t, runCreateSuperuser(context.Background(), &out, uc, "company-1", "Admin@Guasa.co", "12345678", ""))
	assert.Contains(t, out.String(), "admin@guasa.co")

	u, err := s.Users().GetByEmail(context.Background(), "admin@guasa.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.IsSuperuser)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestRunImportInventory(t *testing.T) {
	s := apptest.NewStore()
	s.PutCompany(entity.Company{ID: "company-1", Name: "Guasá", NIT: "900373115"})
	s.PutUser(entity.User{ID: "user-1", CompanyID: "company-1", Fullname: "Admin", Email: "admin@guasa.co", Role: entity.RoleAdmin, IsActive: true})
	s.PutGroup(entity.InventoryGroup{ID: "g-1", CompanyID: "company-1", Name: "Dulces", Active: true})
	uc := usecase.NewProductUseCase(s.Products(), s.Groups(), s.Providers(), apptest.TxRunner{S: s},
		excel.NewSheetReader(), nil, s.Recorder())

	path := filepath.Join(t.TempDir(), "productos.csv")
	csv := "group_id,code,name,photo,total_in_storage,total_in_shops,selling_price,buying_price,usd_price,provider_id\n" +
		"g-1,A1,Chocolate,,10,5,5000,2000,2,\n" +
		"g-1,B2,Café,,0,3,8000,4000,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	var out bytes.Buffer

	require.NoError(t, runImportInventory(context.Background(), &out, uc, "company-1", "user-1", path))

	assert.Equal(t, "Productos creados satisfactoriamente: 2 productos\n", out.String())
	assert.Equal(t, 2, s.CountProducts())
}

func TestRunImportInventory_ArchivoInexistente(t *testing.T) {
	err := runImportInventory(context.Background(), &bytes.Buffer{}, nil, "company-1", "user-1", filepath.Join(t.TempDir(), "no.csv"))

	assert.ErrorContains(t, err, "abrir")
}
