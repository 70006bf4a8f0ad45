package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/billing"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

func newResolutionFixture(t *testing.T) (*apptest.Store, *billing.ResolutionUseCase) {
	t.Helper()
	s := apptest.NewStore()
	s.PutUser(entity.User{ID: sellerID, CompanyID: companyID, Fullname: "Admin", Email: "admin@guasa.co", Role: entity.RoleAdmin, IsActive: true})
	return s, billing.NewResolutionUseCase(s.Resolutions(), s.Recorder())
}

func resolutionRequest(number string) dto.DianResolutionRequest {
	from := time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	to := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	return dto.DianResolutionRequest{
		DocumentNumber: ptr(number),
		FromDate:       ptr(from),
		ToDate:         ptr(to),
		FromNumber:     ptr(int64(100)),
		ToNumber:       ptr(int64(500)),
	}
}

func TestCreateResolution_ArrancaEnFromNumber(t *testing.T) {
	_, uc := newResolutionFixture(t)

	out, err := uc.Create(context.Background(), companyID, sellerID, resolutionRequest("18764000001"))

	require.NoError(t, err)
	assert.True(t, out.Active)
	assert.Equal(t, int64(100), out.CurrentNumber)
}

func TestCreateResolution_SoloUnaActiva(t *testing.T) {
	_, uc := newResolutionFixture(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, companyID, sellerID, resolutionRequest("A"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, companyID, sellerID, resolutionRequest("B"))
	assert.ErrorIs(t, err, domain.ErrActiveResolutionExists)

	inactive := resolutionRequest("C")
	inactive.Active = ptr(false)
	_, err = uc.Create(ctx, companyID, sellerID, inactive)
	assert.NoError(t, err, "una resolución inactiva no choca con la activa")
}

func TestCreateResolution_RangoInvalido(t *testing.T) {
	_, uc := newResolutionFixture(t)
	req := resolutionRequest("A")
	req.FromNumber = ptr(int64(600))

	_, err := uc.Create(context.Background(), companyID, sellerID, req)

	assert.ErrorIs(t, err, domain.ErrInvalidResolutionRange)
}

func TestToggleResolution_NoActivaVencida(t *testing.T) {
	s, uc := newResolutionFixture(t)
	s.PutResolution(entity.DianResolution{
		ID: "old", CompanyID: companyID, DocumentNumber: "OLD",
		FromDate: time.Now().AddDate(-2, 0, 0), ToDate: time.Now().AddDate(-1, 0, 0),
		FromNumber: 1, ToNumber: 10,
	})

	_, err := uc.ToggleActive(context.Background(), companyID, sellerID, "old")

	assert.ErrorIs(t, err, domain.ErrResolutionExpired)
}

func TestListResolutions_DesactivaVencidas(t *testing.T) {
	s, uc := newResolutionFixture(t)
	s.PutResolution(entity.DianResolution{
		ID: "old", CompanyID: companyID, DocumentNumber: "OLD", Active: true,
		FromDate: time.Now().AddDate(-2, 0, 0), ToDate: time.Now().AddDate(0, 0, -3),
		FromNumber: 1, ToNumber: 10,
	})

	out, err := uc.List(context.Background(), companyID, dto.ListQuery{})

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.False(t, out.Results[0].Active)
	assert.False(t, s.Resolution("old").Active)
}

func TestUpdateResolution_SubirFromNumberMueveElConsecutivo(t *testing.T) {
	s, uc := newResolutionFixture(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, companyID, sellerID, resolutionRequest("A"))
	require.NoError(t, err)

	out, err := uc.Update(ctx, companyID, sellerID, created.ID, dto.DianResolutionRequest{FromNumber: ptr(int64(300))})

	require.NoError(t, err)
	assert.Equal(t, int64(300), out.CurrentNumber)
	assert.Equal(t, int64(300), s.Resolution(created.ID).CurrentNumber, "el consecutivo se guarda, no solo se responde")
}

func TestUpdateResolution_NoBajaElConsecutivo(t *testing.T) {
	s, uc := newResolutionFixture(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, companyID, sellerID, resolutionRequest("A"))
	require.NoError(t, err)
	require.NoError(t, s.Resolutions().UpdateCurrentNumber(ctx, created.ID, 250))

	out, err := uc.Update(ctx, companyID, sellerID, created.ID, dto.DianResolutionRequest{FromNumber: ptr(int64(120))})

	require.NoError(t, err)
	assert.Equal(t, int64(250), out.CurrentNumber)
	assert.Equal(t, int64(250), s.Resolution(created.ID).CurrentNumber)
}

func TestUpdateResolution_ToNumberMenorQueElConsecutivo(t *testing.T) {
	s, uc := newResolutionFixture(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, companyID, sellerID, resolutionRequest("A"))
	require.NoError(t, err)
	require.NoError(t, s.Resolutions().UpdateCurrentNumber(ctx, created.ID, 250))

	_, err = uc.Update(ctx, companyID, sellerID, created.ID, dto.DianResolutionRequest{ToNumber: ptr(int64(200))})

	assert.ErrorIs(t, err, domain.ErrInvalidResolutionRange)
	assert.Equal(t, int64(500), s.Resolution(created.ID).ToNumber)

	_, err = uc.Update(ctx, companyID, sellerID, created.ID, dto.DianResolutionRequest{ToNumber: ptr(int64(250))})
	assert.NoError(t, err, "se puede cerrar el rango en el último número emitido")
}
