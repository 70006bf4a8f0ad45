package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

type fakeStatsRepo struct {
	days     []repository.DailyAmount
	byUser   []repository.SalesByUserRow
	lastUser repository.DateRange
	calls    int
}

func (f *fakeStatsRepo) Summary(context.Context, string) (int, int, int, error) {
	f.calls++
	return 12, 3, 4, nil
}

func (f *fakeStatsRepo) TopSelling(context.Context, string, repository.DateRange, int) ([]repository.TopSellingRow, error) {
	f.calls++
	return []repository.TopSellingRow{{Name: "Chocolate", Quantity: 9}}, nil
}

func (f *fakeStatsRepo) QuantitiesByHour(context.Context, string, time.Time, time.Time) (map[int]int, error) {
	f.calls++
	return map[int]int{9: 4, 18: 2}, nil
}

func (f *fakeStatsRepo) SalesByDay(_ context.Context, _ string, from, to time.Time) ([]repository.DailyAmount, error) {
	f.calls++
	var out []repository.DailyAmount
	for _, d := range f.days {
		if !d.Day.Before(from) && d.Day.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStatsRepo) SalesByUser(_ context.Context, _ string, r repository.DateRange) ([]repository.SalesByUserRow, error) {
	f.calls++
	f.lastUser = r
	return f.byUser, nil
}

func (f *fakeStatsRepo) PurchaseSummary(context.Context, string, repository.DateRange) (*repository.PurchaseSummaryRow, error) {
	f.calls++
	return &repository.PurchaseSummaryRow{Count: 7, GiftCount: 1, SellingPrice: decimal.NewFromInt(35000)}, nil
}

// jsonCache guarda los valores serializados, como la caché real.
type jsonCache struct {
	data map[string][]byte
	err  error
}

func (c *jsonCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *jsonCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *jsonCache) DeletePrefix(_ context.Context, prefix string) error {
	if c.err != nil {
		return c.err
	}
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// miércoles, semana ISO 11
var wednesday = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.Local)
}

func newTestUseCase(repo *fakeStatsRepo, cache Cache) *StatsUseCase {
	uc := NewStatsUseCase(repo, cache, time.Minute, nil)
	uc.now = func() time.Time { return wednesday }
	return uc
}

func sampleDays() []repository.DailyAmount {
	return []repository.DailyAmount{
		{Day: day(time.January, 15), Amount: decimal.NewFromInt(5)},
		{Day: day(time.March, 2), Amount: decimal.NewFromInt(20)},
		{Day: day(time.March, 11), Amount: decimal.NewFromInt(50)},
		{Day: day(time.March, 13), Amount: decimal.NewFromInt(100)},
	}
}

func TestSalesByTimeframe_Diario(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{days: sampleDays()}, nil)

	out, err := uc.SalesByTimeframe(context.Background(), "c1", TimeframeDaily)

	require.NoError(t, err)
	rows := out.([]dto.DailySalesResponse)
	require.Len(t, rows, 7)
	assert.Equal(t, "7/3", rows[0].Day)
	assert.Equal(t, "13/3", rows[6].Day)
	assert.Equal(t, "50", rows[4].TotalAmount.String())
	assert.Equal(t, "100", rows[6].TotalAmount.String())
	assert.Equal(t, "0", rows[0].TotalAmount.String())
}

func TestSalesByTimeframe_Semanal(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{days: sampleDays()}, nil)

	out, err := uc.SalesByTimeframe(context.Background(), "c1", TimeframeWeekly)

	require.NoError(t, err)
	rows := out.([]dto.WeeklySalesResponse)
	require.Len(t, rows, 5)
	assert.Equal(t, "Week 07", rows[0].WeekNumber)
	assert.Equal(t, "Week 11", rows[4].WeekNumber)
	assert.Equal(t, "20", rows[2].TotalAmount.String())
	assert.Equal(t, "0", rows[3].TotalAmount.String())
	assert.Equal(t, "150", rows[4].TotalAmount.String())
}

func TestSalesByTimeframe_Mensual(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{days: sampleDays()}, nil)

	out, err := uc.SalesByTimeframe(context.Background(), "c1", TimeframeMonthly)

	require.NoError(t, err)
	rows := out.([]dto.MonthlySalesResponse)
	require.Len(t, rows, 12)
	assert.Equal(t, "Enero", rows[0].Month)
	assert.Equal(t, "5", rows[0].TotalAmount.String())
	assert.Equal(t, "170", rows[2].TotalAmount.String())
	assert.Equal(t, "Diciembre", rows[11].Month)
}

func TestSalesByTimeframe_General(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{days: sampleDays()}, nil)

	out, err := uc.SalesByTimeframe(context.Background(), "c1", TimeframeGeneral)

	require.NoError(t, err)
	g := out.(*dto.GeneralSalesResponse)
	assert.Equal(t, "100", g.Daily.String())
	assert.Equal(t, "150", g.Weekly.String())
	assert.Equal(t, "170", g.Monthly.String())
	assert.Equal(t, "175", g.Annual.String())
}

func TestSalesByTimeframe_PeriodoInvalido(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{}, nil)

	_, err := uc.SalesByTimeframe(context.Background(), "c1", "yearly")

	assert.ErrorIs(t, err, domain.ErrInvalidTimeframe)
}

func TestHourlyQuantities_VeinticuatroHoras(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{}, nil)

	out, err := uc.HourlyQuantities(context.Background(), "c1")

	require.NoError(t, err)
	require.Len(t, out, 24)
	assert.Equal(t, 4, out[9].TotalQuantity)
	assert.Equal(t, 0, out[10].TotalQuantity)
	assert.Equal(t, 23, out[23].Time)
}

func TestStats_UsaCache(t *testing.T) {
	repo := &fakeStatsRepo{}
	cache := &jsonCache{data: map[string][]byte{}}
	uc := newTestUseCase(repo, cache)
	ctx := context.Background()

	first, err := uc.Summary(ctx, "c1")
	require.NoError(t, err)
	second, err := uc.Summary(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, cache.data, "stats:c1:summary")

	_, err = uc.Summary(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "la clave incluye la empresa")
}

func TestStats_InvalidateDescartaSoloLaEmpresa(t *testing.T) {
	repo := &fakeStatsRepo{}
	cache := &jsonCache{data: map[string][]byte{}}
	uc := newTestUseCase(repo, cache)
	ctx := context.Background()

	_, err := uc.Summary(ctx, "c1")
	require.NoError(t, err)
	_, err = uc.Summary(ctx, "c2")
	require.NoError(t, err)

	uc.Invalidate(ctx, "c1")

	assert.NotContains(t, cache.data, "stats:c1:summary")
	assert.Contains(t, cache.data, "stats:c2:summary")
	_, err = uc.Summary(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestStats_InvalidateSinCacheNoFalla(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{}, nil)
	uc.Invalidate(context.Background(), "c1")
	newTestUseCase(&fakeStatsRepo{}, &jsonCache{err: errors.New("redis caído")}).Invalidate(context.Background(), "c1")
}

func TestStats_CacheCaidaConsultaLaBase(t *testing.T) {
	repo := &fakeStatsRepo{}
	uc := newTestUseCase(repo, &jsonCache{err: errors.New("redis caído")})

	out, err := uc.TopSelling(context.Background(), "c1", dto.DateRangeRequest{})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 9, out[0].SumTopTenItems)
	assert.Equal(t, 1, repo.calls)
}

func TestSalesByUser_RangoSoloSiVienenAmbasFechas(t *testing.T) {
	repo := &fakeStatsRepo{byUser: []repository.SalesByUserRow{{UserID: "u1", Fullname: "Ana", TotalInvoice: decimal.NewFromInt(10)}}}
	uc := newTestUseCase(repo, nil)
	ctx := context.Background()

	out, err := uc.SalesByUser(ctx, "c1", dto.DateRangeRequest{StartDate: "2024-03-01"})
	require.NoError(t, err)
	assert.Nil(t, repo.lastUser.From)
	assert.Equal(t, "Ana", out[0].SaleByFullname)

	_, err = uc.SalesByUser(ctx, "c1", dto.DateRangeRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	require.NotNil(t, repo.lastUser.From)
	assert.Equal(t, day(time.March, 31), *repo.lastUser.To)
}

func TestParseOptionalRange(t *testing.T) {
	r, err := ParseOptionalRange(dto.DateRangeRequest{})
	require.NoError(t, err)
	assert.Nil(t, r.From)

	_, err = ParseOptionalRange(dto.DateRangeRequest{StartDate: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrEndDateRequired)

	_, err = ParseOptionalRange(dto.DateRangeRequest{EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrStartDateRequired)

	_, err = ParseOptionalRange(dto.DateRangeRequest{StartDate: "01/01/2024", EndDate: "2024-01-31"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r, err = ParseOptionalRange(dto.DateRangeRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, day(time.January, 1), *r.From)
}

func TestPurchaseSummary_RequiereAmbasFechas(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{}, nil)

	_, err := uc.PurchaseSummary(context.Background(), "c1", dto.DateRangeRequest{EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrStartDateRequired)

	out, err := uc.PurchaseSummary(context.Background(), "c1", dto.DateRangeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
}
