// Package analytics contiene los casos de uso del dashboard de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

const topSellingLimit = 10

// Periodos de sales-by-timeframe.
const (
	TimeframeDaily   = "daily"
	TimeframeWeekly  = "weekly"
	TimeframeMonthly = "monthly"
	TimeframeGeneral = "general"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// StatsUseCase estadísticas del dashboard. Todas excluyen facturas anuladas y los montos
// suman ítems que no son obsequio.
//
// Si hay caché configurada los resultados se guardan por empresa, endpoint y parámetros;
// un fallo de la caché solo se registra y se consulta la base de datos.
type StatsUseCase struct {
	repo  repository.StatsRepository
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewStatsUseCase construye el caso de uso. cache puede ser nil.
func NewStatsUseCase(repo repository.StatsRepository, cache Cache, ttl time.Duration, log *logger.Logger) *StatsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsUseCase{repo: repo, cache: cache, ttl: ttl, log: log.Component("stats"), now: time.Now}
}

// Summary productos activos, categorías activas y usuarios activos.
func (uc *StatsUseCase) Summary(ctx context.Context, companyID string) (*dto.SummaryResponse, error) {
	return cached(ctx, uc, cacheKey(companyID, "summary"), func() (*dto.SummaryResponse, error) {
		inventory, groups, users, err := uc.repo.Summary(ctx, companyID)
		if err != nil {
			return nil, err
		}
		return &dto.SummaryResponse{TotalInventory: inventory, TotalGroup: groups, TotalUsers: users}, nil
	})
}

// TopSelling los 10 productos más vendidos, opcionalmente en un rango de fechas.
func (uc *StatsUseCase) TopSelling(ctx context.Context, companyID string, in dto.DateRangeRequest) ([]dto.TopSellingResponse, error) {
	r, err := ParseOptionalRange(in)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, cacheKey(companyID, "top-selling", in.StartDate, in.EndDate), func() ([]dto.TopSellingResponse, error) {
		rows, err := uc.repo.TopSelling(ctx, companyID, r, topSellingLimit)
		if err != nil {
			return nil, err
		}
		out := make([]dto.TopSellingResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, dto.TopSellingResponse{Name: row.Name, Photo: row.Photo, SumTopTenItems: row.Quantity})
		}
		return out, nil
	})
}

// HourlyQuantities unidades vendidas hoy por hora, siempre 24 posiciones.
func (uc *StatsUseCase) HourlyQuantities(ctx context.Context, companyID string) ([]dto.HourlyQuantityResponse, error) {
	today := startOfDay(uc.now())
	return cached(ctx, uc, cacheKey(companyID, "hourly", today.Format("2006-01-02")), func() ([]dto.HourlyQuantityResponse, error) {
		byHour, err := uc.repo.QuantitiesByHour(ctx, companyID, today, today.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		out := make([]dto.HourlyQuantityResponse, 24)
		for h := range out {
			out[h] = dto.HourlyQuantityResponse{Time: h, TotalQuantity: byHour[h]}
		}
		return out, nil
	})
}

// SalesByTimeframe ventas agrupadas por día, semana o mes, o los totales generales.
func (uc *StatsUseCase) SalesByTimeframe(ctx context.Context, companyID, timeframe string) (any, error) {
	today := startOfDay(uc.now())
	key := cacheKey(companyID, "timeframe", timeframe, today.Format("2006-01-02"))
	switch timeframe {
	case TimeframeDaily:
		return cached(ctx, uc, key, func() ([]dto.DailySalesResponse, error) { return uc.daily(ctx, companyID, today) })
	case TimeframeWeekly:
		return cached(ctx, uc, key, func() ([]dto.WeeklySalesResponse, error) { return uc.weekly(ctx, companyID, today) })
	case TimeframeMonthly:
		return cached(ctx, uc, key, func() ([]dto.MonthlySalesResponse, error) { return uc.monthly(ctx, companyID, today) })
	case TimeframeGeneral:
		return cached(ctx, uc, key, func() (*dto.GeneralSalesResponse, error) { return uc.general(ctx, companyID, today) })
	}
	return nil, domain.ErrInvalidTimeframe
}

// daily últimos 7 días incluido hoy, del más antiguo al más reciente.
func (uc *StatsUseCase) daily(ctx context.Context, companyID string, today time.Time) ([]dto.DailySalesResponse, error) {
	from := today.AddDate(0, 0, -6)
	byDay, err := uc.salesByDay(ctx, companyID, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailySalesResponse, 0, 7)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		out = append(out, dto.DailySalesResponse{
			Day:         fmt.Sprintf("%d/%d", d.Day(), int(d.Month())),
			TotalAmount: byDay[dayKey(d)],
		})
	}
	return out, nil
}

// weekly las últimas 5 semanas ISO, de la más antigua a la actual.
func (uc *StatsUseCase) weekly(ctx context.Context, companyID string, today time.Time) ([]dto.WeeklySalesResponse, error) {
	from := startOfWeek(today).AddDate(0, 0, -28)
	byDay, err := uc.salesByDay(ctx, companyID, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	totals := make(map[int]decimal.Decimal)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		_, w := d.ISOWeek()
		totals[w] = totals[w].Add(byDay[dayKey(d)])
	}
	out := make([]dto.WeeklySalesResponse, 0, 5)
	for i := 4; i >= 0; i-- {
		_, w := today.AddDate(0, 0, -7*i).ISOWeek()
		out = append(out, dto.WeeklySalesResponse{WeekNumber: fmt.Sprintf("Week %02d", w), TotalAmount: totals[w]})
	}
	return out, nil
}

// monthly los 12 meses del año en curso.
func (uc *StatsUseCase) monthly(ctx context.Context, companyID string, today time.Time) ([]dto.MonthlySalesResponse, error) {
	from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	rows, err := uc.repo.SalesByDay(ctx, companyID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	totals := make([]decimal.Decimal, 12)
	for _, row := range rows {
		m := row.Day.Month() - 1
		totals[m] = totals[m].Add(row.Amount)
	}
	out := make([]dto.MonthlySalesResponse, 12)
	for i := range out {
		out[i] = dto.MonthlySalesResponse{Month: monthNames[i], TotalAmount: totals[i]}
	}
	return out, nil
}

// general totales de hoy, la semana (desde el lunes), el mes y el año.
func (uc *StatsUseCase) general(ctx context.Context, companyID string, today time.Time) (*dto.GeneralSalesResponse, error) {
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	weekStart := startOfWeek(today)
	rows, err := uc.repo.SalesByDay(ctx, companyID, yearStart, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	out := &dto.GeneralSalesResponse{Daily: decimal.Zero, Weekly: decimal.Zero, Monthly: decimal.Zero, Annual: decimal.Zero}
	for _, row := range rows {
		d := startOfDay(row.Day)
		out.Annual = out.Annual.Add(row.Amount)
		if !d.Before(monthStart) {
			out.Monthly = out.Monthly.Add(row.Amount)
		}
		if !d.Before(weekStart) {
			out.Weekly = out.Weekly.Add(row.Amount)
		}
		if d.Equal(today) {
			out.Daily = out.Daily.Add(row.Amount)
		}
	}
	return out, nil
}

// SalesByUser total facturado por vendedor. Sin rango completo se consideran todas las facturas.
func (uc *StatsUseCase) SalesByUser(ctx context.Context, companyID string, in dto.DateRangeRequest) ([]dto.SalesByUserResponse, error) {
	var r repository.DateRange
	if in.StartDate != "" && in.EndDate != "" {
		var err error
		if r, err = ParseOptionalRange(in); err != nil {
			return nil, err
		}
	}
	return cached(ctx, uc, cacheKey(companyID, "sales-by-user", in.StartDate, in.EndDate), func() ([]dto.SalesByUserResponse, error) {
		rows, err := uc.repo.SalesByUser(ctx, companyID, r)
		if err != nil {
			return nil, err
		}
		out := make([]dto.SalesByUserResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, dto.SalesByUserResponse{
				SaleByID:        row.UserID,
				SaleByFullname:  row.Fullname,
				SaleByDailyGoal: row.DailyGoal,
				TotalInvoice:    row.TotalInvoice,
			})
		}
		return out, nil
	})
}

// PurchaseSummary unidades y montos vendidos y obsequiados.
func (uc *StatsUseCase) PurchaseSummary(ctx context.Context, companyID string, in dto.DateRangeRequest) (*dto.PurchaseSummaryResponse, error) {
	r, err := ParseOptionalRange(in)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, cacheKey(companyID, "purchase-summary", in.StartDate, in.EndDate), func() (*dto.PurchaseSummaryResponse, error) {
		row, err := uc.repo.PurchaseSummary(ctx, companyID, r)
		if err != nil {
			return nil, err
		}
		return &dto.PurchaseSummaryResponse{
			Count:             row.Count,
			GiftCount:         row.GiftCount,
			SellingPrice:      row.SellingPrice,
			SellingPriceGifts: row.SellingPriceGifts,
			PriceDolar:        row.PriceDollar,
		}, nil
	})
}

func (uc *StatsUseCase) salesByDay(ctx context.Context, companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	rows, err := uc.repo.SalesByDay(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		k := dayKey(row.Day)
		out[k] = out[k].Add(row.Amount)
	}
	return out, nil
}

// ParseOptionalRange valida un rango YYYY-MM-DD opcional: ambos extremos o ninguno.
func ParseOptionalRange(in dto.DateRangeRequest) (repository.DateRange, error) {
	var r repository.DateRange
	switch {
	case in.StartDate == "" && in.EndDate == "":
		return r, nil
	case in.EndDate == "":
		return r, domain.ErrEndDateRequired
	case in.StartDate == "":
		return r, domain.ErrStartDateRequired
	}
	from, err := time.ParseInLocation("2006-01-02", in.StartDate, time.Local)
	if err != nil {
		return r, fmt.Errorf("start_date debe tener formato YYYY-MM-DD: %w", domain.ErrInvalidInput)
	}
	to, err := time.ParseInLocation("2006-01-02", in.EndDate, time.Local)
	if err != nil {
		return r, fmt.Errorf("end_date debe tener formato YYYY-MM-DD: %w", domain.ErrInvalidInput)
	}
	r.From, r.To = &from, &to
	return r, nil
}

// cached sirve desde la caché si hay acierto; si no, calcula con load y guarda el resultado.
func cached[T any](ctx context.Context, uc *StatsUseCase, key string, load func() (T, error)) (T, error) {
	if uc.cache != nil {
		var hit T
		ok, err := uc.cache.Get(ctx, key, &hit)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas no disponible")
		} else if ok {
			return hit, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, v, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
		}
	}
	return v, nil
}

// Invalidate descarta los resultados en caché de la empresa. Se llama después de crear,
// anular o eliminar facturas; un fallo solo se registra.
func (uc *StatsUseCase) Invalidate(ctx context.Context, companyID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cacheKey(companyID, "")); err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar la caché de estadísticas")
	}
}

func cacheKey(companyID, endpoint string, params ...string) string {
	key := "stats:" + companyID + ":" + endpoint
	for _, p := range params {
		key += ":" + p
	}
	return key
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek lunes de la semana de t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
