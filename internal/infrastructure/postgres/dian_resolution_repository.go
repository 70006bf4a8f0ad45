package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.DianResolutionRepository = (*DianResolutionRepo)(nil)

// DianResolutionRepo implementa DianResolutionRepository sobre PostgreSQL.
type DianResolutionRepo struct {
	q Querier
}

// NewDianResolutionRepository construye el repositorio.
func NewDianResolutionRepository(q Querier) *DianResolutionRepo {
	return &DianResolutionRepo{q: q}
}

const resolutionColumns = `r.id, r.company_id, COALESCE(r.created_by_id::text, ''), r.document_number, r.from_date, r.to_date,
	r.from_number, r.to_number, r.current_number, r.active, r.created_at`

func scanResolution(s pgxScanner) (*entity.DianResolution, error) {
	var r entity.DianResolution
	err := s.Scan(&r.ID, &r.CompanyID, &r.CreatedByID, &r.DocumentNumber, &r.FromDate, &r.ToDate,
		&r.FromNumber, &r.ToNumber, &r.CurrentNumber, &r.Active, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persiste la resolución. Una segunda activa choca con uq_dian_resolutions_active.
func (r *DianResolutionRepo) Create(ctx context.Context, res *entity.DianResolution) error {
	const query = `
		INSERT INTO dian_resolutions
			(id, company_id, created_by_id, document_number, from_date, to_date, from_number, to_number, current_number, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.CompanyID, nullIfEmpty(res.CreatedByID), res.DocumentNumber, res.FromDate, res.ToDate,
		res.FromNumber, res.ToNumber, res.CurrentNumber, res.Active, res.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert dian_resolution: %w", err)
	}
	return nil
}

func (r *DianResolutionRepo) GetByID(ctx context.Context, companyID, id string) (*entity.DianResolution, error) {
	return r.get(ctx, "get dian_resolution by id",
		`SELECT `+resolutionColumns+` FROM dian_resolutions r WHERE r.company_id = $1 AND r.id = $2`, companyID, id)
}

// GetActive devuelve nil, nil si la empresa no tiene resolución activa.
func (r *DianResolutionRepo) GetActive(ctx context.Context, companyID string) (*entity.DianResolution, error) {
	return r.get(ctx, "get active dian_resolution",
		`SELECT `+resolutionColumns+` FROM dian_resolutions r WHERE r.company_id = $1 AND r.active`, companyID)
}

// GetActiveForUpdate es la consulta crítica de la numeración: bloquea la resolución activa
// y serializa la creación concurrente de facturas de la misma empresa.
func (r *DianResolutionRepo) GetActiveForUpdate(ctx context.Context, companyID string) (*entity.DianResolution, error) {
	return r.get(ctx, "lock active dian_resolution",
		`SELECT `+resolutionColumns+` FROM dian_resolutions r WHERE r.company_id = $1 AND r.active FOR UPDATE`, companyID)
}

func (r *DianResolutionRepo) get(ctx context.Context, op, query string, args ...any) (*entity.DianResolution, error) {
	res, err := scanResolution(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Update guarda los campos editables. current_number nunca baja: si una factura lo avanzó
// entre la lectura y esta escritura se conserva el valor mayor.
func (r *DianResolutionRepo) Update(ctx context.Context, res *entity.DianResolution) error {
	const query = `
		UPDATE dian_resolutions SET document_number = $3, from_date = $4, to_date = $5, from_number = $6,
			to_number = $7, active = $8, current_number = GREATEST(current_number, $9)
		WHERE company_id = $1 AND id = $2`
	return execAffecting(ctx, r.q, "update dian_resolution", query,
		res.CompanyID, res.ID, res.DocumentNumber, res.FromDate, res.ToDate, res.FromNumber, res.ToNumber, res.Active,
		res.CurrentNumber)
}

func (r *DianResolutionRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete dian_resolution",
		`DELETE FROM dian_resolutions WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *DianResolutionRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle dian_resolution",
		`UPDATE dian_resolutions SET active = $3 WHERE company_id = $1 AND id = $2`, companyID, id, active)
}

func (r *DianResolutionRepo) UpdateCurrentNumber(ctx context.Context, id string, current int64) error {
	return execAffecting(ctx, r.q, "update dian_resolution current number",
		`UPDATE dian_resolutions SET current_number = $2 WHERE id = $1`, id, current)
}

func (r *DianResolutionRepo) DeactivateExpired(ctx context.Context, companyID string, today time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE dian_resolutions SET active = false WHERE company_id = $1 AND active AND to_date < $2::date`,
		companyID, today)
	if err != nil {
		return fmt.Errorf("deactivate expired dian_resolution: %w", err)
	}
	return nil
}

func (r *DianResolutionRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.DianResolution, int, error) {
	q := newListQuery("r.company_id", f.CompanyID).keyword(f.Keyword, "r.document_number")
	if err := q.filters(f.Filters, map[string]filterColumn{"active": {column: "r.active", boolean: true}}); err != nil {
		return nil, 0, err
	}
	items, total, err := runList(ctx, r.q, resolutionColumns, "dian_resolutions r", q, "r.created_at DESC", f, scanResolution)
	if err != nil {
		return nil, 0, fmt.Errorf("list dian_resolutions: %w", err)
	}
	return items, total, nil
}
