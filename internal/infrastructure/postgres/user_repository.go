package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.UserActivityRepository = (*UserActivityRepo)(nil)
)

const userColumns = `u.id, COALESCE(u.company_id::text, ''), u.fullname, u.document_type, u.document_id, u.email,
	u.password_hash, u.role, u.is_active, u.is_superuser, u.daily_goal, u.last_login, u.created_at, u.updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(s pgxScanner) (*entity.User, error) {
	var u entity.User
	err := s.Scan(
		&u.ID, &u.CompanyID, &u.Fullname, &u.DocumentType, &u.DocumentID, &u.Email,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.IsSuperuser, &u.DailyGoal, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. El email es único en todo el sistema.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
		INSERT INTO users (id, company_id, fullname, document_type, document_id, email, password_hash, role,
			is_active, is_superuser, daily_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		u.ID, nullIfEmpty(u.CompanyID), u.Fullname, u.DocumentType, u.DocumentID, u.Email, u.PasswordHash, u.Role,
		u.IsActive, u.IsSuperuser, u.DailyGoal, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (cualquier empresa).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza nombre, documento, rol y meta diaria.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const query = `
		UPDATE users SET fullname = $2, document_type = $3, document_id = $4, role = $5, daily_goal = $6, updated_at = $7
		WHERE id = $1`
	return execAffecting(ctx, r.q, "update user", query,
		u.ID, u.Fullname, u.DocumentType, u.DocumentID, u.Role, u.DailyGoal, u.UpdatedAt,
	)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return execAffecting(ctx, r.q, "update user password",
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return execAffecting(ctx, r.q, "update last login",
		`UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return execAffecting(ctx, r.q, "toggle user",
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
}

var userFilters = map[string]filterColumn{
	"role":      {column: "u.role"},
	"is_active": {column: "u.is_active", boolean: true},
}

// List lista los usuarios no superusuarios de la empresa.
func (r *UserRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	q := newListQuery("u.company_id", f.CompanyID).
		and("u.is_superuser = false").
		keyword(f.Keyword, "u.fullname", "u.email", "u.role")
	if err := q.filters(f.Filters, userFilters); err != nil {
		return nil, 0, err
	}
	users, total, err := runList(ctx, r.q, userColumns, "users u", q, "u.created_at DESC", f, scanUser)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UserActivityRepo persiste la bitácora de acciones.
type UserActivityRepo struct {
	q Querier
}

func NewUserActivityRepository(q Querier) *UserActivityRepo {
	return &UserActivityRepo{q: q}
}

func (r *UserActivityRepo) Create(ctx context.Context, a *entity.UserActivity) error {
	const query = `
		INSERT INTO user_activities (id, user_id, company_id, email, fullname, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		a.ID, nullIfEmpty(a.UserID), nullIfEmpty(a.CompanyID), a.Email, a.Fullname, a.Action, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user activity: %w", err)
	}
	return nil
}

var activityFilters = map[string]filterColumn{
	"user_id": {column: "a.user_id"},
}

func (r *UserActivityRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.UserActivity, int, error) {
	q := newListQuery("a.company_id", f.CompanyID).keyword(f.Keyword, "a.fullname", "a.email", "a.action")
	if err := q.filters(f.Filters, activityFilters); err != nil {
		return nil, 0, err
	}
	const cols = `a.id, COALESCE(a.user_id::text, ''), COALESCE(a.company_id::text, ''), a.email, a.fullname, a.action, a.created_at`
	items, total, err := runList(ctx, r.q, cols, "user_activities a", q, "a.created_at DESC", f,
		func(s pgxScanner) (*entity.UserActivity, error) {
			var a entity.UserActivity
			if err := s.Scan(&a.ID, &a.UserID, &a.CompanyID, &a.Email, &a.Fullname, &a.Action, &a.CreatedAt); err != nil {
				return nil, err
			}
			return &a, nil
		})
	if err != nil {
		return nil, 0, fmt.Errorf("list user activities: %w", err)
	}
	return items, total, nil
}
