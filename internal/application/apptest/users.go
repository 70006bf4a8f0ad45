package apptest

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CompanyRepo fake de repository.CompanyRepository.
type CompanyRepo struct{ s *Store }

func (s *Store) Companies() CompanyRepo { return CompanyRepo{s} }

func (r CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.PutCompany(*c)
	return nil
}

func (r CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.PutCompany(*c)
	return nil
}

// UserRepo fake de repository.UserRepository.
type UserRepo struct{ s *Store }

func (s *Store) Users() UserRepo { return UserRepo{s} }

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return errDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.PutUser(*u)
	return nil
}

func (r UserRepo) update(id string, fn func(*entity.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	fn(&u)
	r.s.users[id] = u
	return nil
}

func (r UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r UserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *entity.User) { u.LastLogin = &at })
}

func (r UserRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.update(id, func(u *entity.User) { u.IsActive = active })
}

func (r UserRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	var rows []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID != f.CompanyID || u.IsSuperuser || !matches(f.Keyword, u.Fullname, u.Email, u.Role) {
			continue
		}
		if role := f.Filters["role"]; role != "" && u.Role != role {
			continue
		}
		u := u
		rows = append(rows, &u)
	}
	r.s.mu.Unlock()
	out, count := page(rows, f, func(u *entity.User) time.Time { return u.CreatedAt })
	return out, count, nil
}

// ActivityRepo fake de repository.UserActivityRepository.
type ActivityRepo struct{ s *Store }

func (s *Store) Activities() ActivityRepo { return ActivityRepo{s} }

func (r ActivityRepo) Create(_ context.Context, a *entity.UserActivity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activities = append(r.s.activities, *a)
	return nil
}

func (r ActivityRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.UserActivity, int, error) {
	r.s.mu.Lock()
	var rows []*entity.UserActivity
	for i := len(r.s.activities) - 1; i >= 0; i-- {
		a := r.s.activities[i]
		if a.CompanyID != f.CompanyID || !matches(f.Keyword, a.Fullname, a.Email, a.Action) {
			continue
		}
		if uid := f.Filters["user_id"]; uid != "" && a.UserID != uid {
			continue
		}
		rows = append(rows, &a)
	}
	r.s.mu.Unlock()
	return rows, len(rows), nil
}
