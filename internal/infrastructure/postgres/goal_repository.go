package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.GoalRepository = (*GoalRepo)(nil)

// GoalRepo metas de ventas sobre PostgreSQL.
type GoalRepo struct {
	q Querier
}

func NewGoalRepository(q Querier) *GoalRepo {
	return &GoalRepo{q: q}
}

func scanGoal(s pgxScanner) (*entity.Goal, error) {
	var g entity.Goal
	if err := s.Scan(&g.ID, &g.CompanyID, &g.GoalType, &g.GoalValue); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepo) Create(ctx context.Context, g *entity.Goal) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO goals (id, company_id, goal_type, goal_value) VALUES ($1, $2, $3, $4)`,
		g.ID, g.CompanyID, g.GoalType, g.GoalValue)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *GoalRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Goal, error) {
	g, err := scanGoal(r.q.QueryRow(ctx,
		`SELECT id, company_id, goal_type, goal_value FROM goals WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepo) Update(ctx context.Context, g *entity.Goal) error {
	return execAffecting(ctx, r.q, "update goal",
		`UPDATE goals SET goal_type = $3, goal_value = $4 WHERE company_id = $1 AND id = $2`,
		g.CompanyID, g.ID, g.GoalType, g.GoalValue)
}

func (r *GoalRepo) Delete(ctx context.Context, companyID, id string) error {
	return execAffecting(ctx, r.q, "delete goal", `DELETE FROM goals WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *GoalRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Goal, int, error) {
	q := newListQuery("g.company_id", f.CompanyID).keyword(f.Keyword, "g.goal_type")
	items, total, err := runList(ctx, r.q, "g.id, g.company_id, g.goal_type, g.goal_value", "goals g", q, "g.goal_type", f, scanGoal)
	if err != nil {
		return nil, 0, fmt.Errorf("list goals: %w", err)
	}
	return items, total, nil
}
