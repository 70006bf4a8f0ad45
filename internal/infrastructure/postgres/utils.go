package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Querier lo satisfacen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scanX.
type pgxScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullIfEmpty convierte "" en NULL para columnas UUID opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

var searchTerms = regexp.MustCompile(`"([^"]+)"|(\S+)`)

// splitKeyword separa la búsqueda en términos; una frase entre comillas dobles cuenta como uno solo.
func splitKeyword(keyword string) []string {
	var terms []string
	for _, m := range searchTerms.FindAllStringSubmatch(keyword, -1) {
		term := m[1]
		if term == "" {
			term = m[2]
		}
		term = strings.Join(strings.Fields(term), " ")
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// filterColumn columna SQL de un filtro exacto; boolean convierte el valor con strconv.ParseBool.
type filterColumn struct {
	column  string
	boolean bool
	number  bool
}

// listQuery arma el WHERE de los listados con argumentos posicionales.
type listQuery struct {
	args  []any
	where []string
}

func newListQuery(companyColumn, companyID string) *listQuery {
	q := &listQuery{}
	q.where = append(q.where, companyColumn+" = "+q.arg(companyID))
	return q
}

func (q *listQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// and agrega una condición cruda.
func (q *listQuery) and(cond string) *listQuery {
	q.where = append(q.where, cond)
	return q
}

// keyword exige que cada término aparezca (ILIKE) en al menos uno de los campos.
func (q *listQuery) keyword(keyword string, fields ...string) *listQuery {
	for _, term := range splitKeyword(keyword) {
		p := q.arg("%" + term + "%")
		ors := make([]string, len(fields))
		for i, f := range fields {
			ors[i] = fmt.Sprintf("COALESCE(%s::text, '') ILIKE %s", f, p)
		}
		q.where = append(q.where, "("+strings.Join(ors, " OR ")+")")
	}
	return q
}

// filters aplica los filtros exactos permitidos. Los parámetros desconocidos se ignoran.
func (q *listQuery) filters(values map[string]string, allowed map[string]filterColumn) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := allowed[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		col := allowed[k]
		raw := values[k]
		switch {
		case col.boolean:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: filtro %s debe ser booleano", domain.ErrInvalidInput, k)
			}
			q.where = append(q.where, col.column+" = "+q.arg(b))
		case col.number:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: filtro %s debe ser numérico", domain.ErrInvalidInput, k)
			}
			q.where = append(q.where, col.column+" = "+q.arg(n))
		default:
			q.where = append(q.where, col.column+"::text = "+q.arg(raw))
		}
	}
	return nil
}

func (q *listQuery) clause() string {
	return " WHERE " + strings.Join(q.where, " AND ")
}

// runList ejecuta el COUNT y la consulta paginada. from incluye tabla y joins; cols la lista de columnas.
func runList[T any](
	ctx context.Context,
	db Querier,
	cols, from string,
	q *listQuery,
	orderBy string,
	f repository.ListFilter,
	scan func(pgxScanner) (T, error),
) ([]T, int, error) {
	var total int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+q.clause(), q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	args := append([]any{}, q.args...)
	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT %d OFFSET %d",
		cols, from, q.clause(), orderBy, f.Limit(), f.Offset())
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

// execAffecting ejecuta un UPDATE/DELETE y devuelve domain.ErrNotFound si no afectó filas.
func execAffecting(ctx context.Context, db Querier, op, sql string, args ...any) error {
	cmd, err := db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
