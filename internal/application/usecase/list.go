package usecase

import (
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ListFilter traduce los parámetros de listado al filtro del repositorio, acotado a la empresa.
func ListFilter(companyID string, q dto.ListQuery) repository.ListFilter {
	return repository.ListFilter{
		CompanyID: companyID,
		Keyword:   q.Keyword,
		Filters:   q.Filters,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
}

// ListResponse arma la respuesta paginada convirtiendo cada fila con conv.
func ListResponse[E any, R any](f repository.ListFilter, rows []E, count int, conv func(E) R) *dto.ListResponse[R] {
	out := &dto.ListResponse[R]{Count: count, Results: make([]R, 0, len(rows))}
	if f.Page > 0 {
		out.Page = f.Page
		out.PageSize = f.Limit()
	}
	for _, row := range rows {
		out.Results = append(out.Results, conv(row))
	}
	return out
}
