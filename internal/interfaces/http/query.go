package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

// reserved parámetros de listado que no son filtros exactos.
var reserved = map[string]struct{}{"keyword": {}, "page": {}, "page_size": {}}

// listQuery lee ?keyword=&page=&page_size=; el resto de parámetros se pasa como filtro
// y el repositorio ignora los que no están en su lista blanca.
func listQuery(c *fiber.Ctx) dto.ListQuery {
	q := dto.ListQuery{
		Keyword:  c.Query("keyword"),
		Page:     c.QueryInt("page", 0),
		PageSize: c.QueryInt("page_size", 0),
		Filters:  map[string]string{},
	}
	if q.Page < 0 {
		q.Page = 0
	}
	for k, v := range c.Queries() {
		if _, skip := reserved[k]; !skip && v != "" {
			q.Filters[k] = v
		}
	}
	return q
}

// dateRange lee {start_date, end_date} del body; un body vacío es un rango vacío.
func dateRange(c *fiber.Ctx) (dto.DateRangeRequest, bool) {
	var in dto.DateRangeRequest
	if len(c.Body()) == 0 {
		return in, true
	}
	if err := c.BodyParser(&in); err != nil {
		return in, false
	}
	return in, true
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}
