package repository

// MaxUnpagedRows tope de filas cuando el listado no se pagina.
const MaxUnpagedRows = 10000

// ListFilter parámetros comunes de los listados: empresa, búsqueda por palabras clave,
// filtros exactos (ya validados contra la lista blanca de cada entidad) y paginación.
type ListFilter struct {
	CompanyID string
	Keyword   string
	Filters   map[string]string
	Page      int // 0 = sin paginar
	PageSize  int
}

// Limit devuelve el LIMIT SQL.
func (f ListFilter) Limit() int {
	if f.Page <= 0 {
		return MaxUnpagedRows
	}
	if f.PageSize <= 0 {
		return 10
	}
	return f.PageSize
}

// Offset devuelve el OFFSET SQL.
func (f ListFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}
