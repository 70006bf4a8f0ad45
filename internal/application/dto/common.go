package dto

// ListQuery parámetros comunes de los listados (?keyword=&page=&page_size= y filtros exactos).
type ListQuery struct {
	Keyword  string
	Page     int
	PageSize int
	Filters  map[string]string
}

// ListResponse respuesta paginada: count es el total de filas que cumplen el filtro.
type ListResponse[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
	Results  []T `json:"results"`
}

// MessageResponse respuesta con mensaje y datos opcionales.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateRangeRequest rango de fechas YYYY-MM-DD de estadísticas y reportes.
type DateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
