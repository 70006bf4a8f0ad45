package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// Reglas de negocio. El mensaje se devuelve tal cual al cliente.
var (
	ErrInvalidCredentials = errors.New("Email o contraseña invalidas")

	ErrNoActiveResolution     = errors.New("Necesita una Resolución de la DIAN activa para crear facturas")
	ErrActiveResolutionExists = errors.New("No puede tener más de una Resolución de la DIAN activa, por favor, desactive primero la actual")
	ErrResolutionExpired      = errors.New("No se puede activar una resolución despues de su fecha limite")
	ErrResolutionExhausted    = errors.New("La Resolución de la DIAN activa no tiene números disponibles")
	ErrInvalidResolutionRange = errors.New("El rango de la resolución no es válido")

	ErrInvoiceOverridden       = errors.New("La Factura ya está anulada")
	ErrInvoiceItemsRequired    = errors.New("Debe ingresar al menos un producto en la factura")
	ErrPaymentMethodsRequired  = errors.New("Debe ingresar los métodos de pago")
	ErrPaymentMethodIncomplete = errors.New("Los métodos de pago deben tener nombre, monto pagado, monto de vuelto y monto recibido")
	ErrInvoiceNumberRequired   = errors.New("Debe ingresar un número de factura")

	ErrParentGroupInactive = errors.New("Categoria padre no está activa")
	ErrSelfParentGroup     = errors.New("No puede seleccionar una categoría como su propio padre")

	ErrMovementNotPending     = errors.New("Movimiento de inventario ya aprobado o rechazado")
	ErrMovementNotApproved    = errors.New("Movimiento no aprobado, solo se puede invalidar movimientos aprobados")
	ErrInvalidMovementAction  = errors.New("Tipo de acción no válida")
	ErrInitialStateNotPending = errors.New("El estado inicial del movimiento debe ser pendiente")
	ErrMovementItemsRequired  = errors.New("Debe ingresar al menos un producto en el movimiento")

	ErrDateRangeRequired = errors.New("Debe ingresar un rango de fechas")
	ErrStartDateRequired = errors.New("Debe ingresar una fecha de inicio")
	ErrEndDateRequired   = errors.New("Debe ingresar una fecha de fin")
	ErrInvalidTimeframe  = errors.New("Param Timeframe necesario: daily, weekly or monthly")

	ErrEmptyImport  = errors.New("El archivo CSV no puede estar vacío")
	ErrFileRequired = errors.New("No se ha proporcionado un archivo")
)

// RowError describe un error de validación en una fila de un archivo importado.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("fila %d, columna %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return ErrInvalidInput }

// NotFoundError recurso inexistente con un mensaje para el cliente.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Recursos no encontrados con mensaje para el cliente.
var (
	ErrUserNotFound    error = &NotFoundError{Message: "Usuario no encontrado"}
	ErrCompanyNotFound error = &NotFoundError{Message: "Compañía no encontrada"}
	ErrInvoiceNotFound error = &NotFoundError{Message: "Factura no encontrada"}
)

// NotFound crea un ErrNotFound con mensaje propio, p. ej. "Usuario no encontrado".
func NotFound(msg string) error {
	return &NotFoundError{Message: msg}
}

// StockError indica qué producto no tiene cantidad suficiente.
type StockError struct {
	Code     string
	Location string
}

func (e *StockError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("el producto con código %s no tiene cantidad suficiente en %s", e.Code, e.Location)
	}
	return fmt.Sprintf("el producto con código %s no tiene cantidad suficiente", e.Code)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// IsBusinessRule indica si el error es una regla de negocio cuyo mensaje puede mostrarse al usuario.
func IsBusinessRule(err error) bool {
	for _, e := range businessRules {
		if errors.Is(err, e) {
			return true
		}
	}
	var rowErr *RowError
	return errors.As(err, &rowErr)
}

var businessRules = []error{
	ErrNoActiveResolution, ErrActiveResolutionExists, ErrResolutionExpired, ErrResolutionExhausted,
	ErrInvalidResolutionRange, ErrInvoiceOverridden, ErrInvoiceItemsRequired, ErrPaymentMethodsRequired,
	ErrPaymentMethodIncomplete, ErrInvoiceNumberRequired, ErrParentGroupInactive, ErrSelfParentGroup,
	ErrMovementNotPending, ErrMovementNotApproved, ErrInvalidMovementAction, ErrInitialStateNotPending,
	ErrMovementItemsRequired, ErrDateRangeRequired, ErrStartDateRequired, ErrEndDateRequired,
	ErrInvalidTimeframe, ErrEmptyImport, ErrFileRequired,
}
