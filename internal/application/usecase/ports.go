package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CatalogTxRunner ejecuta una función dentro de una transacción con los repos de catálogo.
// Se usa en la importación masiva y al desactivar una categoría con sus hijas.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		groupRepo repository.InventoryGroupRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StoredObject resultado de subir un archivo al almacenamiento de objetos.
type StoredObject struct {
	Key          string
	FinalURL     string
	PresignedURL string
}

// FileStorage puerto del almacenamiento de fotos de productos.
type FileStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*StoredObject, error)
}

// SheetReader lee las filas de un archivo tabular (CSV o XLSX según el nombre).
type SheetReader interface {
	Rows(filename string, r io.Reader) ([][]string, error)
}

// EventCounter cuenta eventos de negocio (facturas creadas, anuladas, transiciones de movimientos).
type EventCounter interface {
	Inc(event string)
}

// NopCounter descarta los eventos.
type NopCounter struct{}

func (NopCounter) Inc(string) {}
