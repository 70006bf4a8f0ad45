package analytics

import (
	"context"
	"time"
)

// Cache caché opcional de resultados del dashboard. Get devuelve false si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix borra todas las claves que empiezan por prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
