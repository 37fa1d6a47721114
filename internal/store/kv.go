package store

import (
	"context"
	"errors"
)

// ErrNotFound indica que la clave no existe en el backend.
var ErrNotFound = errors.New("store: key not found")

// KeyValueStore persiste documentos serializados por clave.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
