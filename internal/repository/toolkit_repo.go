package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"journal-insight/internal/domain"
	"journal-insight/internal/store"
)

// ToolkitRepository define el contrato de persistencia del toolkit emocional de cada usuario.
type ToolkitRepository interface {
	Get(ctx context.Context, userID string) ([]domain.EmotionalToolkitItem, error)
	Save(ctx context.Context, userID string, items []domain.EmotionalToolkitItem) error
}

// KVToolkitRepository guarda el toolkit como un documento JSON por usuario.
type KVToolkitRepository struct {
	kv store.KeyValueStore
}

func NewKVToolkitRepository(kv store.KeyValueStore) *KVToolkitRepository {
	return &KVToolkitRepository{kv: kv}
}

func toolkitKey(userID string) string {
	return "toolkit:" + userID
}

// Get devuelve una lista vacía si el usuario todavía no guardó nada.
func (r *KVToolkitRepository) Get(ctx context.Context, userID string) ([]domain.EmotionalToolkitItem, error) {
	raw, err := r.kv.Get(ctx, toolkitKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return []domain.EmotionalToolkitItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get toolkit: %w", err)
	}

	var items []domain.EmotionalToolkitItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode toolkit: %w", err)
	}
	if items == nil {
		items = []domain.EmotionalToolkitItem{}
	}
	return items, nil
}

func (r *KVToolkitRepository) Save(ctx context.Context, userID string, items []domain.EmotionalToolkitItem) error {
	if items == nil {
		items = []domain.EmotionalToolkitItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode toolkit: %w", err)
	}
	if err := r.kv.Set(ctx, toolkitKey(userID), string(b)); err != nil {
		return fmt.Errorf("save toolkit: %w", err)
	}
	return nil
}
