package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"journal-insight/internal/domain"
	"journal-insight/internal/store"
)

const maxEntriesPerUser = 200

type EntryRepository interface {
	Create(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error)
}

// KVEntryRepository mantiene las entradas de cada usuario en un único documento, la más reciente primero.
type KVEntryRepository struct {
	kv store.KeyValueStore
	// mu serializa el read-modify-write dentro del proceso.
	mu sync.Mutex
}

func NewKVEntryRepository(kv store.KeyValueStore) *KVEntryRepository {
	return &KVEntryRepository{kv: kv}
}

func entriesKey(userID string) string {
	return "entries:" + userID
}

// Create asigna ID y fecha si faltan y descarta las entradas más viejas por encima del límite.
func (r *KVEntryRepository) Create(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx, entry.UserID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entries = append([]domain.JournalEntry{entry}, entries...)
	if len(entries) > maxEntriesPerUser {
		entries = entries[:maxEntriesPerUser]
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("encode entries: %w", err)
	}
	if err := r.kv.Set(ctx, entriesKey(entry.UserID), string(b)); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("save entries: %w", err)
	}
	return entry, nil
}

func (r *KVEntryRepository) ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, userID)
}

func (r *KVEntryRepository) load(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	raw, err := r.kv.Get(ctx, entriesKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return []domain.JournalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}

	var entries []domain.JournalEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}
