package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"journal-insight/internal/domain"
	"journal-insight/internal/store"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStore) Set(context.Context, string, string) error { return f.err }

func TestKVToolkitRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVToolkitRepository(store.NewMemoryStore())

	items, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty toolkit, got %#v", items)
	}

	want := []domain.EmotionalToolkitItem{{Emotion: "Anxiety", Actions: []string{"Call mom", "Walk"}}}
	if err := repo.Save(ctx, "u1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Emotion != "Anxiety" || len(got[0].Actions) != 2 {
		t.Fatalf("unexpected toolkit %+v", got)
	}

	other, _ := repo.Get(ctx, "u2")
	if len(other) != 0 {
		t.Fatalf("toolkits must be isolated per user, got %+v", other)
	}
}

func TestKVToolkitRepository_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	_ = kv.Set(ctx, toolkitKey("u1"), "{not json")

	if _, err := NewKVToolkitRepository(kv).Get(ctx, "u1"); err == nil || !strings.Contains(err.Error(), "decode toolkit") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestKVEntryRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewKVEntryRepository(store.NewMemoryStore())

	first, err := repo.Create(ctx, domain.JournalEntry{UserID: "u1", Text: "first"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", first)
	}

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	analysis := &domain.AnalysisResult{Reflection: "ok", Emotion: domain.EmotionResult{Emotion: "calm"}}
	second, err := repo.Create(ctx, domain.JournalEntry{ID: "custom", UserID: "u1", Text: "second", CreatedAt: fixed, Analysis: analysis})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID != "custom" || !second.CreatedAt.Equal(fixed) {
		t.Fatalf("expected caller id and timestamp kept, got %+v", second)
	}

	list, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "custom" || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Analysis == nil || list[0].Analysis.Emotion.Emotion != "calm" {
		t.Fatalf("expected analysis persisted, got %+v", list[0].Analysis)
	}

	empty, err := repo.ListByUser(ctx, "nobody")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %#v (%v)", empty, err)
	}
}

func TestKVEntryRepository_Cap(t *testing.T) {
	ctx := context.Background()
	repo := NewKVEntryRepository(store.NewMemoryStore())
	for i := 0; i < maxEntriesPerUser+5; i++ {
		if _, err := repo.Create(ctx, domain.JournalEntry{UserID: "u1", Text: "x"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	list, _ := repo.ListByUser(ctx, "u1")
	if len(list) != maxEntriesPerUser {
		t.Fatalf("expected %d entries, got %d", maxEntriesPerUser, len(list))
	}
}

func TestKVEntryRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := NewKVEntryRepository(failingStore{err: boom})

	if _, err := repo.Create(ctx, domain.JournalEntry{UserID: "u1"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := repo.ListByUser(ctx, "u1"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
