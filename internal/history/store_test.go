package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jarvis/internal/domain"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "jarvis.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := domain.Interpretation{
		Channel:   "cli",
		ChatID:    "local",
		Utterance: "call daddy",
		Intent:    "call",
		Response:  "Calling 15551234567.",
		Actions:   `[{"type":"call","phone":"15551234567"}]`,
	}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	recs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.ID == "" {
		t.Error("record should get a generated ID")
	}
	if got.Utterance != "call daddy" || got.Intent != "call" {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := store.Record(ctx, domain.Interpretation{
			Channel:   "cli",
			Utterance: string(rune('a' + i)),
			Intent:    "fallback",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	recs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Utterance != "c" || recs[1].Utterance != "b" {
		t.Errorf("wrong order: %q, %q", recs[0].Utterance, recs[1].Utterance)
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := testStore(t)

	recs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestPurgeOlderThan(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	old := domain.Interpretation{
		Channel:   "cli",
		Utterance: "old",
		Intent:    "fallback",
		CreatedAt: time.Now().AddDate(0, 0, -10),
	}
	fresh := domain.Interpretation{
		Channel:   "cli",
		Utterance: "fresh",
		Intent:    "fallback",
	}
	if err := store.Record(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	n, err := store.PurgeOlderThan(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}

	recs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Utterance != "fresh" {
		t.Errorf("got %+v", recs)
	}
}

func TestPurgeOlderThan_ZeroRetentionIsNoop(t *testing.T) {
	store := testStore(t)

	n, err := store.PurgeOlderThan(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected noop, purged %d", n)
	}
}

func TestRecord_PreservesExplicitID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, domain.Interpretation{
		ID:        "fixed-id",
		Channel:   "api",
		Utterance: "navigate to work",
		Intent:    "maps",
	}); err != nil {
		t.Fatal(err)
	}

	recs, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].ID != "fixed-id" {
		t.Errorf("ID = %q", recs[0].ID)
	}
}
