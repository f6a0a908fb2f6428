package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pagesnap/pagesnap/internal/history"
	"github.com/pagesnap/pagesnap/internal/testutil"
)

func newStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(&testutil.DummyLogger{}, history.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndGet(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	stored, err := store.Record(ctx, &history.Record{
		URL:        "http://localhost:3000/",
		URLKey:     "http://localhost:3000",
		OutputPath: "/tmp/out.png",
		Width:      1400,
		Height:     900,
		BudgetMS:   5000,
		Title:      "Instant page",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("Record left ID empty")
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("Record left CreatedAt zero")
	}

	got, err := store.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URL != stored.URL || got.Title != stored.Title || got.Width != 1400 {
		t.Errorf("Get returned %+v, want fields from %+v", got, stored)
	}
}

func TestStore_GetUnknownID(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestStore_LastByKey(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.LastByKey(ctx, "http://example.com"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("LastByKey on empty store = %v, want ErrNotFound", err)
	}

	for i, hash := range []string{"aaa", "bbb", "ccc"} {
		_, err := store.Record(ctx, &history.Record{
			URL:         "http://example.com/",
			URLKey:      "http://example.com",
			OutputPath:  "/tmp/out.png",
			Width:       1400,
			Height:      900,
			BudgetMS:    5000,
			ContentHash: hash,
		})
		if err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	last, err := store.LastByKey(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("LastByKey: %v", err)
	}
	if last.ContentHash != "ccc" {
		t.Errorf("LastByKey returned hash %q, want %q", last.ContentHash, "ccc")
	}
}

func TestStore_List(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, &history.Record{
			URL:        "http://example.com/",
			URLKey:     "http://example.com",
			OutputPath: "/tmp/out.png",
			Width:      1400,
			Height:     900,
			BudgetMS:   5000,
		})
		if err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	recs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List returned %d records, want 3", len(recs))
	}
}

func TestDiffStats(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name         string
		base, head   string
		wantInserted bool
		wantDeleted  bool
	}{
		{"identical", "<p>same</p>", "<p>same</p>", false, false},
		{"pure insert", "<p>a</p>", "<p>a and more</p>", true, false},
		{"pure delete", "<p>a and more</p>", "<p>a</p>", false, true},
		{"replace", "<p>old text</p>", "<p>new words</p>", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ins, del := history.DiffStats(tc.base, tc.head)
			if (ins > 0) != tc.wantInserted {
				t.Errorf("inserted = %d, want >0 == %v", ins, tc.wantInserted)
			}
			if (del > 0) != tc.wantDeleted {
				t.Errorf("deleted = %d, want >0 == %v", del, tc.wantDeleted)
			}
		})
	}
}
