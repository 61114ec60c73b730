package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(setupTestDB(t), log.New(io.Discard))
}

func sampleItem(id string) models.HistoryItem {
	return models.HistoryItem{
		ID:       id,
		FileName: id + ".mp3",
		Result: models.AnalysisResult{
			File: models.FileInfo{Name: id + ".mp3", Size: 42},
			Top3: []models.Genre{{Genre: "Indie Rock", Probability: 0.65}, {Genre: "Alternative", Probability: 0.25}, {Genre: "Shoegaze", Probability: 0.10}},
		},
		Timestamp: "2025-01-01T12:00:00Z",
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		store := setupTestStore(t)
		_, ok, err := store.Get(ctx, KeyTheme)
		if err != nil || ok {
			t.Errorf("expected missing key, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Set(ctx, KeyTheme, "light"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		if err := store.Set(ctx, KeyTheme, "dark"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		got, ok, err := store.Get(ctx, KeyTheme)
		if err != nil || !ok || got != "dark" {
			t.Errorf("expected dark, got %q ok=%v err=%v", got, ok, err)
		}
	})

	t.Run("GetJSON reports malformed values", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Set(ctx, KeyHistory, "{not json"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		var items []models.HistoryItem
		if _, err := store.GetJSON(ctx, KeyHistory, &items); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})

	t.Run("Commit writes all keys", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Commit(ctx, Batch{KeyDate: "2025-01-01", KeyCount: "7"}); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		for key, want := range map[string]string{KeyDate: "2025-01-01", KeyCount: "7"} {
			if got, _, _ := store.Get(ctx, key); got != want {
				t.Errorf("%s: expected %q, got %q", key, want, got)
			}
		}
	})

	t.Run("Commit on a closed database fails", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewStore(db, log.New(io.Discard))
		db.Close()

		if err := store.Commit(ctx, Batch{KeyCount: "1"}); err == nil {
			t.Error("expected error from closed database")
		}
	})
}

func TestQuotaManager(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)

	t.Run("first run initializes to max", func(t *testing.T) {
		q := NewQuotaManager(setupTestStore(t), 20, log.New(io.Discard))
		state, err := q.CheckAndReset(ctx, day)
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if state.Remaining != 20 || state.Date != "2025-06-01" {
			t.Errorf("unexpected state %+v", state)
		}
	})

	t.Run("same day keeps stored count", func(t *testing.T) {
		store := setupTestStore(t)
		q := NewQuotaManager(store, 20, log.New(io.Discard))
		if err := q.Save(ctx, models.QuotaState{Date: "2025-06-01", Remaining: 3}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		for range 2 {
			state, err := q.CheckAndReset(ctx, day.Add(time.Hour))
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if state.Remaining != 3 {
				t.Errorf("expected 3 remaining, got %d", state.Remaining)
			}
		}
	})

	t.Run("date rollover resets", func(t *testing.T) {
		store := setupTestStore(t)
		q := NewQuotaManager(store, 20, log.New(io.Discard))
		if err := q.Save(ctx, models.QuotaState{Date: "2025-05-31", Remaining: 0}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		state, err := q.CheckAndReset(ctx, day)
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if state.Remaining != 20 {
			t.Errorf("expected reset to 20, got %d", state.Remaining)
		}
		if got, _, _ := store.Get(ctx, KeyDate); got != "2025-06-01" {
			t.Errorf("expected persisted date 2025-06-01, got %q", got)
		}
	})

	t.Run("malformed count resets", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Commit(ctx, Batch{KeyDate: "2025-06-01", KeyCount: "many"}); err != nil {
			t.Fatalf("commit failed: %v", err)
		}

		q := NewQuotaManager(store, 20, log.New(io.Discard))
		state, err := q.CheckAndReset(ctx, day)
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if state.Remaining != 20 {
			t.Errorf("expected reset to 20, got %d", state.Remaining)
		}
	})

	t.Run("TryConsume", func(t *testing.T) {
		q := NewQuotaManager(setupTestStore(t), 20, log.New(io.Discard))
		tests := []struct {
			remaining int
			want      int
			wantErr   error
		}{
			{remaining: 20, want: 19},
			{remaining: 1, want: 0},
			{remaining: 0, want: 0, wantErr: shared.ErrQuotaExceeded},
			{remaining: -1, want: -1, wantErr: shared.ErrQuotaExceeded},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprint(tt.remaining), func(t *testing.T) {
				got, err := q.TryConsume(models.QuotaState{Date: "2025-06-01", Remaining: tt.remaining})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if got.Remaining != tt.want {
					t.Errorf("expected %d remaining, got %d", tt.want, got.Remaining)
				}
			})
		}
	})

	t.Run("twenty first consume is rejected", func(t *testing.T) {
		q := NewQuotaManager(setupTestStore(t), 20, log.New(io.Discard))
		state, _ := q.CheckAndReset(ctx, day)

		var err error
		for range 20 {
			if state, err = q.TryConsume(state); err != nil {
				t.Fatalf("unexpected error before limit: %v", err)
			}
		}
		if _, err := q.TryConsume(state); !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("expected ErrQuotaExceeded, got %v", err)
		}
	})
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty load", func(t *testing.T) {
		h := NewHistoryStore(setupTestStore(t), 10, log.New(io.Discard))
		items, err := h.Load(ctx)
		if err != nil || len(items) != 0 || items == nil {
			t.Errorf("expected empty non-nil slice, got %v err=%v", items, err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		h := NewHistoryStore(setupTestStore(t), 10, log.New(io.Discard))
		want := []models.HistoryItem{sampleItem("b"), sampleItem("a")}
		if err := h.Save(ctx, want); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := h.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "b" || got[1].Result.Top3[2].Genre != "Shoegaze" {
			t.Errorf("unexpected history %+v", got)
		}
	})

	t.Run("malformed history falls back to empty", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Set(ctx, KeyHistory, "[{"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		h := NewHistoryStore(store, 10, log.New(io.Discard))
		items, err := h.Load(ctx)
		if err != nil || len(items) != 0 {
			t.Errorf("expected empty history, got %v err=%v", items, err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		h := NewHistoryStore(setupTestStore(t), 10, log.New(io.Discard))
		if err := h.Save(ctx, []models.HistoryItem{sampleItem("x")}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if item, err := h.Get(ctx, "x"); err != nil || item.FileName != "x.mp3" {
			t.Errorf("expected x.mp3, got %+v err=%v", item, err)
		}
		if _, err := h.Get(ctx, "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		h := NewHistoryStore(setupTestStore(t), 10, log.New(io.Discard))
		_ = h.Save(ctx, []models.HistoryItem{sampleItem("x")})
		if err := h.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if items, _ := h.Load(ctx); len(items) != 0 {
			t.Errorf("expected empty history after clear, got %d", len(items))
		}
	})

	t.Run("PrependHistory caps and orders", func(t *testing.T) {
		var items []models.HistoryItem
		for i := range 12 {
			items = PrependHistory(items, sampleItem(fmt.Sprint(i)), 10)
		}

		if len(items) != 10 {
			t.Fatalf("expected 10 items, got %d", len(items))
		}
		if items[0].ID != "11" || items[9].ID != "2" {
			t.Errorf("expected newest first and oldest evicted, got first=%s last=%s", items[0].ID, items[9].ID)
		}
	})

	t.Run("PrependHistory does not alias input", func(t *testing.T) {
		base := []models.HistoryItem{sampleItem("a"), sampleItem("b")}
		_ = PrependHistory(base, sampleItem("c"), 10)
		if base[0].ID != "a" {
			t.Error("input slice was modified")
		}
	})
}

func TestCommunityBoard(t *testing.T) {
	t.Run("seeded", func(t *testing.T) {
		b := NewCommunityBoard(DefaultCommunityEntries())
		if b.Len() != 5 {
			t.Errorf("expected 5 seed entries, got %d", b.Len())
		}
	})

	t.Run("Add prepends with fresh id", func(t *testing.T) {
		b := NewCommunityBoard(DefaultCommunityEntries())
		e1 := b.Add(models.CommunityEntry{Title: "Clair de Lune", Composer: "Debussy", Genre1: "Impressionism"})
		e2 := b.Add(models.CommunityEntry{Title: "Clair de Lune", Composer: "Debussy", Genre1: "Impressionism"})

		if e1.ID == "" || e1.ID == e2.ID {
			t.Errorf("expected distinct ids, got %q %q", e1.ID, e2.ID)
		}
		all := b.All()
		if all[0].ID != e2.ID || len(all) != 7 {
			t.Errorf("expected newest first and duplicates kept, got %d entries", len(all))
		}
	})

	t.Run("Search", func(t *testing.T) {
		b := NewCommunityBoard(DefaultCommunityEntries())
		tests := []struct {
			term string
			want []string
		}{
			{term: "", want: []string{"1", "2", "3", "4", "5"}},
			{term: "   ", want: []string{"1", "2", "3", "4", "5"}},
			{term: "jazz", want: []string{"4"}},
			{term: "QUEEN", want: []string{"1"}},
			{term: "alternative", want: []string{"3"}},
			{term: "grunge, alt", want: []string{"3"}},
			{term: "zzz", want: nil},
		}

		for _, tt := range tests {
			t.Run(tt.term, func(t *testing.T) {
				got := b.Search(tt.term)
				if len(got) != len(tt.want) {
					t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
				}
				for i, id := range tt.want {
					if got[i].ID != id {
						t.Errorf("result %d: expected id %s, got %s", i, id, got[i].ID)
					}
				}
			})
		}
	})

	t.Run("ValidateEntry", func(t *testing.T) {
		tests := []struct {
			name    string
			entry   models.CommunityEntry
			wantErr bool
		}{
			{"complete", models.CommunityEntry{Title: "a", Composer: "b", Genre1: "c"}, false},
			{"optional genres empty", models.CommunityEntry{Title: "a", Composer: "b", Genre1: "c", Genre3: "d"}, false},
			{"blank title", models.CommunityEntry{Title: "  ", Composer: "b", Genre1: "c"}, true},
			{"missing genre1", models.CommunityEntry{Title: "a", Composer: "b", Genre2: "c"}, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := ValidateEntry(tt.entry)
				if (err != nil) != tt.wantErr {
					t.Errorf("unexpected error state: %v", err)
				}
				if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("EntryFromResult", func(t *testing.T) {
		e := EntryFromResult(" Song ", "Band", sampleItem("x").Result)
		if e.Title != "Song" || e.Genre1 != "Indie Rock" || e.Genre3 != "Shoegaze" {
			t.Errorf("unexpected entry %+v", e)
		}
	})
}

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		s := NewSettingsStore(setupTestStore(t), log.New(io.Discard))
		got, err := s.Load(ctx, models.LocaleKorean)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Theme != models.ThemeLight || got.Locale != models.LocaleKorean {
			t.Errorf("unexpected defaults %+v", got)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		s := NewSettingsStore(setupTestStore(t), log.New(io.Discard))
		want := models.Settings{Theme: models.ThemeDark, Locale: models.LocaleKorean}
		if err := s.Save(ctx, want); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, _ := s.Load(ctx, models.LocaleEnglish)
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("unknown stored values fall back", func(t *testing.T) {
		store := setupTestStore(t)
		_ = store.Commit(ctx, Batch{KeyTheme: "sepia", KeyLocale: "fr"})

		got, err := NewSettingsStore(store, log.New(io.Discard)).Load(ctx, models.Locale("xx"))
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got != models.DefaultSettings() {
			t.Errorf("expected defaults, got %+v", got)
		}
	})
}
