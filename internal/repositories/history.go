package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// DefaultHistoryLimit is the number of analyses kept.
const DefaultHistoryLimit = 10

// HistoryStore persists the most recent analyses, newest first.
type HistoryStore struct {
	store  *Store
	limit  int
	logger *log.Logger
}

// NewHistoryStore creates a [HistoryStore] keeping at most limit items.
func NewHistoryStore(store *Store, limit int, logger *log.Logger) *HistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryStore{store: store, limit: limit, logger: shared.WithLogger(logger, "component", "history")}
}

// Limit returns the capacity.
func (h *HistoryStore) Limit() int { return h.limit }

// Load returns the stored history. Malformed data is logged and treated as
// empty; it is overwritten by the next successful write.
func (h *HistoryStore) Load(ctx context.Context) ([]models.HistoryItem, error) {
	var items []models.HistoryItem
	if _, err := h.store.GetJSON(ctx, KeyHistory, &items); err != nil {
		if errors.Is(err, shared.ErrStorage) {
			h.logger.Warn("discarding unreadable history", "err", err)
			return []models.HistoryItem{}, nil
		}
		return nil, err
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	if len(items) > h.limit {
		items = items[:h.limit]
	}
	return items, nil
}

// Get finds an item by id.
func (h *HistoryStore) Get(ctx context.Context, id string) (models.HistoryItem, error) {
	items, err := h.Load(ctx)
	if err != nil {
		return models.HistoryItem{}, err
	}
	if item, ok := FindHistory(items, id); ok {
		return item, nil
	}
	return models.HistoryItem{}, fmt.Errorf("%w: history item %s", shared.ErrNotFound, id)
}

// Save replaces the stored history, truncated to the limit.
func (h *HistoryStore) Save(ctx context.Context, items []models.HistoryItem) error {
	b := Batch{}
	if err := h.Stage(b, items); err != nil {
		return err
	}
	return h.store.Commit(ctx, b)
}

// Stage adds the encoded history to b without writing.
func (h *HistoryStore) Stage(b Batch, items []models.HistoryItem) error {
	if len(items) > h.limit {
		items = items[:h.limit]
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	return b.SetJSON(KeyHistory, items)
}

// Clear removes all history.
func (h *HistoryStore) Clear(ctx context.Context) error {
	return h.store.Delete(ctx, KeyHistory)
}

// PrependHistory returns a new slice with item first, truncated to limit.
// The input slice is not modified.
func PrependHistory(items []models.HistoryItem, item models.HistoryItem, limit int) []models.HistoryItem {
	n := min(len(items), max(limit-1, 0))
	out := make([]models.HistoryItem, 0, n+1)
	out = append(out, item)
	return append(out, items[:n]...)
}

// FindHistory looks up id in items.
func FindHistory(items []models.HistoryItem, id string) (models.HistoryItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return models.HistoryItem{}, false
}
