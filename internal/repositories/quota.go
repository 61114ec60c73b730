package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// DefaultDailyQuota is the number of analyses allowed per calendar day.
const DefaultDailyQuota = 20

// QuotaManager tracks the daily analysis allowance in the [Store].
//
// The day boundary is the local calendar date; no timezone normalization is
// applied, so a changed system clock or timezone may reset early or late.
type QuotaManager struct {
	store  *Store
	max    int
	logger *log.Logger
}

// NewQuotaManager creates a [QuotaManager] allowing perDay analyses per day.
func NewQuotaManager(store *Store, perDay int, logger *log.Logger) *QuotaManager {
	if perDay < 0 {
		perDay = DefaultDailyQuota
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &QuotaManager{store: store, max: perDay, logger: shared.WithLogger(logger, "component", "quota")}
}

// Max returns the daily allowance.
func (q *QuotaManager) Max() int { return q.max }

// CheckAndReset returns today's quota, resetting it to the maximum when the
// stored date is not today or the stored count is missing or malformed.
// Calling it repeatedly within one day is idempotent.
func (q *QuotaManager) CheckAndReset(ctx context.Context, now time.Time) (models.QuotaState, error) {
	today := shared.Today(now)

	date, hasDate, err := q.store.Get(ctx, KeyDate)
	if err != nil {
		return models.QuotaState{}, err
	}
	raw, hasCount, err := q.store.Get(ctx, KeyCount)
	if err != nil {
		return models.QuotaState{}, err
	}

	if hasDate && hasCount && date == today {
		count, convErr := strconv.Atoi(raw)
		if convErr == nil {
			return models.QuotaState{Date: today, Remaining: max(count, 0)}, nil
		}
		q.logger.Warn("discarding malformed quota count", "value", raw, "err", convErr)
	}

	state := models.QuotaState{Date: today, Remaining: q.max}
	if err := q.Save(ctx, state); err != nil {
		return models.QuotaState{}, err
	}
	if hasDate && date != today {
		q.logger.Info("quota reset for new day", "previous", date, "today", today)
	}
	return state, nil
}

// TryConsume returns state with one analysis deducted, or
// [shared.ErrQuotaExceeded] when nothing is left. It never touches storage.
func (q *QuotaManager) TryConsume(state models.QuotaState) (models.QuotaState, error) {
	if state.Exhausted() {
		return state, shared.ErrQuotaExceeded
	}
	state.Remaining--
	return state, nil
}

// Save persists the date and remaining count.
func (q *QuotaManager) Save(ctx context.Context, state models.QuotaState) error {
	b := Batch{}
	q.Stage(b, state)
	return q.store.Commit(ctx, b)
}

// Stage adds the quota keys to b without writing.
func (q *QuotaManager) Stage(b Batch, state models.QuotaState) {
	b[KeyDate] = state.Date
	b[KeyCount] = strconv.Itoa(state.Remaining)
}
