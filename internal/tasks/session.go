// package tasks implements the analysis session: upload guards, the single
// in-flight classification, and the history/quota bookkeeping around it.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/services"
	"github.com/desertthunder/genresense/internal/shared"
)

// State is the analyzer page's current view.
type State int

const (
	Upload State = iota
	Analyzing
	Result
)

func (s State) String() string {
	switch s {
	case Upload:
		return "upload"
	case Analyzing:
		return "analyzing"
	case Result:
		return "result"
	default:
		return ""
	}
}

// MarshalText lets snapshots encode the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a read-only copy of session state for presentation layers.
type Snapshot struct {
	State    State                  `json:"state"`
	Result   *models.AnalysisResult `json:"result,omitempty"`
	Err      error                  `json:"-"`
	Message  string                 `json:"error,omitempty"`
	History  []models.HistoryItem   `json:"history"`
	Quota    models.QuotaState      `json:"quota"`
	Settings models.Settings        `json:"settings"`
	Provider string                 `json:"provider"`
}

// SessionOpts contains the dependencies of a [Session]. Classifier and Store
// are required; History, Quota and Board are built with defaults when nil.
type SessionOpts struct {
	Classifier services.Classifier
	Store      *repositories.Store
	History    *repositories.HistoryStore
	Quota      *repositories.QuotaManager
	Board      *repositories.CommunityBoard
	Settings   models.Settings
	Limits     Limits
	Logger     *log.Logger
	Now        func() time.Time
}

// Session is the Upload → Analyzing → Result state machine. It is safe for
// concurrent use; at most one classification is in flight.
type Session struct {
	mu sync.Mutex

	classifier services.Classifier
	store      *repositories.Store
	history    *repositories.HistoryStore
	quota      *repositories.QuotaManager
	board      *repositories.CommunityBoard
	limits     Limits
	logger     *log.Logger
	now        func() time.Time

	settings   models.Settings
	tr         locale.Translations
	state      State
	result     *models.AnalysisResult
	err        error
	items      []models.HistoryItem
	quotaState models.QuotaState
	generation uint64
	closed     bool
}

// NewSession loads history and today's quota and returns a session in Upload.
func NewSession(ctx context.Context, opts SessionOpts) (*Session, error) {
	if opts.Classifier == nil || opts.Store == nil {
		return nil, fmt.Errorf("%w: session needs a classifier and a store", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.History == nil {
		opts.History = repositories.NewHistoryStore(opts.Store, repositories.DefaultHistoryLimit, opts.Logger)
	}
	if opts.Quota == nil {
		opts.Quota = repositories.NewQuotaManager(opts.Store, repositories.DefaultDailyQuota, opts.Logger)
	}
	if opts.Board == nil {
		opts.Board = repositories.NewCommunityBoard(repositories.DefaultCommunityEntries())
	}
	if opts.Limits.MaxFileSize == 0 {
		opts.Limits = DefaultLimits()
	}
	if opts.Settings == (models.Settings{}) {
		opts.Settings = models.DefaultSettings()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	items, err := opts.History.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	quota, err := opts.Quota.CheckAndReset(ctx, opts.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load quota: %w", err)
	}

	return &Session{
		classifier: opts.Classifier,
		store:      opts.Store,
		history:    opts.History,
		quota:      opts.Quota,
		board:      opts.Board,
		limits:     opts.Limits,
		logger:     shared.WithLogger(opts.Logger, "component", "session"),
		now:        opts.Now,
		settings:   opts.Settings,
		tr:         locale.For(opts.Settings.Locale),
		state:      Upload,
		items:      items,
		quotaState: quota,
	}, nil
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Submit validates file, classifies it and records the result.
//
// Guards run in order: daily quota, size, MIME type, duration. A rejected
// upload leaves the session in Upload with a localized error and touches
// neither quota nor history. A provider failure does the same. On success the
// new history item and the decremented quota are committed together and the
// session moves to Result.
func (s *Session) Submit(ctx context.Context, file models.AudioFile, progress chan<- ProgressUpdate) (*models.AnalysisResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, shared.ErrSessionClosed
	}
	if s.state == Analyzing {
		s.mu.Unlock()
		return nil, shared.ErrBusy
	}

	sendProgress(progress, validateUpdate(file))
	quota, err := s.admit(ctx, file)
	if err != nil {
		s.reject(err)
		s.mu.Unlock()
		sendProgress(progress, failedUpdate(1, err))
		return nil, err
	}

	s.state = Analyzing
	s.result = nil
	s.err = nil
	s.quotaState = quota
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.logger.Info("classifying", "file", file.Name, "size", file.Size, "type", file.MimeType, "provider", s.classifier.Name())
	sendProgress(progress, classifyUpdate(s.classifier.Name()))
	result, err := s.classifier.Classify(ctx, file)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		s.logger.Debug("discarding result of closed session", "file", file.Name)
		return nil, shared.ErrSessionClosed
	}
	if err != nil {
		s.logger.Error("classification failed", "file", file.Name, "err", err)
		s.reject(err)
		sendProgress(progress, failedUpdate(2, err))
		return nil, err
	}
	result.File = file.Info()

	sendProgress(progress, persistUpdate(quota.Remaining-1))
	if err := s.record(context.WithoutCancel(ctx), quota, result); err != nil {
		s.logger.Error("failed to persist result", "file", file.Name, "err", err)
		s.reject(err)
		sendProgress(progress, failedUpdate(3, err))
		return nil, err
	}

	sendProgress(progress, doneUpdate(result))
	out := *result
	return &out, nil
}

// admit runs the guards. Must be called with s.mu held.
func (s *Session) admit(ctx context.Context, file models.AudioFile) (models.QuotaState, error) {
	quota, err := s.quota.CheckAndReset(ctx, s.now())
	if err != nil {
		return quota, err
	}
	s.quotaState = quota

	if _, err := s.quota.TryConsume(quota); err != nil {
		return quota, err
	}
	if err := s.limits.Check(file); err != nil {
		return quota, err
	}
	return quota, nil
}

// record commits the history item and quota decrement atomically, then
// publishes them. Must be called with s.mu held.
func (s *Session) record(ctx context.Context, quota models.QuotaState, result *models.AnalysisResult) error {
	next, err := s.quota.TryConsume(quota)
	if err != nil {
		return err
	}

	item := models.HistoryItem{
		ID:        shared.GenerateID(),
		FileName:  result.File.Name,
		Result:    *result,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	items := repositories.PrependHistory(s.items, item, s.history.Limit())

	batch := repositories.Batch{}
	if err := s.history.Stage(batch, items); err != nil {
		return err
	}
	s.quota.Stage(batch, next)
	if err := s.store.Commit(ctx, batch); err != nil {
		return err
	}

	s.items = items
	s.quotaState = next
	s.result = result
	s.state = Result
	s.err = nil
	s.logger.Info("analysis recorded", "id", item.ID, "genre", result.Major().Genre, "remaining", next.Remaining)
	return nil
}

// reject returns to Upload with err shown. Must be called with s.mu held.
func (s *Session) reject(err error) {
	s.state = Upload
	s.result = nil
	s.err = err
}

// SelectHistory shows a stored result without calling the provider.
func (s *Session) SelectHistory(id string) (*models.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, shared.ErrSessionClosed
	}
	if s.state == Analyzing {
		return nil, shared.ErrBusy
	}

	item, ok := repositories.FindHistory(s.items, id)
	if !ok {
		return nil, fmt.Errorf("%w: history item %s", shared.ErrNotFound, id)
	}

	result := item.Result
	s.result = &result
	s.state = Result
	s.err = nil
	out := result
	return &out, nil
}

// AnalyzeAnother returns to Upload and clears the result and error.
func (s *Session) AnalyzeAnother() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Analyzing {
		return shared.ErrBusy
	}
	s.state = Upload
	s.result = nil
	s.err = nil
	return nil
}

// AddResultToCommunity tags title/composer with the current result's genres
// and adds the entry to the community board.
func (s *Session) AddResultToCommunity(title, composer string) (models.CommunityEntry, error) {
	s.mu.Lock()
	result := s.result
	s.mu.Unlock()

	if result == nil {
		return models.CommunityEntry{}, shared.ErrNoResult
	}

	entry := repositories.EntryFromResult(title, composer, *result)
	if err := repositories.ValidateEntry(entry); err != nil {
		return models.CommunityEntry{}, err
	}
	return s.board.Add(entry), nil
}

// RefreshQuota re-reads today's quota, resetting it on a new day.
func (s *Session) RefreshQuota(ctx context.Context) (models.QuotaState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Analyzing {
		return s.quotaState, nil
	}
	quota, err := s.quota.CheckAndReset(ctx, s.now())
	if err != nil {
		return s.quotaState, err
	}
	s.quotaState = quota
	return quota, nil
}

// ClearHistory removes all stored analyses.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Analyzing {
		return shared.ErrBusy
	}
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	s.items = []models.HistoryItem{}
	return nil
}

// SetSettings swaps the presentation preferences used for messages.
func (s *Session) SetSettings(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.tr = locale.For(settings.Locale)
}

// Translations returns the current string table.
func (s *Session) Translations() locale.Translations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr
}

// Board returns the community board shared with this session.
func (s *Session) Board() *repositories.CommunityBoard { return s.board }

// Limits returns the upload guards.
func (s *Session) Limits() Limits { return s.limits }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:    s.state,
		Err:      s.err,
		Message:  s.tr.ErrorMessage(s.err),
		History:  slices.Clone(s.items),
		Quota:    s.quotaState,
		Settings: s.settings,
		Provider: s.classifier.Name(),
	}
	if snap.History == nil {
		snap.History = []models.HistoryItem{}
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}

// Close tears the session down. A classification still in flight is
// discarded when it returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
}
