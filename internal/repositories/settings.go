package repositories

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// SettingsStore persists theme and locale preferences.
type SettingsStore struct {
	store  *Store
	logger *log.Logger
}

// NewSettingsStore creates a [SettingsStore].
func NewSettingsStore(store *Store, logger *log.Logger) *SettingsStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SettingsStore{store: store, logger: shared.WithLogger(logger, "component", "settings")}
}

// Load returns stored preferences. Missing or unknown values fall back to
// light theme and fallbackLocale.
func (s *SettingsStore) Load(ctx context.Context, fallbackLocale models.Locale) (models.Settings, error) {
	settings := models.Settings{Theme: models.ThemeLight, Locale: fallbackLocale}
	if _, err := models.ParseLocale(string(fallbackLocale)); err != nil {
		settings.Locale = models.LocaleEnglish
	}

	if raw, ok, err := s.store.Get(ctx, KeyTheme); err != nil {
		return settings, err
	} else if ok {
		if theme, err := models.ParseTheme(raw); err == nil {
			settings.Theme = theme
		} else {
			s.logger.Warn("ignoring stored theme", "value", raw)
		}
	}

	if raw, ok, err := s.store.Get(ctx, KeyLocale); err != nil {
		return settings, err
	} else if ok {
		if l, err := models.ParseLocale(raw); err == nil {
			settings.Locale = l
		} else {
			s.logger.Warn("ignoring stored locale", "value", raw)
		}
	}
	return settings, nil
}

// Save persists both preferences.
func (s *SettingsStore) Save(ctx context.Context, settings models.Settings) error {
	return s.store.Commit(ctx, Batch{
		KeyTheme:  string(settings.Theme),
		KeyLocale: string(settings.Locale),
	})
}
