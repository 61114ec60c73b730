package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsShow prints the persisted theme and language.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	settings := session.Snapshot().Settings
	r.writePlain("theme:  %s\nlocale: %s\n", settings.Theme, settings.Locale)
	return nil
}

// SettingsTheme persists the theme.
func (r *Runner) SettingsTheme(ctx context.Context, cmd *cli.Command) error {
	theme, err := models.ParseTheme(cmd.StringArg("value"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return r.updateSettings(ctx, func(s *models.Settings) { s.Theme = theme })
}

// SettingsLocale persists the language.
func (r *Runner) SettingsLocale(ctx context.Context, cmd *cli.Command) error {
	l, err := models.ParseLocale(cmd.StringArg("value"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return r.updateSettings(ctx, func(s *models.Settings) { s.Locale = l })
}

func (r *Runner) updateSettings(ctx context.Context, apply func(*models.Settings)) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	settings := session.Snapshot().Settings
	apply(&settings)
	if err := r.settings.Save(ctx, settings); err != nil {
		return err
	}
	session.SetSettings(settings)

	r.writePlain("✓ theme: %s, locale: %s\n", settings.Theme, settings.Locale)
	return nil
}

// Login is not available yet.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	r.writePlain("%s\n", session.Translations().LoginComingSoon)
	return fmt.Errorf("%w: login", shared.ErrNotImplemented)
}
