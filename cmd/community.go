package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/urfave/cli/v3"
)

// CommunityList prints the community board, filtered by --query.
func (r *Runner) CommunityList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	entries := session.Board().Search(cmd.String("query"))

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	tr := session.Translations()
	r.writePlainHeader(tr.CommunityTitle)
	if len(entries) == 0 {
		r.writePlain("%s\n", tr.NoResults)
		return nil
	}
	for _, e := range entries {
		r.writePlain("%-28s %-28s %s\n", e.Title, e.Composer, strings.Join(e.Genres(), ", "))
	}
	return nil
}

// CommunityAdd adds an entry, either with explicit genres or with the genres
// of a stored analysis (--from).
//
// The board lives in memory, so the entry only lasts for this invocation.
func (r *Runner) CommunityAdd(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	tr := session.Translations()
	title, composer := cmd.String("title"), cmd.String("composer")

	var entry models.CommunityEntry
	if id := cmd.String("from"); id != "" {
		if _, err := session.SelectHistory(id); err != nil {
			return err
		}
		if entry, err = session.AddResultToCommunity(title, composer); err != nil {
			return fmt.Errorf("%s: %w", tr.RequiredFields, err)
		}
	} else {
		genres := cmd.StringSlice("genre")
		if len(genres) > 3 {
			return fmt.Errorf("%w: at most three genres", shared.ErrInvalidFlag)
		}
		genres = append(genres, "", "", "")
		entry = models.CommunityEntry{Title: title, Composer: composer, Genre1: genres[0], Genre2: genres[1], Genre3: genres[2]}
		if err := repositories.ValidateEntry(entry); err != nil {
			return fmt.Errorf("%s: %w", tr.RequiredFields, err)
		}
		entry = session.Board().Add(entry)
	}

	r.logger.Info("community entry added", "id", entry.ID, "title", entry.Title)
	r.writePlain("✓ %s %s - %s (%s)\n", tr.EntryAdded, entry.Title, entry.Composer, strings.Join(entry.Genres(), ", "))
	return nil
}
