package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/genresense/internal/formatter"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints stored analyses, most recent first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	snap := session.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(snap.History, cmd.Bool("pretty"))
	}

	tr := session.Translations()
	r.writePlainHeader(tr.HistoryTitle)
	if len(snap.History) == 0 {
		r.writePlain("%s\n", tr.HistoryEmpty)
		return nil
	}

	for _, item := range snap.History {
		major := formatter.Normalize(item.Result).Major()
		r.writePlain("%s  %s  %-32s %s %s\n",
			item.ID, localTime(item.Timestamp), item.FileName, major.Genre, formatter.Percent(major.Probability))
	}
	return nil
}

// HistoryShow prints one stored analysis without calling the provider.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: history id", shared.ErrMissingArgument)
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	result, err := session.SelectHistory(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	r.writeResult(*result, session.Translations())
	return nil
}

// HistoryExport writes the history as CSV, Markdown or text.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	tr := session.Translations()
	items := session.Snapshot().History

	output := cmd.String("output")
	if output == "-" {
		data, err := formatter.ExportHistory(items, format, tr)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	path, err := formatter.WriteHistoryExport(items, format, output, tr)
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "items", len(items))
	r.writePlain("✓ Exported %d analyses to %s\n", len(items), path)
	return nil
}

// HistoryClear removes every stored analysis.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	if err := session.ClearHistory(ctx); err != nil {
		return err
	}
	r.writePlain("✓ History cleared\n")
	return nil
}

// Quota prints the remaining analyses for today.
func (r *Runner) Quota(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	state, err := session.RefreshQuota(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Date      string `json:"date"`
			Remaining int    `json:"remaining"`
			Max       int    `json:"max"`
		}{state.Date, state.Remaining, r.config.Quota.MaxPerDay}, false)
	}

	r.writePlain("%s (%s)\n", session.Translations().AnalysesLeft(state.Remaining), state.Date)
	return nil
}

func localTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}
