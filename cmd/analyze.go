package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/genresense/internal/formatter"
	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/desertthunder/genresense/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Analyze classifies one audio file and records it in the history.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: audio file path", shared.ErrMissingArgument)
	}
	useJSON := cmd.Bool("json")

	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	tr := session.Translations()

	file, err := readAudioFile(path, cmd.String("type"))
	if err != nil {
		return err
	}

	r.logger.Info("analyzing", "file", file.Name, "size", file.Size, "type", file.MimeType)

	progressCh := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if useJSON {
				r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step)
				continue
			}
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := session.Submit(ctx, file, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return fmt.Errorf("%s: %w", tr.ErrorMessage(err), err)
	}

	if useJSON {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if cmd.Bool("copy") {
		return r.writePlain("%s\n", formatter.CopySummary(*result))
	}

	r.writeResult(*result, tr)
	r.writePlainln("%s", tr.AnalysesLeft(session.Snapshot().Quota.Remaining))
	return nil
}

// readAudioFile loads path as an upload, resolving its MIME type from
// declared or the extension.
func readAudioFile(path, declared string) (models.AudioFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.AudioFile{}, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if info.IsDir() {
		return models.AudioFile{}, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidArgument, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.AudioFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return models.AudioFile{
		Name:     name,
		Size:     info.Size(),
		MimeType: tasks.DetectMimeType(name, declared),
		Data:     data,
	}, nil
}

func (r *Runner) writeResult(result models.AnalysisResult, tr locale.Translations) {
	shown := formatter.Normalize(result)
	major := shown.Major()

	r.writePlainHeader(tr.ResultTitle)
	r.writePlain("%s (%d bytes)\n\n", result.File.Name, result.File.Size)
	r.writePlain("%s: %s %s\n\n", tr.MajorGenre, major.Genre, formatter.Percent(major.Probability))
	r.writePlain("%s\n", tr.Top3Genres)

	width := 0
	for _, g := range shown.Top3 {
		width = max(width, len([]rune(g.Genre)))
	}
	for i, g := range shown.Top3 {
		pad := strings.Repeat(" ", width-len([]rune(g.Genre)))
		r.writePlain("  %d. %s%s  %s %6s\n", i+1, g.Genre, pad, formatter.Bar(g.Probability, 20), formatter.Percent(g.Probability))
	}
}
