// package formatter renders analysis results and history for copying and exporting (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// sumTolerance is how far a probability sum may drift from 1 before display
// values are rescaled.
const sumTolerance = 1e-6

// Format is a history export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts csv, md/markdown and txt/text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Percent renders p (0..1) with one decimal, e.g. 0.65 → "65.0%".
func Percent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

// Normalize rescales probabilities to sum to 1 for display. Results whose
// sum is zero, negative, or already within tolerance are returned unchanged.
// The input is not modified.
func Normalize(r models.AnalysisResult) models.AnalysisResult {
	sum := r.Sum()
	if sum <= 0 || math.Abs(sum-1) <= sumTolerance {
		return r
	}

	top := make([]models.Genre, len(r.Top3))
	for i, g := range r.Top3 {
		top[i] = models.Genre{Genre: g.Genre, Probability: g.Probability / sum}
	}
	r.Top3 = top
	return r
}

// CopySummary renders the clipboard text for a result:
//
//	Top Genres for song.mp3: Indie Rock: 65.0%, Alternative: 25.0%, Shoegaze: 10.0%
func CopySummary(r models.AnalysisResult) string {
	parts := make([]string, len(r.Top3))
	for i, g := range Normalize(r).Top3 {
		parts[i] = fmt.Sprintf("%s: %s", g.Genre, Percent(g.Probability))
	}
	return fmt.Sprintf("Top Genres for %s: %s", r.File.Name, strings.Join(parts, ", "))
}

// Bar draws a fixed-width bar for p (0..1).
func Bar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, p)) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// HistoryToCSV exports history with columns: ID, File, Size, Timestamp and
// a genre/probability pair per prediction.
func HistoryToCSV(items []models.HistoryItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "File", "Size", "Timestamp", "Genre 1", "Probability 1", "Genre 2", "Probability 2", "Genre 3", "Probability 3"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{item.ID, item.FileName, strconv.FormatInt(item.Result.File.Size, 10), item.Timestamp}
		for i := range 3 {
			if i < len(item.Result.Top3) {
				g := item.Result.Top3[i]
				record = append(record, g.Genre, strconv.FormatFloat(g.Probability, 'f', -1, 64))
			} else {
				record = append(record, "", "")
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// HistoryToMarkdown exports history as a Markdown document titled in tr's language.
func HistoryToMarkdown(items []models.HistoryItem, tr locale.Translations) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", tr.HistoryTitle)
	if len(items) == 0 {
		fmt.Fprintf(&buf, "_%s_\n", tr.HistoryEmpty)
		return buf.Bytes(), nil
	}

	for i, item := range items {
		result := Normalize(item.Result)
		fmt.Fprintf(&buf, "## %d. %s\n\n", i+1, item.FileName)
		fmt.Fprintf(&buf, "- **%s**: %s\n", tr.MajorGenre, result.Major().Genre)
		fmt.Fprintf(&buf, "- **Analyzed**: %s\n\n", item.Timestamp)
		fmt.Fprintf(&buf, "| %s | %% |\n|---|---:|\n", tr.Genres)
		for _, g := range result.Top3 {
			fmt.Fprintf(&buf, "| %s | %s |\n", g.Genre, Percent(g.Probability))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// HistoryToText exports history as one summary line per analysis.
func HistoryToText(items []models.HistoryItem) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Analyses: %d\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&buf, "%d. [%s] %s\n", i+1, item.Timestamp, CopySummary(item.Result))
	}
	return buf.Bytes(), nil
}

// ExportHistory renders items in format f.
func ExportHistory(items []models.HistoryItem, f Format, tr locale.Translations) ([]byte, error) {
	switch f {
	case FormatCSV:
		return HistoryToCSV(items)
	case FormatMarkdown:
		return HistoryToMarkdown(items, tr)
	case FormatText:
		return HistoryToText(items)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteHistoryExport writes an export to path.
//
// Defaults to genresense_history.{format} as the filename.
func WriteHistoryExport(items []models.HistoryItem, f Format, path string, tr locale.Translations) (string, error) {
	if path == "" {
		path = fmt.Sprintf("genresense_history.%s", f)
	}

	data, err := ExportHistory(items, f, tr)
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
