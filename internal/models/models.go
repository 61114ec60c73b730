// package models defines the data model for genre analysis
package models

import (
	"fmt"
	"strings"
)

// Genre is one prediction. Probability is expected in [0, 1] but sums across a
// result are not enforced.
type Genre struct {
	Genre       string  `json:"genre"`
	Probability float64 `json:"probability"`
}

// FileInfo identifies the analyzed upload.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// AnalysisResult is what a classifier returns for one upload.
type AnalysisResult struct {
	File FileInfo `json:"file"`
	Top3 []Genre  `json:"top3"`
}

// Major returns the first (highest ranked) genre, or a zero Genre when empty.
func (r AnalysisResult) Major() Genre {
	if len(r.Top3) == 0 {
		return Genre{}
	}
	return r.Top3[0]
}

// Sum adds the probabilities of all predictions.
func (r AnalysisResult) Sum() float64 {
	var total float64
	for _, g := range r.Top3 {
		total += g.Probability
	}
	return total
}

// GenreNames lists the predicted genre labels in rank order.
func (r AnalysisResult) GenreNames() []string {
	names := make([]string, len(r.Top3))
	for i, g := range r.Top3 {
		names[i] = g.Genre
	}
	return names
}

// HistoryItem records one successful analysis. Timestamp is RFC 3339.
type HistoryItem struct {
	ID        string         `json:"id"`
	FileName  string         `json:"fileName"`
	Result    AnalysisResult `json:"result"`
	Timestamp string         `json:"timestamp"`
}

// QuotaState is the daily allowance. Date is a local YYYY-MM-DD string.
type QuotaState struct {
	Date      string `json:"date"`
	Remaining int    `json:"remaining"`
}

// Exhausted reports whether no analyses are left today.
func (q QuotaState) Exhausted() bool { return q.Remaining <= 0 }

// CommunityEntry is a user-contributed genre tagging of a piece of music.
type CommunityEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Genre1   string `json:"genre1"`
	Genre2   string `json:"genre2,omitempty"`
	Genre3   string `json:"genre3,omitempty"`
}

// Genres returns the non-empty genre labels in order.
func (e CommunityEntry) Genres() []string {
	var out []string
	for _, g := range []string{e.Genre1, e.Genre2, e.Genre3} {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (e CommunityEntry) Trimmed() CommunityEntry {
	e.Title = strings.TrimSpace(e.Title)
	e.Composer = strings.TrimSpace(e.Composer)
	e.Genre1 = strings.TrimSpace(e.Genre1)
	e.Genre2 = strings.TrimSpace(e.Genre2)
	e.Genre3 = strings.TrimSpace(e.Genre3)
	return e
}

// AudioFile is an upload handed to the session.
type AudioFile struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}

// Info returns the name and size carried into results.
func (f AudioFile) Info() FileInfo {
	return FileInfo{Name: f.Name, Size: f.Size}
}

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Locale is the interface language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKorean  Locale = "ko"
)

// ParseLocale accepts "en" or "ko".
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case LocaleEnglish, LocaleKorean:
		return l, nil
	default:
		return "", fmt.Errorf("unknown locale %q", s)
	}
}

// Toggle flips between English and Korean.
func (l Locale) Toggle() Locale {
	if l == LocaleKorean {
		return LocaleEnglish
	}
	return LocaleKorean
}

// Settings are the user's presentation preferences.
type Settings struct {
	Theme  Theme  `json:"theme"`
	Locale Locale `json:"locale"`
}

// DefaultSettings is light theme, English.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, Locale: LocaleEnglish}
}
