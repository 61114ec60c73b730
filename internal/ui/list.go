package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/genresense/internal/formatter"
	"github.com/desertthunder/genresense/internal/models"
)

var (
	_ list.Item = historyItem{}
	_ list.Item = communityItem{}
)

// historyItem wraps [models.HistoryItem] to implement [list.Item].
type historyItem struct {
	item models.HistoryItem
}

func (i historyItem) FilterValue() string { return i.item.FileName }
func (i historyItem) Title() string       { return i.item.FileName }
func (i historyItem) Description() string {
	major := formatter.Normalize(i.item.Result).Major()
	desc := fmt.Sprintf("%s %s", major.Genre, formatter.Percent(major.Probability))
	if ts, err := time.Parse(time.RFC3339, i.item.Timestamp); err == nil {
		desc = fmt.Sprintf("%s • %s", desc, ts.Local().Format("2006-01-02 15:04"))
	}
	return desc
}

// communityItem wraps [models.CommunityEntry] to implement [list.Item].
type communityItem struct {
	entry models.CommunityEntry
}

func (i communityItem) FilterValue() string { return i.entry.Title }
func (i communityItem) Title() string       { return i.entry.Title }
func (i communityItem) Description() string {
	return fmt.Sprintf("%s • %s", i.entry.Composer, strings.Join(i.entry.Genres(), ", "))
}

func historyItems(items []models.HistoryItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = historyItem{item: it}
	}
	return out
}

func communityItems(entries []models.CommunityEntry) []list.Item {
	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = communityItem{entry: e}
	}
	return out
}
