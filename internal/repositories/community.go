package repositories

import (
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/shared"
)

// CommunityBoard holds community entries in memory, newest first. Entries are
// not persisted and reset to the seed on restart.
type CommunityBoard struct {
	mu      sync.RWMutex
	entries []models.CommunityEntry
}

// DefaultCommunityEntries is the seed shown on a fresh board.
func DefaultCommunityEntries() []models.CommunityEntry {
	return []models.CommunityEntry{
		{ID: "1", Title: "Bohemian Rhapsody", Composer: "Queen", Genre1: "Rock Opera"},
		{ID: "2", Title: "Blinding Lights", Composer: "The Weeknd", Genre1: "Synth-pop"},
		{ID: "3", Title: "Smells Like Teen Spirit", Composer: "Nirvana", Genre1: "Grunge", Genre2: "Alternative Rock"},
		{ID: "4", Title: "Take Five", Composer: "The Dave Brubeck Quartet", Genre1: "Cool Jazz"},
		{ID: "5", Title: "Billie Jean", Composer: "Michael Jackson", Genre1: "Post-disco", Genre2: "R&B"},
	}
}

// NewCommunityBoard creates a board holding seed in the given order.
func NewCommunityBoard(seed []models.CommunityEntry) *CommunityBoard {
	entries := make([]models.CommunityEntry, len(seed))
	copy(entries, seed)
	return &CommunityBoard{entries: entries}
}

// ValidateEntry checks the fields a user must fill in.
func ValidateEntry(e models.CommunityEntry) error {
	e = e.Trimmed()
	var missing []string
	if e.Title == "" {
		missing = append(missing, "title")
	}
	if e.Composer == "" {
		missing = append(missing, "composer")
	}
	if e.Genre1 == "" {
		missing = append(missing, "genre1")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", shared.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// Add assigns a fresh id and puts entry at the top of the board. Duplicate
// titles are allowed.
func (b *CommunityBoard) Add(entry models.CommunityEntry) models.CommunityEntry {
	entry = entry.Trimmed()
	entry.ID = shared.GenerateID()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append([]models.CommunityEntry{entry}, b.entries...)
	return entry
}

// All returns a copy of every entry.
func (b *CommunityBoard) All() []models.CommunityEntry {
	return b.Search("")
}

// Len returns the number of entries.
func (b *CommunityBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Search returns entries whose title, composer or genres contain term,
// case-insensitively. An empty or blank term matches everything.
func (b *CommunityBoard) Search(term string) []models.CommunityEntry {
	needle := strings.ToLower(strings.TrimSpace(term))

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.CommunityEntry, 0, len(b.entries))
	for _, e := range b.entries {
		if needle == "" || matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e models.CommunityEntry, needle string) bool {
	haystack := []string{e.Title, e.Composer, strings.Join(e.Genres(), ", ")}
	for _, field := range haystack {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// EntryFromResult builds an entry tagging title/composer with the result's genres.
func EntryFromResult(title, composer string, result models.AnalysisResult) models.CommunityEntry {
	e := models.CommunityEntry{Title: title, Composer: composer}
	names := result.GenreNames()
	for i, dst := range []*string{&e.Genre1, &e.Genre2, &e.Genre3} {
		if i < len(names) {
			*dst = names[i]
		}
	}
	return e.Trimmed()
}
