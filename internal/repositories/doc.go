// Package repositories implements GenreSense persistence.
//
// A single SQLite table, kv, stands in for browser storage: every value is a
// string under one of the genre-sense-* keys, JSON where structured.
//
// Key Implementations:
//   - [Store] : key/value reads and atomic multi-key writes via [Batch]
//   - [QuotaManager] : daily analysis allowance with calendar-day reset
//   - [HistoryStore] : the ten most recent analyses, newest first
//   - [SettingsStore] : theme and locale preferences
//   - [CommunityBoard] : in-memory, seeded community genre board
//
// Unreadable stored values are logged and replaced with defaults rather than
// surfaced as errors.
package repositories
