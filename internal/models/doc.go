// Package models defines the domain values shared by every GenreSense surface.
//
// The package contains two categories of types:
//
// 1. Analysis values: produced by the classification gateway and persisted as history
//   - [AnalysisResult] : the uploaded file's name/size and its top-3 [Genre] predictions
//   - [HistoryItem] : an immutable record of one successful analysis
//   - [QuotaState] : the calendar day and the analyses left for it
//
// 2. Inputs and preferences
//   - [AudioFile] : an upload as received from the CLI, TUI or HTTP surface
//   - [CommunityEntry] : a user-contributed title/composer/genres row on the community board
//   - [Settings] : theme and locale preferences
//
// JSON tags follow the wire shape the browser front-end has always stored, so
// existing exports remain readable.
package models
