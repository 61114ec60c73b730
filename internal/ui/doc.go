// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two pages, switched with ctrl+p:
//
// Analyzer
//  1. [UploadView] : Enter a file path, or pick a past analysis from the history list (tab)
//  2. [AnalyzingView] : Progress bar and rotating status line while the model classifies the file
//  3. [ResultView] : Major genre and top-3 breakdown; analyze another (a), copy (c), add to community (m)
//  4. [ShareView] : Title/composer form that posts the result's genres to the community board
//
// Community
//  1. [CommunityView] : Search-as-you-type over the board
//  2. [AddEntryView] : Form for a new entry (ctrl+n)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the analysis session. The two cosmetic tickers carry the analysis
// generation so ticks from an earlier run are dropped.
//
// ctrl+l switches between English and Korean, ctrl+t between the light and dark palettes; both are persisted.
package ui
