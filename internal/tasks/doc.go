// Package tasks coordinates one analysis from upload to persisted result.
//
// # Session
//
// [Session] is a three-state machine:
//
//	Upload ──Submit ok──▶ Analyzing ──provider ok──▶ Result
//	  ▲                      │                         │
//	  └──guard or provider───┘          AnalyzeAnother─┘
//	        failure
//
// [Session.SelectHistory] jumps straight to Result from a stored item.
//
// Guards are checked in order (daily quota, size, MIME type, duration) and
// reject without touching quota or history. Only a successful classification
// consumes quota; the new history item and the decremented count are written
// in one transaction.
//
// # Progress Reporting
//
// [Session.Submit] accepts an optional channel of [ProgressUpdate] values
// (validate, classify, persist, done/failed). Updates use select with default to prevent blocking.
//
// # Duration
//
// [ProbeDuration] measures MP3 (frame decoding) and WAV (RIFF header) uploads.
// Other containers pass the duration guard unmeasured.
package tasks
