package tasks

import (
	"fmt"

	"github.com/desertthunder/genresense/internal/models"
)

// ProgressUpdate represents a progress event during a submission.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps of a submission
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	Classify
	Persist
	Done
	Failed
)

// submissionSteps is the number of phases a successful submission walks.
const submissionSteps = 4

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Classify:
		return "classify"
	case Persist:
		return "persist"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func validateUpdate(file models.AudioFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   submissionSteps,
		Message: fmt.Sprintf("Checking %s (%d bytes)...", file.Name, file.Size),
	}
}

func classifyUpdate(provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Classify,
		Step:    2,
		Total:   submissionSteps,
		Message: fmt.Sprintf("Sending audio to %s...", provider),
	}
}

func persistUpdate(remaining int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    3,
		Total:   submissionSteps,
		Message: fmt.Sprintf("Saving result (%d left today)...", remaining),
	}
}

func doneUpdate(result *models.AnalysisResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    submissionSteps,
		Total:   submissionSteps,
		Message: fmt.Sprintf("✓ %s: %s", result.File.Name, result.Major().Genre),
		Data:    result,
	}
}

func failedUpdate(step int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    step,
		Total:   submissionSteps,
		Message: fmt.Sprintf("✗ %v", err),
		Data:    err,
	}
}
