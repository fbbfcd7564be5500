package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Parse Phase = iota
	Merge
	Persist
	Export
)

func (p Phase) String() string {
	switch p {
	case Parse:
		return "parse"
	case Merge:
		return "merge"
	case Persist:
		return "persist"
	case Export:
		return "export"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func parseUpdate(format Format) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Parse,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Parsing %s input...", format),
	}
}

func mergeUpdate(records int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Merge,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Merging %d records...", records),
	}
}

func persistUpdate(res *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("Saving catalog (%d added, %d skipped)...", res.Added, res.Skipped),
		Data:    res,
	}
}

func exportingUpdate(step, total int, format Format) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting %s...", step, total, format),
	}
}

func exportCompletedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes)", step, total, res.File, res.Bytes),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Format, res.Err),
		Data:    res,
	}
}
