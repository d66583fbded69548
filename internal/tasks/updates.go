package tasks

import "fmt"

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
	DownloadImages Phase = iota
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case DownloadImages:
		return "download_images"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func downloadStartedUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImages,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Downloading %d slide images...", total),
	}
}

func downloadCompletedUpdate(step, total int, res ImageResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.File),
		Data:    res,
	}
}

func downloadFailedUpdate(step, total int, res ImageResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.URL, res.Error),
		Data:    res,
	}
}

func writeExportUpdate(format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %s export...", format),
	}
}
