package tasks

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
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
	WarmStart Phase = iota
	WarmArtist
	WarmDone
)

func (p Phase) String() string {
	switch p {
	case WarmStart:
		return "warm_start"
	case WarmArtist:
		return "warm_artist"
	case WarmDone:
		return "warm_done"
	default:
		return "unknown"
	}
}
