package tasks

// ProgressUpdate represents a progress event during a command.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Command phase
	Message string // Human-readable message for display
}

// Command phase enumeration
type Phase int

const (
	CheckSession Phase = iota
	SendCommand
	Settle
	ReadState
	SearchCatalog
)

func (p Phase) String() string {
	switch p {
	case CheckSession:
		return "check_session"
	case SendCommand:
		return "send_command"
	case Settle:
		return "settle"
	case ReadState:
		return "read_state"
	case SearchCatalog:
		return "search_catalog"
	default:
		return ""
	}
}

func sendProgress(progress chan<- ProgressUpdate, phase Phase, message string) {
	if progress == nil {
		return
	}
	select {
	case progress <- ProgressUpdate{Phase: phase, Message: message}:
	default:
	}
}
