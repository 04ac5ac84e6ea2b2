package game

// Phase tracks where a session is in the game's turn cycle.
type Phase int

const (
	// PhaseNotStarted is the initial phase; the only accepted input is "start".
	PhaseNotStarted Phase = iota
	// PhaseAwaitingAnswer means a question is pending and the next free-text
	// message is recorded as its answer.
	PhaseAwaitingAnswer
	// PhaseAwaitingGuess means the model has made a final guess and the next
	// input should be a yes/no confirmation.
	PhaseAwaitingGuess
)

// String returns the stable name used for persistence.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseAwaitingGuess:
		return "awaiting_guess"
	default:
		return "not_started"
	}
}

// ParsePhase is the inverse of String. Unknown values map to PhaseNotStarted
// so a corrupted row degrades to a fresh game rather than an error.
func ParsePhase(s string) Phase {
	switch s {
	case "awaiting_answer":
		return PhaseAwaitingAnswer
	case "awaiting_guess":
		return PhaseAwaitingGuess
	default:
		return PhaseNotStarted
	}
}
