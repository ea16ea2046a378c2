package dialogue

// State is the session state machine's position.
type State int

const (
	StateIdle State = iota
	StateLinePlaying
	StateAwaitingContinue
	StateAwaitingChoice
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLinePlaying:
		return "line_playing"
	case StateAwaitingContinue:
		return "awaiting_continue"
	case StateAwaitingChoice:
		return "awaiting_choice"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Active reports whether a session is running.
func (s State) Active() bool {
	return s == StateLinePlaying || s == StateAwaitingContinue || s == StateAwaitingChoice
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
