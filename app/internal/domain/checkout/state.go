package checkout

// State tracks a single checkout attempt. Redirected and Failed are terminal.
type State string

const (
	StateIdle       State = "IDLE"
	StateBuilding   State = "BUILDING"
	StateSubmitted  State = "SUBMITTED"
	StateRedirected State = "REDIRECTED"
	StateFailed     State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateRedirected || s == StateFailed
}

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateIdle:
		return next == StateBuilding
	case StateBuilding:
		return next == StateSubmitted || next == StateFailed
	case StateSubmitted:
		return next == StateRedirected || next == StateFailed
	default:
		return false
	}
}
