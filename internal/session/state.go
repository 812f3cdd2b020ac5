package session

// State is the lifecycle position of a session.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Settled reports whether derivation has finished.
func (s State) Settled() bool {
	return s == StateAnonymous || s == StateAuthenticated
}
