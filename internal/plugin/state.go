package plugin

// State represents the load state of a script.
type State int

// Script states.
const (
	// StateUnloaded - Script was discovered but not run.
	StateUnloaded State = iota

	// StateLoaded - Script ran to completion.
	StateLoaded

	// StateError - Script failed to run.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
