package session

// State is the connection lifecycle state of a Session. Exactly one
// session owns its state; observers only ever see snapshots.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// event is what the transport adapter and the public API feed into the
// transition function.
type event int

const (
	eventConnect    event = iota // connect() called
	eventOpened                  // channel open observed
	eventFailed                  // handshake failed
	eventClosed                  // transport closed or errored after open
	eventDisconnect              // disconnect() called
)

// transition is the pure state machine. ok reports whether the event
// applies in the current state; inapplicable events leave the state
// untouched and the caller does nothing.
func transition(s State, ev event) (next State, ok bool) {
	switch ev {
	case eventConnect:
		if s == Disconnected {
			return Connecting, true
		}
	case eventOpened:
		if s == Connecting {
			return Connected, true
		}
	case eventFailed:
		if s == Connecting {
			return Failed, true
		}
	case eventClosed:
		if s == Connected {
			return Disconnected, true
		}
	case eventDisconnect:
		// idempotent from every state
		return Disconnected, true
	}
	return s, false
}
