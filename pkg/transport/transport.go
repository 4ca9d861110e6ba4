// Package transport abstracts the unreliable datagram channel the
// session sends pose packets over. The contract is deliberately weak:
// binary payloads, at-most-once delivery, no ordering. The WebRTC
// dialer is the production implementation; the loopback pair serves
// tests and single-process demos.
package transport

import "errors"

// ErrNotOpen is returned by Send before the channel has opened or
// after it has closed.
var ErrNotOpen = errors.New("transport: channel not open")

// Hooks are the event callbacks a dialer drives. Any field may be nil.
// OnOpen fires once when the channel becomes writable. OnMessage fires
// per inbound payload; the slice is only valid for the duration of the
// call. OnClose fires once when the channel goes away. OnError fires
// on establishment failure, after which no other hook is called.
type Hooks struct {
	OnOpen    func()
	OnMessage func([]byte)
	OnClose   func()
	OnError   func(error)
}

func (h Hooks) open() {
	if h.OnOpen != nil {
		h.OnOpen()
	}
}

func (h Hooks) message(b []byte) {
	if h.OnMessage != nil {
		h.OnMessage(b)
	}
}

func (h Hooks) closed() {
	if h.OnClose != nil {
		h.OnClose()
	}
}

func (h Hooks) fail(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

// Channel is an established (or establishing) datagram channel.
// Send silently fails with ErrNotOpen until OnOpen has fired.
type Channel interface {
	Send([]byte) error
	Close() error
}

// Dialer starts channel establishment. Dial returns the channel handle
// immediately; readiness and failure are reported through the hooks.
// A returned error means establishment could not even start.
type Dialer interface {
	Dial(Hooks) (Channel, error)
}
