package transport

import "sync"

// Pipe returns two dialers joined by an in-memory channel pair. Each
// end opens once both sides have dialed. Delivery is in-process and
// therefore reliable, which is strictly stronger than the transport
// contract requires; consumers must not depend on that.
func Pipe() (Dialer, Dialer) {
	p := &pipe{}
	p.ends[0] = &pipeEnd{p: p, peer: 1, in: make(chan []byte, 64), done: make(chan struct{})}
	p.ends[1] = &pipeEnd{p: p, peer: 0, in: make(chan []byte, 64), done: make(chan struct{})}
	return p.ends[0], p.ends[1]
}

type pipe struct {
	mu   sync.Mutex
	ends [2]*pipeEnd
}

type pipeEnd struct {
	p    *pipe
	peer int

	hooks  Hooks
	dialed bool
	open   bool
	closed bool

	in   chan []byte
	done chan struct{}
}

func (e *pipeEnd) Dial(h Hooks) (Channel, error) {
	e.p.mu.Lock()
	e.hooks = h
	e.dialed = true
	both := e.p.ends[0].dialed && e.p.ends[1].dialed
	e.p.mu.Unlock()

	if both {
		for _, end := range e.p.ends {
			end.p.mu.Lock()
			already := end.open
			end.open = true
			end.p.mu.Unlock()
			if !already {
				go end.pump()
				end.hooks.open()
			}
		}
	}
	return e, nil
}

// pump delivers inbound payloads to the hooks one at a time.
func (e *pipeEnd) pump() {
	for {
		select {
		case <-e.done:
			return
		case b := <-e.in:
			e.hooks.message(b)
		}
	}
}

func (e *pipeEnd) Send(b []byte) error {
	e.p.mu.Lock()
	ok := e.open && !e.closed
	other := e.p.ends[e.peer]
	e.p.mu.Unlock()
	if !ok {
		return ErrNotOpen
	}

	msg := append([]byte(nil), b...)
	select {
	case other.in <- msg:
	default:
		// full queue: drop, the contract permits loss
	}
	return nil
}

// Close tears down both ends; a datagram pair has no half-open state.
func (e *pipeEnd) Close() error {
	e.p.mu.Lock()
	ends := e.p.ends
	var notify []*pipeEnd
	for _, end := range ends {
		if !end.closed {
			end.closed = true
			close(end.done)
			if end.open {
				notify = append(notify, end)
			}
		}
	}
	e.p.mu.Unlock()

	for _, end := range notify {
		end.hooks.closed()
	}
	return nil
}
