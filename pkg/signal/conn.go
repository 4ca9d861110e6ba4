package signal

import "errors"

// ErrClosed is returned by Recv and Send after Close.
var ErrClosed = errors.New("signal: connection closed")

// Conn is a bidirectional signaling stream between two peers. Recv
// blocks until a message arrives or the stream closes.
type Conn interface {
	Send(Message) error
	Recv() (Message, error)
	Close() error
}

// pipeConn is one end of an in-memory signaling pair.
type pipeConn struct {
	out  chan<- Message
	in   <-chan Message
	done chan struct{}
}

// Pipe returns two connected in-memory signaling conns. Messages sent
// on one end arrive on the other. The first end plays the initiator:
// it receives a synthetic ready message immediately, mirroring what
// the relay server sends once both peers have joined a room.
func Pipe() (initiator, responder Conn) {
	ab := make(chan Message, 16)
	ba := make(chan Message, 16)

	// seed the initiator side so the dialer starts the offer
	ba <- Message{Type: TypeReady}

	a := &pipeConn{out: ab, in: ba, done: make(chan struct{})}
	b := &pipeConn{out: ba, in: ab, done: make(chan struct{})}
	return a, b
}

func (c *pipeConn) Send(m Message) error {
	// done is checked on its own first: once closed, a send must never
	// win the race against the buffered out channel
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case <-c.done:
		return ErrClosed
	case c.out <- m:
		return nil
	}
}

func (c *pipeConn) Recv() (Message, error) {
	select {
	case <-c.done:
		return Message{}, ErrClosed
	default:
	}
	select {
	case <-c.done:
		return Message{}, ErrClosed
	case m, ok := <-c.in:
		if !ok {
			return Message{}, ErrClosed
		}
		return m, nil
	}
}

func (c *pipeConn) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return nil
}
