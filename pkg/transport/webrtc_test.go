package transport

import (
	"testing"
	"time"

	"github.com/poselink/poselink/pkg/signal"
)

func TestWebRTCSignalingLostBeforeOpen(t *testing.T) {
	initiator, _ := signal.Pipe()

	errc := make(chan error, 1)
	ch, err := NewWebRTC(initiator).Dial(Hooks{
		OnError: func(err error) { errc <- err },
	})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer ch.Close()

	// dropping the signaling link mid-handshake must fail the dial,
	// not leave it waiting forever
	initiator.Close()

	select {
	case err := <-errc:
		if err == nil {
			t.Error("OnError fired with nil error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error after signaling loss")
	}
}

func TestWebRTCHandshakeOverPipe(t *testing.T) {
	if testing.Short() {
		t.Skip("full ICE handshake")
	}

	initiator, responder := signal.Pipe()

	type opened struct {
		err error
	}
	dial := func(sig signal.Conn, msgs chan []byte) (chan opened, Channel) {
		ready := make(chan opened, 1)
		ch, err := NewWebRTC(sig).Dial(Hooks{
			OnOpen:    func() { ready <- opened{} },
			OnMessage: func(b []byte) { msgs <- b },
			OnError:   func(err error) { ready <- opened{err: err} },
		})
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		return ready, ch
	}

	leftMsgs := make(chan []byte, 8)
	rightMsgs := make(chan []byte, 8)
	leftReady, left := dial(initiator, leftMsgs)
	rightReady, right := dial(responder, rightMsgs)
	defer left.Close()
	defer right.Close()

	for _, ready := range []chan opened{leftReady, rightReady} {
		select {
		case r := <-ready:
			if r.err != nil {
				t.Fatalf("handshake failed: %v", r.err)
			}
		case <-time.After(10 * time.Second):
			t.Fatal("data channel never opened")
		}
	}

	payload := []byte{0x01, 0x02, 0x03}
	// the channel is unreliable; retry until one copy lands
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := left.Send(payload); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		select {
		case got := <-rightMsgs:
			if len(got) != len(payload) || got[0] != payload[0] {
				t.Fatalf("received %v, want %v", got, payload)
			}
			return
		case <-time.After(100 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("payload never arrived")
		}
	}
}
