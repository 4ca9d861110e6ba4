package transport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v3"

	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/signal"
)

// channelLabel names the pose data channel in SDP.
const channelLabel = "pose"

// ErrPeerGone is reported when the remote peer leaves the room before
// the data channel opens.
var ErrPeerGone = errors.New("transport: peer left before channel opened")

// WebRTC dials a pose data channel over a pion peer connection. The
// channel is requested unordered with zero retransmits, so the wire
// gives at-most-once, possibly reordered delivery. Signaling runs over
// the provided conn: the peer that receives ready creates the channel
// and offers; the other answers.
type WebRTC struct {
	sig signal.Conn
	ice []webrtc.ICEServer
}

// NewWebRTC creates a dialer using the given signaling conn. With no
// ICE servers only host candidates are gathered, which is enough on a
// LAN or loopback.
func NewWebRTC(sig signal.Conn, ice ...webrtc.ICEServer) *WebRTC {
	return &WebRTC{sig: sig, ice: ice}
}

// Dial starts establishment and returns immediately. Progress is
// reported through the hooks.
func (d *WebRTC) Dial(h Hooks) (Channel, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: d.ice})
	if err != nil {
		return nil, fmt.Errorf("transport: create peer connection: %w", err)
	}

	c := &webrtcChannel{pc: pc, sig: d.sig}

	pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand == nil {
			return
		}
		init := cand.ToJSON()
		msg := signal.Message{Type: signal.TypeCandidate, Candidate: &signal.Candidate{Candidate: init.Candidate}}
		if init.SDPMid != nil {
			msg.Candidate.SDPMid = *init.SDPMid
		}
		if init.SDPMLineIndex != nil {
			msg.Candidate.SDPMLineIndex = *init.SDPMLineIndex
		}
		if err := d.sig.Send(msg); err != nil {
			log.Debug("candidate send failed", "err", err)
		}
	})

	// responder side: the initiator's channel arrives here
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		c.bind(dc, h)
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		log.Debug("peer connection state", "state", state.String())
		switch state {
		case webrtc.PeerConnectionStateFailed:
			c.terminate(h, errors.New("transport: peer connection failed"))
		case webrtc.PeerConnectionStateClosed:
			c.terminate(h, nil)
		}
	})

	go c.signalLoop(h)
	return c, nil
}

type webrtcChannel struct {
	pc  *webrtc.PeerConnection
	sig signal.Conn

	mu       sync.Mutex
	dc       *webrtc.DataChannel
	opened   bool
	notified bool
}

// bind attaches hooks to the data channel, whichever side created it.
func (c *webrtcChannel) bind(dc *webrtc.DataChannel, h Hooks) {
	c.mu.Lock()
	c.dc = dc
	c.mu.Unlock()

	dc.OnOpen(func() {
		c.mu.Lock()
		c.opened = true
		c.mu.Unlock()
		h.open()
	})
	dc.OnMessage(func(m webrtc.DataChannelMessage) {
		h.message(m.Data)
	})
	dc.OnClose(func() {
		c.terminate(h, nil)
	})
	dc.OnError(func(err error) {
		log.Debug("data channel error", "err", err)
	})
}

// signalLoop drives the offer/answer and candidate exchange until the
// signaling conn closes. Any exchange failure surfaces through the
// error hook; the session maps it to the Failed state. Losing the
// signaling conn itself is fatal only while the handshake is still in
// flight; once the channel is up the relay is no longer needed.
func (c *webrtcChannel) signalLoop(h Hooks) {
	for {
		msg, err := c.sig.Recv()
		if err != nil {
			c.mu.Lock()
			opened := c.opened
			c.mu.Unlock()
			if !opened {
				c.terminate(h, fmt.Errorf("transport: signaling lost before channel opened: %w", err))
			}
			return
		}
		if err := c.handleSignal(msg, h); err != nil {
			c.terminate(h, err)
			return
		}
	}
}

func (c *webrtcChannel) handleSignal(msg signal.Message, h Hooks) error {
	switch msg.Type {
	case signal.TypeReady:
		ordered := false
		var retransmits uint16
		dc, err := c.pc.CreateDataChannel(channelLabel, &webrtc.DataChannelInit{
			Ordered:        &ordered,
			MaxRetransmits: &retransmits,
		})
		if err != nil {
			return fmt.Errorf("transport: create data channel: %w", err)
		}
		c.bind(dc, h)

		offer, err := c.pc.CreateOffer(nil)
		if err != nil {
			return fmt.Errorf("transport: create offer: %w", err)
		}
		if err := c.pc.SetLocalDescription(offer); err != nil {
			return fmt.Errorf("transport: set local description: %w", err)
		}
		return c.sig.Send(signal.Message{Type: signal.TypeOffer, SDP: offer.SDP})

	case signal.TypeOffer:
		remote := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: msg.SDP}
		if err := c.pc.SetRemoteDescription(remote); err != nil {
			return fmt.Errorf("transport: set remote offer: %w", err)
		}
		answer, err := c.pc.CreateAnswer(nil)
		if err != nil {
			return fmt.Errorf("transport: create answer: %w", err)
		}
		if err := c.pc.SetLocalDescription(answer); err != nil {
			return fmt.Errorf("transport: set local description: %w", err)
		}
		return c.sig.Send(signal.Message{Type: signal.TypeAnswer, SDP: answer.SDP})

	case signal.TypeAnswer:
		remote := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: msg.SDP}
		if err := c.pc.SetRemoteDescription(remote); err != nil {
			return fmt.Errorf("transport: set remote answer: %w", err)
		}
		return nil

	case signal.TypeCandidate:
		if msg.Candidate == nil {
			return nil
		}
		init := webrtc.ICECandidateInit{Candidate: msg.Candidate.Candidate}
		if msg.Candidate.SDPMid != "" {
			mid := msg.Candidate.SDPMid
			init.SDPMid = &mid
		}
		idx := msg.Candidate.SDPMLineIndex
		init.SDPMLineIndex = &idx
		if err := c.pc.AddICECandidate(init); err != nil {
			return fmt.Errorf("transport: add candidate: %w", err)
		}
		return nil

	case signal.TypePeerLeft:
		c.mu.Lock()
		opened := c.opened
		c.mu.Unlock()
		if !opened {
			return ErrPeerGone
		}
		// channel is already up; losing the relay is harmless
		return nil

	default:
		return nil
	}
}

// terminate reports the channel's terminal event exactly once. A nil
// err after open is a close; anything before open is a handshake
// failure.
func (c *webrtcChannel) terminate(h Hooks, err error) {
	c.mu.Lock()
	if c.notified {
		c.mu.Unlock()
		return
	}
	c.notified = true
	opened := c.opened
	c.mu.Unlock()

	if opened {
		h.closed()
		return
	}
	if err == nil {
		err = errors.New("transport: closed before channel opened")
	}
	h.fail(err)
}

func (c *webrtcChannel) Send(b []byte) error {
	c.mu.Lock()
	dc := c.dc
	open := c.opened && !c.notified
	c.mu.Unlock()
	if dc == nil || !open || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return ErrNotOpen
	}
	return dc.Send(b)
}

// Close tears down the peer connection and signaling conn. No hooks
// fire after Close returns.
func (c *webrtcChannel) Close() error {
	c.mu.Lock()
	c.notified = true
	c.mu.Unlock()

	c.sig.Close()
	return c.pc.Close()
}
