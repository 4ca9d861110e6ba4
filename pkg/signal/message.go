// Package signal carries the offer/answer and candidate exchange that
// bootstraps a data channel between two peers. The session core never
// touches it directly; the WebRTC dialer drives it through the Conn
// interface, so tests and the loopback demo can substitute an
// in-memory pipe for the relay server.
package signal

import (
	"encoding/json"
	"fmt"
)

// MessageType identifies the type of signaling message.
type MessageType string

const (
	TypeJoin      MessageType = "join"      // peer enters a room
	TypeReady     MessageType = "ready"     // both peers present; first joiner offers
	TypeOffer     MessageType = "offer"     // SDP offer
	TypeAnswer    MessageType = "answer"    // SDP answer
	TypeCandidate MessageType = "candidate" // trickled ICE candidate
	TypePeerLeft  MessageType = "peer-left" // remote side left the room
)

// Candidate is one trickled ICE candidate.
type Candidate struct {
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdpMid,omitempty"`
	SDPMLineIndex uint16 `json:"sdpMLineIndex,omitempty"`
}

// Message is the wrapper for all signaling traffic.
type Message struct {
	Type      MessageType `json:"type"`
	Room      string      `json:"room,omitempty"`
	Peer      string      `json:"peer,omitempty"`
	SDP       string      `json:"sdp,omitempty"`
	Candidate *Candidate  `json:"candidate,omitempty"`
}

// Bytes returns the JSON-encoded message.
func (m Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// Parse parses a JSON signaling message from bytes.
func Parse(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("signal: failed to parse message: %w", err)
	}
	return msg, nil
}
