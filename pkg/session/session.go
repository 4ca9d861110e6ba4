// Package session drives the pose telemetry data plane: connection
// lifecycle over an unreliable data channel, the frame-rate send
// cadence, loss-tolerant receipt, and latency accounting.
package session

import (
	"sync"
	"time"

	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/input"
	"github.com/poselink/poselink/pkg/pose"
	"github.com/poselink/poselink/pkg/transport"
	"github.com/poselink/poselink/pkg/wire"
)

// Config configures a Session. Dialer is required; everything else is
// optional.
type Config struct {
	Dialer transport.Dialer

	// Source, when set, is polled by the send loop once the session
	// connects. Without it the caller drives sending through Pump or
	// SendPose.
	Source input.Source

	// FrameRate is the send cadence in Hz. Defaults to 60.
	FrameRate int

	// OnStateChange is invoked after every state change. Called from
	// session goroutines; must not block.
	OnStateChange func(State)

	// OnPose is invoked for every successfully decoded inbound packet.
	OnPose func(pose.Timestamped)
}

// Session owns one connection to one peer. All mutable state lives
// behind its mutex; observers read copies via Snapshot. Methods never
// block: Connect establishes in the background, Disconnect and
// SendPose return immediately.
type Session struct {
	cfg Config

	mu         sync.Mutex
	state      State
	ch         transport.Channel
	gen        int // connection generation, fences stale channel events
	stats      Stats
	window     latencyWindow
	lastPose   *pose.Pose
	lastSentTS float64
	hasSent    bool
}

// New creates a disconnected session.
func New(cfg Config) *Session {
	return &Session{cfg: cfg}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state, Stats: s.stats}
	if s.lastPose != nil {
		p := *s.lastPose
		snap.LastPose = &p
	}
	return snap
}

// Connect starts channel establishment. It is a no-op unless the
// session is Disconnected; a session that is Connecting, Connected or
// Failed never starts a second establishment. The outcome surfaces as
// a transition to Connected or Failed. There is no handshake timeout;
// callers wanting one should Disconnect after their own deadline.
func (s *Session) Connect() {
	s.mu.Lock()
	next, ok := transition(s.state, eventConnect)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.gen++
	gen := s.gen
	// fresh statistics for the new connection
	s.stats = Stats{}
	s.window = latencyWindow{}
	s.lastPose = nil
	s.hasSent = false
	s.mu.Unlock()

	s.notify(next)
	go s.establish(gen)
}

func (s *Session) establish(gen int) {
	hooks := transport.Hooks{
		OnOpen:    func() { s.handleOpened(gen) },
		OnMessage: func(b []byte) { s.handleMessage(gen, b) },
		OnClose:   func() { s.handleClosed(gen) },
		OnError:   func(err error) { s.handleFailed(gen, err) },
	}

	ch, err := s.cfg.Dialer.Dial(hooks)
	if err != nil {
		s.handleFailed(gen, err)
		return
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		ch.Close()
		return
	}
	s.ch = ch
	s.mu.Unlock()
}

func (s *Session) handleOpened(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	next, ok := transition(s.state, eventOpened)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	src := s.cfg.Source
	s.mu.Unlock()

	log.Info("session connected")
	s.notify(next)
	if src != nil {
		go s.sendLoop(gen, src)
	}
}

func (s *Session) handleFailed(gen int, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	next, ok := transition(s.state, eventFailed)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.gen++
	ch := s.ch
	s.ch = nil
	s.mu.Unlock()

	log.Warn("session handshake failed", "err", err)
	if ch != nil {
		ch.Close()
	}
	s.notify(next)
}

func (s *Session) handleClosed(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	next, ok := transition(s.state, eventClosed)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.gen++
	ch := s.ch
	s.ch = nil
	s.mu.Unlock()

	log.Info("session transport closed")
	if ch != nil {
		ch.Close()
	}
	s.notify(next)
}

// Disconnect tears down the session from any state. It is idempotent,
// always ends Disconnected, and resets all statistics. It is also the
// only cancellation: in-flight establishment is abandoned regardless
// of progress.
func (s *Session) Disconnect() {
	s.mu.Lock()
	next, _ := transition(s.state, eventDisconnect)
	changed := s.state != next
	s.state = next
	s.gen++
	ch := s.ch
	s.ch = nil
	s.stats = Stats{}
	s.window = latencyWindow{}
	s.lastPose = nil
	s.hasSent = false
	s.lastSentTS = 0
	s.mu.Unlock()

	if ch != nil {
		ch.Close()
	}
	if changed {
		s.notify(next)
	}
}

// sendLoop polls the source at frame rate while the session stays
// connected. This is the ticker equivalent of a host's per-frame
// callback.
func (s *Session) sendLoop(gen int, src input.Source) {
	hz := s.cfg.FrameRate
	if hz <= 0 {
		hz = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		alive := gen == s.gen && s.state == Connected
		s.mu.Unlock()
		if !alive {
			return
		}
		if sample, ok := src.Latest(); ok {
			s.Pump(sample)
		}
	}
}

// Pump offers the latest input sample to the send gate. The sample is
// sent only when its source timestamp differs from the last sample
// sent; unchanged samples are skipped. This deduplicates, it does not
// rate-limit. The wire packet embeds the current send time, not the
// sample's source timestamp.
func (s *Session) Pump(sample input.Sample) {
	s.mu.Lock()
	if s.state != Connected || s.ch == nil {
		s.mu.Unlock()
		return
	}
	if s.hasSent && sample.Timestamp == s.lastSentTS {
		s.mu.Unlock()
		return
	}
	ch := s.ch
	gen := s.gen
	s.mu.Unlock()

	buf := wire.EncodeTimestamped(sample.Axes.Stamp(pose.Now()))
	if err := ch.Send(buf); err != nil {
		log.Debug("send skipped", "err", err)
		return
	}

	s.mu.Lock()
	// a Disconnect may have raced the send; its stats reset wins
	if gen == s.gen {
		s.stats.PacketsSent++
		s.lastSentTS = sample.Timestamp
		s.hasSent = true
	}
	s.mu.Unlock()
}

// SendPose transmits a pose immediately, independent of the send loop.
// It silently drops the pose when the channel is not writable; no
// counters move in that case.
func (s *Session) SendPose(p pose.Pose) {
	s.mu.Lock()
	ch := s.ch
	gen := s.gen
	s.mu.Unlock()
	if ch == nil {
		return
	}

	buf := wire.EncodeTimestamped(p.Stamp(pose.Now()))
	if err := ch.Send(buf); err != nil {
		return
	}

	s.mu.Lock()
	if gen == s.gen {
		s.stats.PacketsSent++
	}
	s.mu.Unlock()
}

// handleMessage is the receive path. Malformed buffers are discarded
// without touching the send/receive counters; decode failure is never
// fatal to the session. Latency is receive time minus the embedded
// send time: non-negative over loopback, possibly negative across
// unsynchronized clocks. That skew is documented behavior, not
// compensated for.
func (s *Session) handleMessage(gen int, b []byte) {
	now := pose.Now()
	tp, err := wire.DecodeTimestamped(b)

	s.mu.Lock()
	if gen != s.gen || s.state != Connected {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.stats.Discarded++
		s.mu.Unlock()
		log.Debug("discarding malformed packet", "err", err)
		return
	}

	latency := now - tp.Timestamp
	s.window.push(latency)
	s.stats.LastLatencyMS = latency
	s.stats.AvgLatencyMS = s.window.mean()
	s.stats.HasLatency = true
	s.stats.PacketsReceived++
	p := tp.Pose
	s.lastPose = &p
	cb := s.cfg.OnPose
	s.mu.Unlock()

	if cb != nil {
		cb(tp)
	}
}

func (s *Session) notify(st State) {
	if s.cfg.OnStateChange != nil {
		s.cfg.OnStateChange(st)
	}
}
