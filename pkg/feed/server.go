package feed

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/session"
)

// Status is the JSON view of a session snapshot.
type Status struct {
	State           string    `json:"state"`
	PacketsSent     uint64    `json:"packets_sent"`
	PacketsReceived uint64    `json:"packets_received"`
	Discarded       uint64    `json:"discarded"`
	LastLatencyMS   *float64  `json:"last_latency_ms,omitempty"`
	AvgLatencyMS    *float64  `json:"avg_latency_ms,omitempty"`
	Pose            *PoseView `json:"pose,omitempty"`
}

// PoseView is the JSON shape of the last decoded pose.
type PoseView struct {
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
	TZ float64 `json:"tz"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
	RZ float64 `json:"rz"`
}

func statusOf(snap session.Snapshot) Status {
	st := Status{
		State:           snap.State.String(),
		PacketsSent:     snap.Stats.PacketsSent,
		PacketsReceived: snap.Stats.PacketsReceived,
		Discarded:       snap.Stats.Discarded,
	}
	if snap.Stats.HasLatency {
		last, avg := snap.Stats.LastLatencyMS, snap.Stats.AvgLatencyMS
		st.LastLatencyMS = &last
		st.AvgLatencyMS = &avg
	}
	if p := snap.LastPose; p != nil {
		st.Pose = &PoseView{TX: p.TX, TY: p.TY, TZ: p.TZ, RX: p.RX, RY: p.RY, RZ: p.RZ}
	}
	return st
}

// Server publishes one session's observables over HTTP and websocket.
type Server struct {
	app  *fiber.App
	hub  *Hub
	sess *session.Session
	rate time.Duration
	stop chan struct{}
}

// NewServer creates a feed server for sess. Snapshots stream at 10 Hz,
// which is plenty for dashboards; the telemetry itself is not relayed.
func NewServer(sess *session.Session) *Server {
	s := &Server{
		app:  fiber.New(fiber.Config{DisableStartupMessage: true}),
		hub:  NewHub(),
		sess: sess,
		rate: 100 * time.Millisecond,
		stop: make(chan struct{}),
	}

	s.app.Use(cors.New())
	s.app.Get("/api/status", s.handleStatus)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/status", websocket.New(func(conn *websocket.Conn) {
		s.hub.Serve(conn)
	}))

	return s
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(statusOf(s.sess.Snapshot()))
}

// Listen starts the hub, the snapshot publisher, and the HTTP server.
// Blocks until Shutdown.
func (s *Server) Listen(addr string) error {
	go s.hub.Run()
	go s.publish()
	log.Info("feed listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the publisher and the HTTP server.
func (s *Server) Shutdown() error {
	close(s.stop)
	return s.app.Shutdown()
}

// publish pushes a snapshot frame to the hub on every tick.
func (s *Server) publish() {
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			frame, err := json.Marshal(statusOf(s.sess.Snapshot()))
			if err != nil {
				continue
			}
			s.hub.Broadcast(frame)
		}
	}
}
