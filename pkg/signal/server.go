package signal

import (
	"net"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/poselink/poselink/internal/log"
)

// Server is the signaling relay. It pairs exactly two peers per room
// and forwards offer/answer/candidate traffic between them. It holds
// no media or telemetry; once the data channel opens the peers no
// longer need it.
type Server struct {
	app *fiber.App

	mu    sync.Mutex
	rooms map[string][]*remotePeer
}

type remotePeer struct {
	id      string
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (p *remotePeer) send(m Message) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.ws.WriteJSON(m)
}

// NewServer creates a relay server. Call Listen to serve.
func NewServer() *Server {
	s := &Server{
		app:   fiber.New(fiber.Config{DisableStartupMessage: true}),
		rooms: make(map[string][]*remotePeer),
	}

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handle))
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return s
}

// Listen serves the relay on addr. Blocks until shutdown.
func (s *Server) Listen(addr string) error {
	log.Info("signal relay listening", "addr", addr)
	return s.app.Listen(addr)
}

// Serve serves the relay on an existing listener. Blocks until
// shutdown.
func (s *Server) Serve(ln net.Listener) error {
	log.Info("signal relay listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// Shutdown stops the relay gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handle(ws *websocket.Conn) {
	var join Message
	if err := ws.ReadJSON(&join); err != nil || join.Type != TypeJoin || join.Room == "" {
		log.Warn("signal: rejecting connection without join")
		ws.Close()
		return
	}

	p := &remotePeer{id: uuid.NewString(), ws: ws}
	if !s.register(join.Room, p) {
		log.Warn("signal: room full", "room", join.Room)
		ws.Close()
		return
	}
	log.Info("peer joined", "room", join.Room, "peer", p.id)
	defer s.unregister(join.Room, p)

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case TypeOffer, TypeAnswer, TypeCandidate:
			msg.Peer = p.id
			if other := s.other(join.Room, p); other != nil {
				if err := other.send(msg); err != nil {
					log.Warn("signal: relay failed", "room", join.Room, "err", err)
				}
			}
		default:
			// join is only valid once; anything else is dropped
		}
	}
}

// register adds p to room. A room holds at most two peers; when the
// second arrives the first joiner is told to start the offer.
func (s *Server) register(room string, p *remotePeer) bool {
	s.mu.Lock()
	peers := s.rooms[room]
	if len(peers) >= 2 {
		s.mu.Unlock()
		return false
	}
	s.rooms[room] = append(peers, p)
	var initiator *remotePeer
	if len(s.rooms[room]) == 2 {
		initiator = s.rooms[room][0]
	}
	s.mu.Unlock()

	if initiator != nil {
		if err := initiator.send(Message{Type: TypeReady, Room: room}); err != nil {
			log.Warn("signal: ready notify failed", "room", room, "err", err)
		}
	}
	return true
}

func (s *Server) unregister(room string, p *remotePeer) {
	s.mu.Lock()
	peers := s.rooms[room]
	for i, q := range peers {
		if q == p {
			peers = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(peers) == 0 {
		delete(s.rooms, room)
	} else {
		s.rooms[room] = peers
	}
	remaining := append([]*remotePeer(nil), peers...)
	s.mu.Unlock()

	for _, q := range remaining {
		q.send(Message{Type: TypePeerLeft, Room: room, Peer: p.id})
	}
	log.Info("peer left", "room", room, "peer", p.id)
}

// other returns the room's other peer, or nil.
func (s *Server) other(room string, p *remotePeer) *remotePeer {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.rooms[room] {
		if q != p {
			return q
		}
	}
	return nil
}
