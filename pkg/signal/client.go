package signal

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn adapts a gorilla websocket to the Conn interface. Writes are
// serialized; gorilla allows only one concurrent writer.
type wsConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex

	closeMu sync.Mutex
	closed  bool
}

// Dial connects to a relay server and joins the given room. The relay
// sends ready once a second peer arrives.
func Dial(url, room string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("signal: connect to %s failed: %w", url, err)
	}

	c := &wsConn{ws: ws}
	if err := c.Send(Message{Type: TypeJoin, Room: room}); err != nil {
		ws.Close()
		return nil, err
	}
	return c, nil
}

func (c *wsConn) Send(m Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(m)
}

func (c *wsConn) Recv() (Message, error) {
	var m Message
	if err := c.ws.ReadJSON(&m); err != nil {
		c.closeMu.Lock()
		closed := c.closed
		c.closeMu.Unlock()
		if closed {
			return Message{}, ErrClosed
		}
		return Message{}, fmt.Errorf("signal: read failed: %w", err)
	}
	return m, nil
}

func (c *wsConn) Close() error {
	c.closeMu.Lock()
	c.closed = true
	c.closeMu.Unlock()
	return c.ws.Close()
}
