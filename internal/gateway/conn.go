package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/room"
)

// ConnConfig holds the transport tuning for websocket connections.
type ConnConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConnConfig returns the production defaults.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     256,
		CheckOrigin:    func(r *http.Request) bool { return true },
	}
}

// Conn binds one live websocket to one (room, participant) pair. It
// holds no room state of its own; every mutation goes through the Room.
type Conn struct {
	id            string
	roomID        string
	participantID string
	ws            *websocket.Conn
	send          chan []byte
	hub           *Hub
}

func newConn(hub *Hub, roomID, participantID string, ws *websocket.Conn) *Conn {
	return &Conn{
		id:            room.NewID(8),
		roomID:        roomID,
		participantID: participantID,
		ws:            ws,
		send:          make(chan []byte, hub.config.SendBuffer),
		hub:           hub,
	}
}

// sendError reports an operation failure to this connection only.
func (c *Conn) sendError(message string) {
	data, err := encode(MsgError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	c.hub.deliver(c, data)
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings. Runs as its own goroutine per connection.
func (c *Conn) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("conn_id", c.id).
					Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads inbound frames and hands them to onMessage until the
// peer disconnects. Runs on the connection's handler goroutine.
func (c *Conn) readPump(onMessage func(raw []byte)) {
	defer c.ws.Close()

	c.ws.SetReadLimit(c.hub.config.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().
					Err(err).
					Str("conn_id", c.id).
					Msg("unexpected websocket close")
			}
			return
		}
		onMessage(message)
		c.ws.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
