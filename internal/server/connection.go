package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound buffer; a client that cannot drain this many state
	// frames is dropped rather than blocking the table.
	sendBufferSize = 64
)

// inbound events per second a single client may produce
var inboundLimit = rate.Limit(20)

const inboundBurst = 10

// Connection wraps one websocket client. The player id is assigned at
// upgrade time and is the client's only handle into server state.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Envelope
	logger    *log.Logger
	server    *Server
	limiter   *rate.Limiter
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConnection(id string, conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Envelope, sendBufferSize),
		logger:  logger.WithPrefix("conn").With("player", id),
		server:  server,
		limiter: rate.NewLimiter(inboundLimit, inboundBurst),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// start begins the read and write pumps
func (c *Connection) start() {
	go c.writePump()
	go c.readPump()
}

// close shuts the connection down exactly once
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
}

// enqueue hands a message to the write pump without blocking. A full
// buffer means the client cannot keep up; the connection is dropped
// so the table loop never waits on a slow socket.
func (c *Connection) enqueue(msg *Envelope) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("Send buffer full, dropping connection")
		c.close()
	}
}

// readPump handles incoming events from the client. Events are
// dispatched in arrival order; the dispatch itself serializes on the
// table lock.
func (c *Connection) readPump() {
	defer func() {
		c.close()
		c.server.unregister(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("WebSocket read error", "error", err)
			}
			return
		}

		if !c.limiter.Allow() {
			c.sendError("slow down")
			continue
		}

		c.server.dispatch(c, &env)
	}
}

// writePump handles outgoing messages and keepalive pings
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// sendError reports a client-protocol error to this socket only
func (c *Connection) sendError(message string) {
	env, err := newErrorEnvelope(message)
	if err != nil {
		c.logger.Error("Failed to encode error message", "error", err)
		return
	}
	c.enqueue(env)
}
