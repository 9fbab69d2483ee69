package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/holdemtable/internal/game"
)

// Server hosts the single table over websockets. Every inbound event
// and the inter-hand timer funnel through the table's lock, so no two
// mutations ever interleave; the broadcast happens before the lock is
// released.
type Server struct {
	addr      string
	staticDir string
	upgrader  websocket.Upgrader
	table     *game.Table
	logger    *log.Logger
	httpSrv   *http.Server

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New creates a server around an existing table
func New(addr, staticDir string, table *game.Table, logger *log.Logger) *Server {
	s := &Server{
		addr:      addr,
		staticDir: staticDir,
		table:     table,
		logger:    logger.WithPrefix("server"),
		conns:     make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The lobby page and the engine share an origin in
				// deployment; development allows all.
				return true
			},
		},
	}

	table.SetNotify(s.broadcast)
	return s
}

// routes builds the HTTP handler: the websocket endpoint, a health
// check and the static lobby assets.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

// Start runs the HTTP listener until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		_ = s.httpSrv.Shutdown(context.Background())

		s.mu.Lock()
		for _, c := range s.conns {
			c.close()
		}
		s.mu.Unlock()
	}()

	s.logger.Info("Starting table server", "addr", s.addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleWebSocket upgrades the connection and assigns the viewer id
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	id := uuid.NewString()
	c := newConnection(id, conn, s, s.logger)

	s.mu.Lock()
	s.conns[id] = c
	total := len(s.conns)
	s.mu.Unlock()

	s.logger.Info("Client connected", "player", id, "total", total)
	c.start()

	// Initial state so the lobby renders before any event
	if env, err := newStateEnvelope(s.table.ViewFor(id)); err == nil {
		c.enqueue(env)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// unregister removes a closed connection and runs the table's
// disconnect handling under the usual serialization.
func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	if _, ok := s.conns[c.id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.conns, c.id)
	total := len(s.conns)
	s.mu.Unlock()

	s.logger.Info("Client disconnected", "player", c.id, "total", total)
	s.table.Disconnect(c.id)
}

// dispatch routes one inbound event into the table. Client-protocol
// violations go back to the sender only; state is untouched by them.
func (s *Server) dispatch(c *Connection, env *Envelope) {
	var err error

	switch env.Type {
	case EventJoin:
		var data JoinData
		if err = marshalJSON.Unmarshal(env.Data, &data); err != nil {
			c.sendError("invalid join payload")
			return
		}
		err = s.table.Join(c.id, data.Name)

	case EventSetStartingStack:
		var data SetStartingStackData
		if err = marshalJSON.Unmarshal(env.Data, &data); err != nil {
			c.sendError("invalid setStartingStack payload")
			return
		}
		err = s.table.SetStartingStack(c.id, data.Amount)

	case EventStartGame:
		err = s.table.StartGame(c.id)

	case EventAction:
		var data ActionData
		if err = marshalJSON.Unmarshal(env.Data, &data); err != nil {
			c.sendError("invalid action payload")
			return
		}
		err = s.table.Action(c.id, data.Type, data.Amount)

	default:
		c.sendError(fmt.Sprintf("unknown event type %q", env.Type))
		return
	}

	if err != nil {
		c.sendError(err.Error())
	}
}

// broadcast is the table's notify callback. It runs while the table
// lock is held, so the projections for one event reach every send
// queue before the next event is handled. The per-connection enqueue
// never blocks.
func (s *Server) broadcast(view func(viewerID string) *game.View) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, c := range s.conns {
		env, err := newStateEnvelope(view(id))
		if err != nil {
			s.logger.Error("Failed to encode state", "error", err, "player", id)
			continue
		}
		c.enqueue(env)
	}
}
