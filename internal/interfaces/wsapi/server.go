package wsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tradedash/internal/domain/model"
)

// Actions is what the dashboard exposes to presentation.
type Actions interface {
	Snapshot() model.Snapshot
	Buy(ctx context.Context) (model.Position, error)
	Sell(ctx context.Context) (model.Position, error)
	CloseByID(ctx context.Context, id int64) (model.HistoryEntry, error)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Server pushes snapshots to browser clients over /ws and accepts buy/sell/close.
type Server struct {
	actions  Actions
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewServer(actions Actions) *Server {
	return &Server{
		actions: actions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 仅本机单用户会话，不校验 Origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/snapshot", s.serveSnapshot)
	return mux
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("websocket api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.closeAll()
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Broadcast queues snap for every client. Slow clients miss frames instead of blocking.
func (s *Server) Broadcast(snap model.Snapshot) {
	b, err := json.Marshal(toSnapshot(snap))
	if err != nil {
		log.Error().Err(err).Msg("encode snapshot failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toSnapshot(s.actions.Snapshot()))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	// 新连接先推一次完整快照
	if b, err := json.Marshal(toSnapshot(s.actions.Snapshot())); err == nil {
		c.send <- b
	}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(r.Context(), c)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	defer func() {
		s.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg actionMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		res := s.dispatch(context.WithoutCancel(ctx), msg)
		b, _ := json.Marshal(res)

		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			select {
			case c.send <- b:
			default:
			}
		}
		s.mu.Unlock()
	}
}

func (s *Server) dispatch(ctx context.Context, msg actionMsg) resultMsg {
	var err error
	switch msg.Action {
	case "buy":
		_, err = s.actions.Buy(ctx)
	case "sell":
		_, err = s.actions.Sell(ctx)
	case "close":
		_, err = s.actions.CloseByID(ctx, msg.ID)
	default:
		err = errors.New("unknown action")
	}

	res := resultMsg{Type: "result", Action: msg.Action, OK: err == nil}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
