package arena

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/events"
	"github.com/lucasmdrs/warbound/internal/logging"
)

// Session is one player's connection to a battle room. The room only
// talks to this interface; tests substitute an in-memory fake.
type Session interface {
	PlayerID() string
	Send(ev events.Envelope)
	Close()
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// wsSession wraps a websocket connection. Writes are serialized with a
// mutex because the room goroutine and the ping loop both write.
type wsSession struct {
	playerID string
	conn     *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// NewSession binds a websocket connection to a player identity.
func NewSession(playerID string, conn *websocket.Conn) Session {
	return &wsSession{playerID: playerID, conn: conn}
}

func (s *wsSession) PlayerID() string { return s.playerID }

func (s *wsSession) Send(ev events.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(ev); err != nil {
		logging.Warn("websocket write failed", logging.Fields{
			constants.LogFieldPlayerID: s.playerID,
			constants.LogFieldEvent:    ev.Type,
		})
	}
}

func (s *wsSession) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

func (s *wsSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.conn.Close()
}

// Serve blocks running the session's read loop until the connection
// drops. Non-websocket sessions (tests) return immediately.
func Serve(sess Session, r *Room) {
	if ws, ok := sess.(*wsSession); ok {
		ws.ReadLoop(r)
	}
}

// ReadLoop decodes client frames and forwards them to the room until the
// connection drops. It owns the read side of the connection; Serve runs it
// on the upgrade goroutine.
func (s *wsSession) ReadLoop(r *Room) {
	defer func() {
		r.Detach(s)
		s.Close()
	}()
	s.conn.SetReadLimit(4096)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.ping(); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()

	for {
		var cmd events.Command
		if err := s.conn.ReadJSON(&cmd); err != nil {
			return
		}
		cmd.PlayerID = s.playerID
		r.Submit(cmd, s)
	}
}
