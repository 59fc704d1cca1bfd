package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 256
)

// Session is one live websocket attachment to a match room.
type Session struct {
	hub     *Hub
	matchID uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewSession attaches a websocket connection to the hub and starts its pumps.
func NewSession(hub *Hub, matchID uuid.UUID, conn *websocket.Conn) *Session {
	s := &Session{
		hub:     hub,
		matchID: matchID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
	hub.join(matchID, s)
	go s.writePump()
	go s.readPump()
	return s
}

// enqueue hands a payload to the session's writer without blocking. A closed
// session or a full buffer reports false and the caller decides the
// session's fate. The send channel is never closed, so a send here cannot
// race a concurrent Close into a panic.
func (s *Session) enqueue(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Close detaches the session and closes the connection. Safe to call more
// than once; later calls do nothing. Once Close returns no further payloads
// are enqueued.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.hub.leave(s.matchID, s)
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// readPump drains inbound frames so pings are answered. Clients send over
// the REST endpoint, not the socket, so payloads are discarded.
func (s *Session) readPump() {
	defer s.Close()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
