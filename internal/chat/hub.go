package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/pkg/metrics"
)

// roomBus is notified when the hub needs a live feed for a match. The redis
// bus adds and removes channel subscriptions here; a nil bus means
// single-process delivery only.
type roomBus interface {
	SubscribeMatch(matchID uuid.UUID) error
	UnsubscribeMatch(matchID uuid.UUID) error
}

// Hub fans committed message events out to the websocket sessions of one
// process. Rooms are keyed by match id.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[uuid.UUID]map[*Session]struct{}
	bus     roomBus
	metrics *metrics.ChatMetrics
}

// NewHub builds an empty hub. bus may be nil for single-process setups.
func NewHub(bus roomBus, chatMetrics *metrics.ChatMetrics) *Hub {
	if chatMetrics == nil {
		chatMetrics = metrics.NewChatMetrics(nil)
	}
	return &Hub{
		rooms:   make(map[uuid.UUID]map[*Session]struct{}),
		bus:     bus,
		metrics: chatMetrics,
	}
}

func (h *Hub) join(matchID uuid.UUID, s *Session) {
	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = make(map[*Session]struct{})
		h.rooms[matchID] = room
	}
	room[s] = struct{}{}
	first := len(room) == 1
	h.mu.Unlock()

	h.metrics.ClientConnected()
	if first && h.bus != nil {
		// the process now needs this match's feed
		_ = h.bus.SubscribeMatch(matchID)
	}
}

func (h *Hub) leave(matchID uuid.UUID, s *Session) {
	h.mu.Lock()
	room, ok := h.rooms[matchID]
	if ok {
		if _, member := room[s]; !member {
			ok = false
		}
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, matchID)
		}
	}
	empty := h.rooms[matchID] == nil
	h.mu.Unlock()

	if !ok {
		return
	}
	h.metrics.ClientDisconnected()
	if empty && h.bus != nil {
		_ = h.bus.UnsubscribeMatch(matchID)
	}
}

// Deliver forwards one event payload to every local session in the match
// room. Sessions that cannot keep up are closed rather than blocking the
// rest of the room.
func (h *Hub) Deliver(matchID uuid.UUID, payload []byte) {
	h.mu.RLock()
	room := h.rooms[matchID]
	sessions := make([]*Session, 0, len(room))
	for s := range room {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if s.enqueue(payload) {
			h.metrics.IncDelivered("local")
		} else {
			h.metrics.IncDropped()
			s.Close()
		}
	}
}

// RoomSize reports how many sessions are attached to a match room.
func (h *Hub) RoomSize(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}
