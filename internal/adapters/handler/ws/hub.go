package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const (
	EventLeaderboardUpdate   = "leaderboardUpdate"
	EventLeaderboardSnapshot = "leaderboardSnapshot"
	EventError               = "error"

	ActionSnapshot = "snapshot"
)

var ErrHubClosed = errors.New("leaderboard hub is closed")

type Event struct {
	Event   string `json:"event"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type Request struct {
	Action string `json:"action"`
}

// Hub fans tallies out to every connected observer. Publish never blocks:
// an observer whose buffer is full is disconnected.
type Hub struct {
	mu        sync.RWMutex
	observers map[*observer]struct{}
	closed    bool

	metrics ports.BroadcastMetrics
	log     zerolog.Logger
}

var _ ports.TallyPublisher = (*Hub)(nil)

func NewHub(metrics ports.BroadcastMetrics, log zerolog.Logger) *Hub {
	return &Hub{
		observers: make(map[*observer]struct{}),
		metrics:   metrics,
		log:       log.With().Str("component", "leaderboard-hub").Logger(),
	}
}

// Publish encodes the tally once and queues it for every observer.
func (h *Hub) Publish(tally domain.Tally) {
	msg, err := json.Marshal(Event{Event: EventLeaderboardUpdate, Data: tally})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode leaderboard update")
		return
	}

	h.mu.RLock()
	delivered := 0
	var slow []*observer
	for o := range h.observers {
		if o.enqueue(msg) {
			delivered++
		} else {
			slow = append(slow, o)
		}
	}
	h.mu.RUnlock()

	for _, o := range slow {
		h.log.Warn().Str("remote_addr", o.remoteAddr).Msg("observer too slow, disconnecting")
		o.kick()
	}

	h.metrics.BroadcastPublished(delivered)
}

// Len reports the number of connected observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

func (h *Hub) register(o *observer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}

	h.observers[o] = struct{}{}
	h.metrics.ObserverConnected()
	return nil
}

func (h *Hub) unregister(o *observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.observers[o]; !ok {
		return
	}

	delete(h.observers, o)
	h.metrics.ObserverDisconnected()
}

// Close sends a going-away frame to every observer and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	observers := make([]*observer, 0, len(h.observers))
	for o := range h.observers {
		observers = append(observers, o)
	}
	h.mu.Unlock()

	var result *multierror.Error
	for _, o := range observers {
		if err := o.goAway(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

type observer struct {
	conn       *websocket.Conn
	remoteAddr string
	writeWait  time.Duration
	send       chan []byte
	done       chan struct{}
	once       sync.Once
}

func newObserver(conn *websocket.Conn, buffer int, writeWait time.Duration) *observer {
	return &observer{
		conn:       conn,
		remoteAddr: conn.RemoteAddr().String(),
		writeWait:  writeWait,
		send:       make(chan []byte, buffer),
		done:       make(chan struct{}),
	}
}

func (o *observer) enqueue(msg []byte) bool {
	select {
	case <-o.done:
		return true
	default:
	}

	select {
	case o.send <- msg:
		return true
	default:
		return false
	}
}

// kick tears the connection down, which unblocks the session reader.
func (o *observer) kick() {
	o.once.Do(func() {
		close(o.done)
		_ = o.conn.Close()
	})
}

func (o *observer) goAway() error {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	err := o.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(o.writeWait))
	o.kick()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}
