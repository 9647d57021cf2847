package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

const maxMessageSize = 1024

type Config struct {
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
	// AllowedOrigins is checked against the Origin header on upgrade.
	// Same-host requests are always accepted.
	AllowedOrigins []string
	TallyTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.PingPeriod <= 0 {
		c.PingPeriod = 30 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 16
	}
	if c.TallyTimeout <= 0 {
		c.TallyTimeout = 5 * time.Second
	}
	return c
}

// Handler upgrades leaderboard observers to WebSocket sessions. Each
// session starts with a snapshot and then receives every published update.
type Handler struct {
	hub      *Hub
	tally    ports.TallyService
	config   Config
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(hub *Hub, tally ports.TallyService, config Config, log zerolog.Logger) *Handler {
	config = config.withDefaults()
	h := &Handler{
		hub:    hub,
		tally:  tally,
		config: config,
		log:    log.With().Str("component", "leaderboard-ws").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(config.AllowedOrigins) > 0 {
		h.upgrader.CheckOrigin = h.checkOrigin
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	o := newObserver(conn, h.config.SendBuffer, h.config.WriteWait)
	if err := h.hub.register(o); err != nil {
		_ = o.goAway()
		return
	}
	defer h.hub.unregister(o)
	defer o.kick()

	// request contexts end with the handler; the session lives on its own
	h.serve(context.WithoutCancel(r.Context()), o)
}

func (h *Handler) serve(ctx context.Context, o *observer) {
	log := h.log.With().Str("remote_addr", o.remoteAddr).Logger()
	log.Debug().Msg("observer connected")

	o.conn.SetReadLimit(maxMessageSize)
	if err := o.conn.SetReadDeadline(time.Now().Add(h.config.PongWait)); err != nil {
		log.Debug().Err(err).Msg("failed to set the initial read deadline")
		return
	}
	o.conn.SetPongHandler(func(string) error {
		return o.conn.SetReadDeadline(time.Now().Add(h.config.PongWait))
	})

	h.sendSnapshot(ctx, o)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer o.kick()
		return h.keepalive(gCtx, o)
	})
	g.Go(func() error {
		defer o.kick()
		return h.writeMessages(gCtx, o)
	})
	g.Go(func() error {
		defer o.kick()
		return h.readMessages(gCtx, o)
	})

	if err := g.Wait(); err != nil && !isClosure(err) {
		log.Debug().Err(err).Msg("observer session ended")
		return
	}
	log.Debug().Msg("observer disconnected")
}

func (h *Handler) keepalive(ctx context.Context, o *observer) error {
	ticker := time.NewTicker(h.config.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-o.done:
			return nil
		case <-ticker.C:
			if err := o.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.config.WriteWait)); err != nil {
				return fmt.Errorf("error sending ping: %w", err)
			}
		}
	}
}

func (h *Handler) writeMessages(ctx context.Context, o *observer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-o.done:
			return nil
		case msg := <-o.send:
			if err := o.conn.SetWriteDeadline(time.Now().Add(h.config.WriteWait)); err != nil {
				return fmt.Errorf("failed to set the write deadline: %w", err)
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return fmt.Errorf("error writing message: %w", err)
			}
		}
	}
}

func (h *Handler) readMessages(ctx context.Context, o *observer) error {
	for {
		var req Request
		if err := o.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			// an empty frame decodes as io.ErrUnexpectedEOF
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				h.sendError(o, "malformed message")
				continue
			}
			return err
		}

		switch req.Action {
		case ActionSnapshot:
			h.sendSnapshot(ctx, o)
		default:
			h.sendError(o, fmt.Sprintf("unknown action %q", req.Action))
		}
	}
}

func (h *Handler) sendSnapshot(ctx context.Context, o *observer) {
	ctx, cancel := context.WithTimeout(ctx, h.config.TallyTimeout)
	defer cancel()

	tally, err := h.tally.ComputeTally(ctx, ports.TallyOptions{})
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to compute leaderboard snapshot")
		h.sendError(o, "leaderboard temporarily unavailable")
		return
	}
	h.send(o, Event{Event: EventLeaderboardSnapshot, Data: tally})
}

func (h *Handler) sendError(o *observer, message string) {
	h.send(o, Event{Event: EventError, Message: message})
}

func (h *Handler) send(o *observer, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode event")
		return
	}
	if !o.enqueue(msg) {
		o.kick()
	}
}

func isClosure(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr) || errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, net.ErrClosed)
}
