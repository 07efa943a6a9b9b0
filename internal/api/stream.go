package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aeroprofile/pkg/flight"
	"aeroprofile/pkg/logging"
	"aeroprofile/pkg/tracker"
)

const (
	maxStreamSteps = 100000
	writeWait      = 10 * time.Second
)

// Frame is one websocket message of an animation stream.
type Frame struct {
	Session string          `json:"session"`
	Seq     int             `json:"seq"`
	Last    bool            `json:"last"`
	State   flight.Snapshot `json:"state"`
}

// StreamHandler animates a route over a websocket, one frame per step from
// departure to arrival.
type StreamHandler struct {
	calc     *flight.Calculator
	tracker  *tracker.Tracker
	steps    int
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(calc *flight.Calculator, tr *tracker.Tracker, steps int, interval time.Duration) *StreamHandler {
	return &StreamHandler{
		calc:     calc,
		tracker:  tr,
		steps:    steps,
		interval: interval,
		upgrader: websocket.Upgrader{EnableCompression: false},
	}
}

// ServeHTTP handles GET /api/stream?from=..&to=..[&steps=..].
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, err := parseRoute(r)
	if err != nil {
		writeError(w, err)
		return
	}
	steps, err := parsePositiveInt(r, "steps", h.steps, maxStreamSteps)
	if err != nil {
		writeError(w, err)
		return
	}
	// Fail before the upgrade so bad routes get a plain 400.
	if _, err := h.calc.Snapshot(r.Context(), route, 0); err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		slog.Warn("Unable to upgrade stream websocket", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.New().String()
	log := slog.With("session", session)
	log.Info("Stream started", "from", route.From, "to", route.To, "steps", steps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go readPump(conn, cancel)

	err = h.stream(ctx, conn, session, route, steps, log)
	if h.tracker != nil {
		if err != nil {
			h.tracker.TrackFailure("api.stream")
		} else {
			h.tracker.TrackSuccess("api.stream")
		}
	}
	if err != nil {
		log.Info("Stream ended early", "error", err)
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "arrived"))
	log.Info("Stream finished")
}

func (h *StreamHandler) stream(ctx context.Context, conn *websocket.Conn, session string, route flight.Route, steps int, log *slog.Logger) error {
	var tick <-chan time.Time
	if h.interval > 0 {
		t := time.NewTicker(h.interval)
		defer t.Stop()
		tick = t.C
	}

	for i := 0; i <= steps; i++ {
		if i > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		snap, err := h.calc.Snapshot(ctx, route, float64(i)/float64(steps))
		if err != nil {
			return err
		}
		logging.Trace(log, "Stream frame", "seq", i, "phase", snap.Phase)

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Frame{Session: session, Seq: i, Last: i == steps, State: snap}); err != nil {
			return err
		}
	}
	return nil
}

// readPump drains client messages so close frames are processed and cancels
// the stream when the client goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
