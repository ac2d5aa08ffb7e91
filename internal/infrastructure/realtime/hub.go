package realtime

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const sendBufferSize = 64

var ErrHubStopped = errors.New("realtime hub is stopped")

var frameJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type HubConfig struct {
	// AllowedOrigins lists browser origins allowed to open a stream. Empty or
	// "*" accepts any origin.
	AllowedOrigins []string
}

// Hub fans committed league events out to websocket clients, one room per
// league.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	upgrader websocket.Upgrader
	logger   *logging.Logger
}

func NewHub(cfg HubConfig, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}

	h := &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

// Run owns room membership until ctx is done. It closes every client on
// the way out.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.room]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.room] = room
			}
			room[client] = struct{}{}
			size := len(room)
			h.mu.Unlock()
			h.logger.DebugContext(ctx, "realtime client joined", "league_id", client.room, "room_size", size)
		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for _, room := range h.rooms {
			for client := range room {
				h.removeLocked(client)
			}
		}
		h.mu.Unlock()
	})
}

// removeLocked must be called with h.mu held for writing.
func (h *Hub) removeLocked(client *Client) {
	room, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, member := room[client]; !member {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.rooms, client.room)
	}
}

// RoomSize reports how many clients follow a league.
func (h *Hub) RoomSize(leagueID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[leagueID])
}

// Publish implements event.Publisher. Clients whose buffer is full are
// dropped instead of slowing down the publisher.
func (h *Hub) Publish(ctx context.Context, events ...event.Event) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}

	for _, item := range events {
		frame, err := encodeFrame(item)
		if err != nil {
			return errors.Wrapf(err, "encode event %s", item.ID)
		}

		slow := h.broadcast(item.LeagueID, frame)
		for _, client := range slow {
			h.logger.WarnContext(ctx, "realtime client too slow, dropping", "league_id", item.LeagueID)
			h.drop(client)
		}
	}
	return nil
}

func (h *Hub) broadcast(leagueID string, frame []byte) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var slow []*Client
	for client := range h.rooms[leagueID] {
		select {
		case client.send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

func (h *Hub) join(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ServeLeague upgrades the request and streams the events of leagueID to
// it until either side goes away.
func (h *Hub) ServeLeague(w http.ResponseWriter, r *http.Request, leagueID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errors.Wrap(err, "upgrade websocket connection")
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		room: leagueID,
	}
	if err := h.join(client); err != nil {
		_ = conn.Close()
		return err
	}

	go client.writePump()
	go client.readPump()
	return nil
}

func encodeFrame(item event.Event) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := frameJSON.NewEncoder(buf).Encode(item); err != nil {
		return nil, err
	}
	frame := make([]byte, 0, buf.Len())
	return append(frame, strings.TrimRight(buf.String(), "\n")...), nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		return origin == "" || slices.Contains(allowed, origin)
	}
}
