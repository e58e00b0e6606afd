package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/service"
)

const (
	MessageInitial = "initial"
	MessageUpdate  = "update"
	MessageStats   = "stats"
	MessagePing    = "ping"
	MessagePong    = "pong"
)

const defaultBuffer = 16

// Message is the JSON envelope pushed to every live client.
type Message struct {
	Type  string        `json:"type"`
	Event *domain.Event `json:"event,omitempty"`
	Data  any           `json:"data,omitempty"`
}

// Frame is an encoded Message ready to be written to a transport.
type Frame struct {
	Type string
	Data []byte
}

// Subscriber is one registered client. Its channel is closed when the hub
// drops it or it unsubscribes.
type Subscriber struct {
	ch   chan Frame
	once sync.Once
}

func (s *Subscriber) C() <-chan Frame { return s.ch }

func (s *Subscriber) close() { s.once.Do(func() { close(s.ch) }) }

// Hub fans graph messages out to websocket and SSE clients. A client whose
// buffer is full is dropped instead of stalling the broadcast.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	buffer int
	log    *slog.Logger
}

func NewHub(buffer int, log *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hub{subs: map[*Subscriber]struct{}{}, buffer: buffer, log: log}
}

// Subscribe registers a new client.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{ch: make(chan Frame, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.log.Info("realtime client connected", "clients", n)
	return s
}

// Unsubscribe removes s. Calling it twice is harmless.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s]
	delete(h.subs, s)
	n := len(h.subs)
	h.mu.Unlock()
	if ok {
		s.close()
		h.log.Info("realtime client disconnected", "clients", n)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Encode marshals msg into a Frame.
func Encode(msg Message) (Frame, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: msg.Type, Data: b}, nil
}

// Broadcast sends msg to every client and returns how many received it.
func (h *Hub) Broadcast(msg Message) (int, error) {
	f, err := Encode(msg)
	if err != nil {
		return 0, err
	}

	var slow []*Subscriber
	sent := 0
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.ch <- f:
			sent++
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.log.Warn("dropping slow realtime client", "type", msg.Type)
		h.Unsubscribe(s)
	}
	return sent, nil
}

// Notify implements service.Notifier.
func (h *Hub) Notify(_ context.Context, ev domain.Event, snapshot domain.Document) error {
	_, err := h.Broadcast(Message{Type: MessageUpdate, Event: &ev, Data: snapshot})
	return err
}

// BroadcastStats pushes a stats message.
func (h *Hub) BroadcastStats(st service.GraphStats) error {
	_, err := h.Broadcast(Message{Type: MessageStats, Data: st})
	return err
}

// Close drops every client.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = map[*Subscriber]struct{}{}
	h.mu.Unlock()
	for s := range subs {
		s.close()
	}
}

var _ service.Notifier = (*Hub)(nil)
