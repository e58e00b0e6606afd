package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHub_BroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub(4, logging.Discard())
	a, b := h.Subscribe(), h.Subscribe()
	assert.Equal(t, 2, h.Count())

	n, err := h.Broadcast(Message{Type: MessageStats, Data: map[string]int{"node_count": 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, s := range []*Subscriber{a, b} {
		f := <-s.C()
		assert.Equal(t, MessageStats, f.Type)
		assert.Equal(t, "stats", decode(t, f.Data)["type"])
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	h := NewHub(1, logging.Discard())
	slow := h.Subscribe()
	fast := h.Subscribe()

	_, err := h.Broadcast(Message{Type: MessagePing})
	require.NoError(t, err)
	<-fast.C()

	n, err := h.Broadcast(Message{Type: MessagePing})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, h.Count())

	// buffered frame is still readable, then the channel is closed
	_, ok := <-slow.C()
	assert.True(t, ok)
	_, ok = <-slow.C()
	assert.False(t, ok)
}

func TestHub_UnsubscribeTwice(t *testing.T) {
	h := NewHub(0, nil)
	s := h.Subscribe()
	h.Unsubscribe(s)
	h.Unsubscribe(s)
	assert.Equal(t, 0, h.Count())
	_, ok := <-s.C()
	assert.False(t, ok)
}

func TestHub_NotifyCarriesEventAndSnapshot(t *testing.T) {
	h := NewHub(2, logging.Discard())
	s := h.Subscribe()

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.MustNode("api", domain.NodeAPI, nil)))
	ev := domain.Event{ID: "e1", Type: domain.EventNodeCreated, NodeID: "api", NodeCount: 1}
	require.NoError(t, h.Notify(context.Background(), ev, g.Export()))

	m := decode(t, (<-s.C()).Data)
	assert.Equal(t, "update", m["type"])
	assert.Equal(t, "node_created", m["event"].(map[string]any)["type"])
	nodes := m["data"].(map[string]any)["nodes"].([]any)
	require.Len(t, nodes, 1)
	assert.Equal(t, "api", nodes[0].(map[string]any)["id"])
}

func TestHub_Close(t *testing.T) {
	h := NewHub(1, logging.Discard())
	s := h.Subscribe()
	h.Close()
	assert.Equal(t, 0, h.Count())
	_, ok := <-s.C()
	assert.False(t, ok)
}

func wsServer(t *testing.T, h *Hub, doc domain.Document, idle time.Duration) *websocket.Conn {
	t.Helper()
	return wsServerFunc(t, h, func() domain.Document { return doc }, idle)
}

func wsServerFunc(t *testing.T, h *Hub, snapshot func() domain.Document, idle time.Duration) *websocket.Conn {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = h.Serve(r.Context(), conn, snapshot, idle)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return decode(t, data)
}

func TestServe_InitialThenUpdates(t *testing.T) {
	h := NewHub(4, logging.Discard())
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.MustNode("db", domain.NodeDatabase, nil)))
	conn := wsServer(t, h, g.Export(), time.Minute)

	first := readJSON(t, conn)
	assert.Equal(t, "initial", first["type"])

	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)
	_, err := h.Broadcast(Message{Type: MessageStats, Data: map[string]int{"node_count": 1}})
	require.NoError(t, err)
	assert.Equal(t, "stats", readJSON(t, conn)["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	assert.Equal(t, "pong", readJSON(t, conn)["type"])
}

func TestServe_PingsIdleClient(t *testing.T) {
	h := NewHub(4, logging.Discard())
	conn := wsServer(t, h, domain.NewGraph().Export(), 50*time.Millisecond)

	assert.Equal(t, "initial", readJSON(t, conn)["type"])
	assert.Equal(t, "ping", readJSON(t, conn)["type"])
}

func TestServe_UnsubscribesOnDisconnect(t *testing.T) {
	h := NewHub(4, logging.Discard())
	conn := wsServer(t, h, domain.NewGraph().Export(), time.Minute)
	readJSON(t, conn)
	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServe_UpdateDuringSnapshotIsDelivered(t *testing.T) {
	h := NewHub(4, logging.Discard())
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.MustNode("db", domain.NodeDatabase, nil)))

	// a mutation commits while the initial graph is being read
	snapshot := func() domain.Document {
		before := g.Export()
		assert.NoError(t, g.AddNode(domain.MustNode("cache", domain.NodeCache, nil)))
		ev := domain.Event{Type: domain.EventNodeCreated, NodeID: "cache"}
		assert.NoError(t, h.Notify(context.Background(), ev, g.Export()))
		return before
	}
	conn := wsServerFunc(t, h, snapshot, time.Minute)

	first := readJSON(t, conn)
	assert.Equal(t, "initial", first["type"])
	assert.Len(t, first["data"].(map[string]any)["nodes"], 1)

	next := readJSON(t, conn)
	assert.Equal(t, "update", next["type"])
	assert.Len(t, next["data"].(map[string]any)["nodes"], 2)
}
