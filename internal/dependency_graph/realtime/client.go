package realtime

import (
	"context"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
	"github.com/gorilla/websocket"
)

const (
	DefaultIdlePing = 30 * time.Second
	writeWait       = 10 * time.Second
	maxMessageSize  = 64 << 10
)

// Serve runs one websocket client until it disconnects or ctx ends. The
// client first receives the graph returned by snapshot, then every
// broadcast. snapshot runs after the client is subscribed, so no update
// committed after it can be missed. A ping message goes out after idle of
// client silence.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn, snapshot func() domain.Document, idle time.Duration) error {
	if idle <= 0 {
		idle = DefaultIdlePing
	}
	defer conn.Close()

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	if err := writeMessage(conn, Message{Type: MessageInitial, Data: snapshot()}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbound := make(chan string, 1)
	readErr := make(chan error, 1)
	go func() {
		conn.SetReadLimit(maxMessageSize)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case inbound <- string(data):
			case <-ctx.Done():
				return
			}
		}
	}()

	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		case text := <-inbound:
			resetTimer(timer, idle)
			if strings.EqualFold(strings.TrimSpace(text), MessagePing) {
				if err := writeMessage(conn, Message{Type: MessagePong}); err != nil {
					return err
				}
			}
		case <-timer.C:
			if err := writeMessage(conn, Message{Type: MessagePing}); err != nil {
				return err
			}
			timer.Reset(idle)
		case f, ok := <-sub.C():
			if !ok {
				// dropped by the hub
				return nil
			}
			if err := writeFrame(conn, f); err != nil {
				return err
			}
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func writeMessage(conn *websocket.Conn, msg Message) error {
	f, err := Encode(msg)
	if err != nil {
		return err
	}
	return writeFrame(conn, f)
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, f.Data)
}
