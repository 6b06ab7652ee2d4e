package realtime

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestConnection upgrades a real websocket against an httptest server and
// returns the server-side Connection with its write loop running, plus the
// client end for reading what the loop wrote.
func newTestConnection(t *testing.T) (*Connection, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *Connection, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(ws)
		conn.Start()
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	select {
	case conn := <-connCh:
		return conn, client
	case <-time.After(2 * time.Second):
		t.Fatal("server never upgraded the connection")
		return nil, nil
	}
}

// TestConnectionDeliverDuringClose hammers broadcast delivery from another
// goroutine while the connection is torn down, the way a group publish races
// a member's disconnect.
func TestConnectionDeliverDuringClose(t *testing.T) {
	for i := 0; i < 20; i++ {
		conn, client := newTestConnection(t)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d: Deliver panicked during Close: %v", i, r)
				}
			}()
			for j := 0; j < 200; j++ {
				conn.Deliver([]byte(`{"type":"pong"}`))
			}
		}()

		conn.Close(websocket.CloseNormalClosure, "bye")
		wg.Wait()
		_ = client.Close()
	}
}

// TestConnectionCloseDrainsQueuedFrames verifies frames enqueued before Close
// reach the client ahead of the close control frame.
func TestConnectionCloseDrainsQueuedFrames(t *testing.T) {
	conn, client := newTestConnection(t)

	const frames = 10
	for i := 0; i < frames; i++ {
		if err := conn.Send([]byte(fmt.Sprintf(`{"seq":%d}`, i))); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	conn.Close(websocket.CloseNormalClosure, "done")

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	received := 0
	for {
		_, _, err := client.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("read: %v", err)
			}
			break
		}
		received++
	}
	if received != frames {
		t.Errorf("client received %d frames before close, want %d", received, frames)
	}
}

func TestConnectionCloseIdempotent(t *testing.T) {
	conn, _ := newTestConnection(t)

	conn.Close(websocket.CloseNormalClosure, "first")
	conn.Close(websocket.CloseGoingAway, "second")

	if !conn.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := conn.Send([]byte("late")); err == nil {
		t.Error("Send after Close returned nil error")
	}
}
