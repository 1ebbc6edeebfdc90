package notify

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHandleWSSendsHello(t *testing.T) {
	_, url := newHubServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventHello, ev.Type)
}

// Panels connect while broadcasts are in flight all day long; the hello
// write and the broadcast writes must never touch a connection from two
// goroutines at once.
func TestConnectDuringBroadcastStorm(t *testing.T) {
	hub, url := newHubServer(t)

	done := make(chan struct{})
	var storm sync.WaitGroup
	storm.Add(1)
	go func() {
		defer storm.Done()
		for {
			select {
			case <-done:
				return
			default:
				hub.Publish(Event{Type: EventOrderUpdated, Payload: "tick"})
				time.Sleep(time.Millisecond)
			}
		}
	}()

	var clients sync.WaitGroup
	for i := 0; i < 20; i++ {
		clients.Add(1)
		go func() {
			defer clients.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Error(err)
				return
			}
			defer conn.Close()

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				t.Error(err)
				return
			}
			if ev.Type != EventHello {
				t.Errorf("first frame was %q, want hello", ev.Type)
			}
			// A few broadcast frames must arrive intact after the hello.
			for j := 0; j < 3; j++ {
				if err := conn.ReadJSON(&ev); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	clients.Wait()
	close(done)
	storm.Wait()
}

func TestPublishDropsStalledClient(t *testing.T) {
	hub := NewHub()
	responsive := &client{send: make(chan Event, sendDepth)}
	stalled := &client{send: make(chan Event)} // no reader, zero buffer
	hub.clients[responsive] = struct{}{}
	hub.clients[stalled] = struct{}{}

	// drop closes the connection through the send channel; neither test
	// client has a real conn, so stand in for the writer goroutine.
	go func() {
		for range responsive.send {
		}
	}()
	stalled.conn = nil
	responsive.conn = nil

	hub.Publish(Event{Type: EventPrinterStatus})

	assert.Equal(t, 1, hub.ClientCount())
	hub.mu.Lock()
	_, stillThere := hub.clients[stalled]
	hub.mu.Unlock()
	assert.False(t, stillThere)

	_, open := <-stalled.send
	assert.False(t, open, "stalled client's send channel is closed")
}
