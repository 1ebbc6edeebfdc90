package notify

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Kiosk panels are on the local network; origin is not meaningful.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait = 5 * time.Second
	sendDepth = 32
)

// client owns all writes to its connection through one writer goroutine,
// fed by a buffered channel. The websocket library allows only a single
// concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	send chan Event
}

func (c *client) writeLoop() {
	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			log.Printf("[ws] client write failed: %v", err)
			break
		}
	}
	c.conn.Close()
}

// Hub tracks connected websocket panels and pushes events to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// HandleWS upgrades the request and pins the connection until the client
// goes away. Inbound frames are discarded; the socket is push-only.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	cl := &client{conn: conn, send: make(chan Event, sendDepth)}
	cl.send <- Event{Type: EventHello}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	go cl.writeLoop()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(cl)
}

// Publish queues the event for every panel. A panel whose send buffer is
// full is disconnected rather than allowed to stall the caller.
func (h *Hub) Publish(ev Event) {
	var stalled []*client
	h.mu.Lock()
	for cl := range h.clients {
		select {
		case cl.send <- ev:
		default:
			stalled = append(stalled, cl)
		}
	}
	h.mu.Unlock()
	for _, cl := range stalled {
		log.Printf("[ws] dropping stalled client")
		h.drop(cl)
	}
}

// drop unregisters the client and closes its send channel exactly once,
// which ends the writer goroutine and closes the connection.
func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	if ok {
		delete(h.clients, cl)
	}
	h.mu.Unlock()
	if ok {
		close(cl.send)
	}
}

// ClientCount reports connected panels, for the status endpoint.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
