package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vehicle-dismantling/backend/internal/plan"
)

// DashboardEvent describes websocket payloads emitted when the current plan changes.
type DashboardEvent struct {
	Type         string          `json:"type"`
	SubmissionID string          `json:"submission_id,omitempty"`
	Version      uint64          `json:"version,omitempty"`
	Dashboard    *plan.Dashboard `json:"dashboard,omitempty"`
	Message      string          `json:"message,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// DashboardNotifier tracks connected dashboards and pushes plan replacements to them.
type DashboardNotifier struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
	last    *DashboardEvent
}

// NewDashboardNotifier constructs a notifier instance.
func NewDashboardNotifier() *DashboardNotifier {
	return &DashboardNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and replays the latest dashboard.
func (n *DashboardNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	last := n.last
	n.mu.Unlock()

	if last != nil {
		_ = client.writeJSON(*last)
	} else {
		_ = client.writeJSON(DashboardEvent{Type: "empty", Message: emptyMessage, Timestamp: time.Now().UTC()})
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *DashboardNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the event to every registered client and keeps it for replay.
func (n *DashboardNotifier) Broadcast(event DashboardEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	// an older version finishing late must not overwrite the replay copy
	if n.last == nil || event.Version >= n.last.Version {
		snapshot := event
		n.last = &snapshot
	}
	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
}

// Last returns a copy of the most recent event, if any.
func (n *DashboardNotifier) Last() *DashboardEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil {
		return nil
	}
	ev := *n.last
	return &ev
}

// Clients reports how many dashboards are connected.
func (n *DashboardNotifier) Clients() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
