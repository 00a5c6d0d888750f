// Package realtime fans application events out to connected websocket
// clients. Clients may subscribe to a circular zone, in which case geo-tagged
// events outside that zone are filtered before delivery.
package realtime

import (
	"sync"
	"time"

	"github.com/geoincidents/backend/internal/geo"
)

const sendBuffer = 16

// Event types pushed over the websocket.
const (
	EventIncidentCreated   = "incident:created"
	EventIncidentValidated = "incident:validated"
	EventIncidentRejected  = "incident:rejected"
	EventZoneSubscribed    = "zone:subscribed"
)

type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// NewEvent stamps the event with the current unix-millisecond time.
func NewEvent(eventType string, data interface{}) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UnixMilli()}
}

// Zone is a client's area of interest.
type Zone struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

type Client struct {
	send chan Event

	mu   sync.Mutex
	zone *Zone
}

// Events is the channel the connection's write loop drains. It is closed when
// the client is unregistered.
func (c *Client) Events() <-chan Event {
	return c.send
}

// SetZone replaces the client's subscription. A nil zone means the client
// receives every event.
func (c *Client) SetZone(zone *Zone) {
	c.mu.Lock()
	c.zone = zone
	c.mu.Unlock()
}

func (c *Client) wants(lat, lon float64) bool {
	c.mu.Lock()
	zone := c.zone
	c.mu.Unlock()
	if zone == nil {
		return true
	}
	return geo.Distance(zone.Latitude, zone.Longitude, lat, lon) <= zone.RadiusKm
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register() *Client {
	client := &Client{send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers the event to every client. Sends never block; a client
// whose buffer is full misses the event.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- event:
		default:
		}
	}
}

// BroadcastAt delivers a geo-tagged event, skipping clients whose subscribed
// zone does not cover the event's location.
func (h *Hub) BroadcastAt(event Event, lat, lon float64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.wants(lat, lon) {
			continue
		}
		select {
		case client.send <- event:
		default:
		}
	}
}
