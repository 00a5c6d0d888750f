package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/realtime"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// WSHandler upgrades authenticated clients onto the realtime hub. Browsers
// cannot set headers on websocket requests, so the JWT arrives as a ?token
// query parameter instead of an Authorization header.
type WSHandler struct {
	hub *realtime.Hub
	cfg *config.Config
}

func NewWSHandler(hub *realtime.Hub, cfg *config.Config) *WSHandler {
	return &WSHandler{hub: hub, cfg: cfg}
}

// Upgrade gates the HTTP-to-websocket handshake.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if !h.validToken(c.Query("token")) {
		return fiber.ErrUnauthorized
	}
	return c.Next()
}

func (h *WSHandler) validToken(raw string) bool {
	if raw == "" {
		return false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	return err == nil && token.Valid
}

// inbound is the client-to-server message shape. Supported types are
// subscribe:zone and unsubscribe:zone.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Serve runs one websocket session. A writer goroutine drains the client's
// event channel while this goroutine reads subscription messages; either side
// closing tears the session down.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	client := h.hub.Register()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range client.Events() {
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "subscribe:zone":
			var zone realtime.Zone
			if err := json.Unmarshal(msg.Data, &zone); err != nil || zone.RadiusKm <= 0 {
				continue
			}
			client.SetZone(&zone)
			if err := conn.WriteJSON(realtime.NewEvent(realtime.EventZoneSubscribed, zone)); err != nil {
				slog.Debug("Websocket ack write failed", "error", err)
			}
		case "unsubscribe:zone":
			client.SetZone(nil)
		}
	}

	// Unregistering closes the event channel, which is what ends the writer
	// goroutine; it must happen before waiting on done.
	h.hub.Unregister(client)
	<-done
	conn.Close()
}
