package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
)

// Client is one collaborator connection subscribed to the event feed.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type eventFrame struct {
	EventType string              `json:"event_type"`
	Payload   models.EventPayload `json:"payload"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Event subscriber registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Event subscriber unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		}
	}
}

// BroadcastEvent pushes a dispatched outbox event to every subscriber.
// Write failures drop the broken connection; delivery to collaborators is
// at-least-once end to end because the outbox retries undispatched events.
func BroadcastEvent(eventType string, payload models.EventPayload) error {
	frame := eventFrame{EventType: eventType, Payload: payload}

	clientsMu.RLock()
	var broken []uuid.UUID
	for userID, conn := range clients {
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("Error sending event to subscriber %s: %v", userID, err)
			conn.Close()
			broken = append(broken, userID)
		}
	}
	clientsMu.RUnlock()

	if len(broken) > 0 {
		clientsMu.Lock()
		for _, userID := range broken {
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
	return nil
}
