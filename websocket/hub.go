package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Client is one connected dashboard session, keyed by the club it is
// watching.
type Client struct {
	Club string
	Conn *websocket.Conn
}

// DashboardEvent is pushed to every dashboard of the event's club so the
// UI can refresh without polling.
type DashboardEvent struct {
	Club    string      `json:"-"`
	Type    string      `json:"type"` // waitlist_added, booking_status_changed, payment_received
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

var clients = make(map[*websocket.Conn]string)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan DashboardEvent, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.Conn] = client.Club
			clientsMu.Unlock()
			log.Printf("Dashboard client registered for club %s", client.Club)
		case client := <-Unregister:
			clientsMu.Lock()
			delete(clients, client.Conn)
			clientsMu.Unlock()
			log.Printf("Dashboard client unregistered for club %s", client.Club)
		case event := <-Broadcast:
			event.At = time.Now()

			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn, club := range clients {
				if club != event.Club {
					continue
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing dashboard event to club %s: %v", club, err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()

			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Notify queues an event without blocking the request path; a full
// buffer drops the event rather than stalling a handler.
func Notify(club, eventType string, payload interface{}) {
	select {
	case Broadcast <- DashboardEvent{Club: club, Type: eventType, Payload: payload}:
	default:
	}
}
