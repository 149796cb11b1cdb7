// Package hub delivers review events to the clients streaming a game.
//
// Subscriptions are per game: a client sees only events broadcast for the
// game it subscribed to, in broadcast order, from the moment it subscribes.
// Nothing is replayed or persisted. Each client owns a buffered channel;
// when the buffer is full the event is dropped for that client only, so a
// slow reader never stalls the review request that triggered the
// broadcast. Unsubscribe closes the channel, which ends the reader's loop.
package hub

import (
	"encoding/json"
	"sync"
)

const EventReviewAdded = "review.added"

// Event is the JSON envelope written to every subscriber.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a single subscriber to a game's events. The SSE handler reads
// encoded events from it until it is closed.
type Client chan []byte

// Hub fans game events out to the clients watching each game.
type Hub struct {
	games map[uint]map[Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		games: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific game.
func (h *Hub) Subscribe(gameID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.games[gameID]; !ok {
		h.games[gameID] = make(map[Client]bool)
	}
	h.games[gameID][client] = true
}

// Unsubscribe removes a client from a game and closes its channel.
func (h *Hub) Unsubscribe(gameID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.games[gameID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.games, gameID)
			}
		}
	}
}

// Subscribers returns the number of clients watching a game.
func (h *Hub) Subscribers(gameID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Broadcast sends an event to all clients of a game. Delivery never blocks:
// a client whose buffer is full misses the event.
func (h *Hub) Broadcast(gameID uint, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.games[gameID]
	if !ok {
		return nil
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
	return nil
}
