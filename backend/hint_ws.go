package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type hintCell struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Player int `json:"player"`
}

// hintPayload carries the best move for the human to move. Outcome is the
// forced result under perfect play from that side's point of view.
type hintPayload struct {
	Active     bool      `json:"active"`
	Best       *hintCell `json:"best,omitempty"`
	Value      int       `json:"value,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	NextPlayer int       `json:"next_player,omitempty"`
	HistoryLen int       `json:"history_len,omitempty"`
}

type HintClient struct {
	hub  *HintHub
	conn *websocket.Conn
	send chan []byte
}

type HintHub struct {
	mu        sync.Mutex
	clients   map[*HintClient]struct{}
	broadcast chan hintPayload
	last      *hintPayload
}

func NewHintHub() *HintHub {
	return &HintHub{
		clients:   make(map[*HintClient]struct{}),
		broadcast: make(chan hintPayload, 32),
	}
}

func (h *HintHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			p := payload
			h.last = &p
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "hint", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

// Register adds c and replays the latest hint so late joiners are in sync.
func (h *HintHub) Register(c *HintClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.sendJSON(wsMessage{Type: "hint", Payload: mustMarshal(*h.last)})
	}
	h.mu.Unlock()
}

func (h *HintHub) Publish(payload hintPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *HintHub) Unregister(c *HintClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *HintHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *HintClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveHintWS(hub *HintHub, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		wsLogger.Warn().Err(err).Msg("hint websocket upgrade failed")
		return
	}
	client := &HintClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			wsLogger.Debug().Err(err).Msg("hint websocket writer stopped")
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

func hintOutcome(value int) string {
	switch {
	case value > 0:
		return "win"
	case value < 0:
		return "loss"
	default:
		return "draw"
	}
}
