package websocket

import (
	"sync"

	"DuelPoker/internal/utils"
)

type HubInterface interface {
	BroadcastToPlayers(identities []string, msg OutgoingMessage)
	SendToPlayer(identity string, msg OutgoingMessage)
	Close()
}

// Hub owns every live connection, keyed by participant identity. All map
// mutation happens on the Run loop; senders talk to it through channels.
type Hub struct {
	clients    map[string]*Client // identity -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage

	// OnIncoming receives every message read from a connection.
	OnIncoming func(IncomingMessage)
	// OnDisconnect fires once per dropped connection, after the client is
	// unregistered. The engine treats it as a leave.
	OnDisconnect func(identity string)

	quit chan struct{}
	mu   sync.RWMutex
}

type broadcastReq struct {
	Identities []string
	Message    OutgoingMessage
}

type sendReq struct {
	Identity string
	Message  OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq, 64),
		sendOne:    make(chan sendReq, 256),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.Identity] = c
			utils.Log.Debug("hub register", "identity", c.Identity, "connections", len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			dropped := false
			if cur, ok := h.clients[c.Identity]; ok && cur == c {
				delete(h.clients, c.Identity)
				close(c.Send)
				dropped = true
				utils.Log.Debug("hub unregister", "identity", c.Identity, "connections", len(h.clients))
			}
			h.mu.Unlock()
			if dropped && h.OnDisconnect != nil {
				h.OnDisconnect(c.Identity)
			}

		case req := <-h.broadcast:
			h.mu.RLock()
			for _, id := range req.Identities {
				if client, ok := h.clients[id]; ok {
					select {
					case client.Send <- req.Message:
					default:
						// slow consumer, drop rather than stall the hub
					}
				}
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if client, ok := h.clients[req.Identity]; ok {
				select {
				case client.Send <- req.Message:
				default:
				}
			}
			h.mu.RUnlock()

		case req := <-h.incoming:
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for _, c := range h.clients {
				close(c.Send)
			}
			h.clients = make(map[string]*Client)
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastToPlayers queues msg for each of the given identities.
func (h *Hub) BroadcastToPlayers(identities []string, msg OutgoingMessage) {
	h.broadcast <- broadcastReq{Identities: identities, Message: msg}
}

// SendToPlayer queues msg for a single identity.
func (h *Hub) SendToPlayer(identity string, msg OutgoingMessage) {
	h.sendOne <- sendReq{Identity: identity, Message: msg}
}

func (h *Hub) Close() {
	close(h.quit)
}
