// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "storefront-service/internal/domain/websocket"
	"storefront-service/internal/pkg/jwt"
	"storefront-service/internal/pkg/session"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by user email
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	routes *dispatcher

	jwtVerifier *jwt.Verifier
	logger      *zap.Logger
}

type BroadcastMessage struct {
	Users   []string // nil: every connected client
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *BroadcastMessage, 256),
		routes:      newDispatcher(),
		jwtVerifier: jwtVerifier,
		logger:      logger,
	}
}

// AuthenticateClient validates the token and admits System Users only.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	if h.jwtVerifier == nil {
		return nil, ErrUnauthorized
	}
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.UserType != session.UserTypeSystem {
		return nil, ErrNotStaff
	}
	return &ClientAuth{
		User:    claims.Email,
		TokenID: claims.ID,
		Roles:   claims.Roles,
	}, nil
}

func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.routes.add(handler)
}

func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.routes.route(msg.Type)
	if !exists {
		return nil
	}
	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.user] == nil {
		h.clients[client.user] = make(map[*Client]bool)
	}
	h.clients[client.user][client] = true

	h.logger.Info("staff client connected",
		zap.String("user", client.user),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user":  client.user,
		"roles": client.roles,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.user]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.user)
			}

			h.logger.Info("staff client disconnected",
				zap.String("user", client.user),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.Users == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}
	for _, user := range msg.Users {
		for client := range h.clients[user] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// PublishTodo queues a todo:created event for the approvals channel. It
// never blocks; a full queue drops the event.
func (h *Hub) PublishTodo(ctx context.Context, todo wstypes.TodoData) error {
	return h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelApprovals,
		Message: wstypes.NewMessage(wstypes.EventTypeTodoCreated, todo),
	})
}

// PublishWebOrder queues an order:web_created event for the orders channel.
func (h *Hub) PublishWebOrder(ctx context.Context, data wstypes.WebOrderData) error {
	return h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelOrders,
		Message: wstypes.NewMessage(wstypes.EventTypeWebOrder, data),
	})
}

func (h *Hub) enqueue(msg *BroadcastMessage) error {
	select {
	case h.broadcast <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
