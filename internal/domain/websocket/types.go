// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents the real-time event types pushed to staff
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Storefront events (server -> client)
	EventTypeTodoCreated EventType = "todo:created"
	EventTypeTodoList    EventType = "todo:list"
	EventTypeWebOrder    EventType = "order:web_created"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

type ChannelType string

const (
	ChannelApprovals ChannelType = "approvals"
	ChannelOrders    ChannelType = "orders"
)

type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// TodoData announces a new approval task.
type TodoData struct {
	ID            string `json:"name"`
	AllocatedTo   string `json:"allocated_to"`
	ReferenceType string `json:"reference_type"`
	ReferenceName string `json:"reference_name"`
	Description   string `json:"description"`
}

// WebOrderData announces an order placed through the storefront.
type WebOrderData struct {
	Order     string `json:"order"`
	Customer  string `json:"customer"`
	Finalized bool   `json:"finalized"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
