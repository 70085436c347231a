// internal/websocket/dispatch.go
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	wstypes "storefront-service/internal/domain/websocket"
)

var (
	ErrUnauthorized = errors.New("websocket: missing or invalid token")
	ErrNotStaff     = errors.New("websocket: staff account required")
	ErrQueueFull    = errors.New("websocket: broadcast queue full")
)

// MessageHandler serves the client events it lists in Events.
type MessageHandler interface {
	Events() []wstypes.EventType
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
}

// dispatcher routes an event to the handler that registered it last.
type dispatcher struct {
	mu     sync.RWMutex
	routes map[wstypes.EventType]MessageHandler
}

func newDispatcher() *dispatcher {
	return &dispatcher{routes: make(map[wstypes.EventType]MessageHandler)}
}

func (d *dispatcher) add(h MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, event := range h.Events() {
		d.routes[event] = h
	}
}

func (d *dispatcher) route(event wstypes.EventType) (MessageHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.routes[event]
	return h, ok
}

// DecodeData decodes the payload of msg into target. A message without a
// payload leaves target untouched.
func DecodeData(msg *wstypes.WSMessage, target any) error {
	if msg.Data == nil {
		return nil
	}
	raw, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", msg.Type, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return nil
}
