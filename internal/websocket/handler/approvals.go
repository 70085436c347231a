// internal/websocket/handler/approvals.go
package handlers

import (
	"context"
	"fmt"

	"storefront-service/internal/domain/account"
	wstypes "storefront-service/internal/domain/websocket"
	ws "storefront-service/internal/websocket"
)

// ApprovalsHandler answers staff requests about open approval tasks.
type ApprovalsHandler struct {
	todos account.TodoRepository
}

func NewApprovalsHandler(todos account.TodoRepository) *ApprovalsHandler {
	return &ApprovalsHandler{todos: todos}
}

func (h *ApprovalsHandler) Events() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeTodoList}
}

func (h *ApprovalsHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeTodoList:
		return h.handleList(ctx, client, msg)
	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *ApprovalsHandler) handleList(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	var req struct {
		AllocatedTo string `json:"allocated_to"`
	}
	if err := ws.DecodeData(msg, &req); err != nil {
		client.SendError("invalid_request", "Invalid list request", err.Error())
		return err
	}
	if req.AllocatedTo == "" {
		req.AllocatedTo = account.Administrator
	}

	todos, err := h.todos.ListOpen(ctx, req.AllocatedTo)
	if err != nil {
		client.SendError("list_failed", "Failed to list approvals", err.Error())
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeTodoList, map[string]interface{}{
		"todos": todos,
		"count": len(todos),
	}))
	return nil
}
