package bot

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/protocol"
)

// Handler serves provider to Remote clients: every action request on the
// websocket is answered with the provider's decision.
func Handler(provider game.ActionProvider, logger *log.Logger) http.Handler {
	logger = discardIfNil(logger)
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()
		logger.Debug("Client connected", "remote", r.RemoteAddr)

		for {
			var msg protocol.ActionRequest
			if err := conn.ReadJSON(&msg); err != nil {
				logger.Debug("Client disconnected", "remote", r.RemoteAddr, "error", err)
				return
			}
			if err := conn.WriteJSON(answer(r.Context(), provider, &msg)); err != nil {
				logger.Warn("Write failed", "remote", r.RemoteAddr, "error", err)
				return
			}
		}
	})
}

func answer(ctx context.Context, provider game.ActionProvider, msg *protocol.ActionRequest) *protocol.ActionResponse {
	if msg.Type != protocol.TypeActionRequest {
		return protocol.NewError(msg.RequestID, protocol.ErrUnexpectedMessage)
	}
	req, err := msg.DecisionRequest()
	if err != nil {
		return protocol.NewError(msg.RequestID, err)
	}

	if msg.Deadline != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, *msg.Deadline)
		defer cancel()
	}
	d, err := provider.Decide(ctx, req)
	if err != nil {
		return protocol.NewError(msg.RequestID, err)
	}
	return protocol.NewActionResponse(msg.RequestID, d)
}
