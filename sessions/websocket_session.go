package sessions

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// RunWebSocket runs one chat turn and writes every event as a JSON
// frame, finishing with a done frame.
func (s *ChatSession) RunWebSocket(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context, w *WebSocketWriter) error {
	for event := range s.Chat(ctx, req, tctx) {
		if err := w.WriteResponse(event); err != nil {
			return fmt.Errorf("failed to write event to websocket: %w", err)
		}
	}
	return w.WriteDone()
}

// ServeWebSocket reads chat requests off the connection and answers
// each with a streamed turn. History is loaded from the store before
// every turn, so reconnects resume the conversation. Returns when the
// client disconnects.
func (s *ChatSession) ServeWebSocket(ctx context.Context, conn *websocket.Conn, tctx *models.Context) error {
	writer := &WebSocketWriter{Conn: conn, Logger: s.Logger}

	for {
		var req models.CohereChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read chat request: %w", err)
		}

		if len(req.ChatHistory) == 0 && req.ConversationID != "" && s.Store != nil {
			history, err := s.Store.FetchHistory(req.ConversationID, 0)
			if err != nil {
				s.Logger.Printf("Warning: Failed to load history for %s: %v", req.ConversationID, err)
			} else {
				req.ChatHistory = history
			}
		}

		if err := s.RunWebSocket(ctx, &req, tctx, writer); err != nil {
			s.Logger.Printf("Warning: WebSocket turn failed: %v", err)
			if werr := writer.WriteError(err.Error()); werr != nil {
				return werr
			}
		}
	}
}
