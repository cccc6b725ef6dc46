package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// RunSSE runs a chat turn and writes every event as a Server-Sent
// Events data frame. The writer is flushed after each frame so tokens
// reach the client as they are generated.
func (s *ChatSession) RunSSE(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context, w SSEWriter) error {
	for event := range s.Chat(ctx, req, tctx) {
		data, err := json.Marshal(event)
		if err != nil {
			s.Logger.Printf("Warning: Failed to marshal %s event: %v", event.Kind(), err)
			continue
		}
		if err := w.WriteSSE(string(data)); err != nil {
			return fmt.Errorf("failed to write event to client: %w", err)
		}
		w.Flush()
	}
	return nil
}
