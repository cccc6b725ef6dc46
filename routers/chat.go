package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// GinSSEWriter adapts a gin context to the session SSE writer.
type GinSSEWriter struct {
	Context *gin.Context
}

// WriteSSE writes one data frame.
func (w *GinSSEWriter) WriteSSE(data string) error {
	w.Context.SSEvent("message", data)
	return nil
}

// Flush pushes buffered frames to the client.
func (w *GinSSEWriter) Flush() {
	w.Context.Writer.Flush()
}

// prepareRequest validates the request body and fills in history and
// ids so a bare {"message": "..."} works.
func (deps Dependencies) prepareRequest(c *gin.Context) (*models.CohereChatRequest, bool) {
	var req models.CohereChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if req.Message == "" && len(req.ToolResults) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request must contain either a message or tool results"})
		return nil, false
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.New().String()
	}

	if len(req.ChatHistory) == 0 && deps.Store != nil {
		history, err := deps.Store.FetchHistory(req.ConversationID, 0)
		if err != nil {
			deps.Logger.Printf("Warning: Failed to load history for %s: %v", req.ConversationID, err)
		} else {
			req.ChatHistory = history
		}
	}

	return &req, true
}

// handleChat answers a chat request with a single JSON response.
func (deps Dependencies) handleChat(c *gin.Context) {
	req, ok := deps.prepareRequest(c)
	if !ok {
		return
	}

	session, tctx := deps.session(c)
	tctx = tctx.WithConversationID(req.ConversationID)

	resp, err := session.ChatNonStreaming(c.Request.Context(), req, tctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleChatStream answers a chat request as a Server-Sent Events
// stream of chat events.
func (deps Dependencies) handleChatStream(c *gin.Context) {
	req, ok := deps.prepareRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	session, tctx := deps.session(c)
	tctx = tctx.WithConversationID(req.ConversationID)

	writer := &GinSSEWriter{Context: c}
	if err := session.RunSSE(c.Request.Context(), req, tctx, writer); err != nil {
		deps.Logger.Printf("Warning: Chat stream aborted: %v", err)
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
	}
}
