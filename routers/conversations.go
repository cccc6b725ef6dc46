package routers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleListConversations lists the caller's conversations, most
// recently touched first.
func (deps Dependencies) handleListConversations(c *gin.Context) {
	convs, err := deps.Store.ListConversationsForUser(userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// handleGetConversation returns the stored history of one
// conversation.
func (deps Dependencies) handleGetConversation(c *gin.Context) {
	conversationID := c.Param("conversationID")

	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	history, err := deps.Store.FetchHistory(conversationID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"chat_history":    history,
	})
}

// handleDeleteConversation removes a conversation and everything
// attached to it.
func (deps Dependencies) handleDeleteConversation(c *gin.Context) {
	conversationID := c.Param("conversationID")
	if err := deps.Store.DeleteConversation(conversationID, userID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": conversationID})
}
