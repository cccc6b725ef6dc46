// Package routers exposes the chat backend over HTTP: Cohere-style
// chat endpoints (plain, SSE and WebSocket), conversation and file
// management, and model listing.
package routers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	toolkit "github.com/7ozzam/cohere-toolkit-with-openai"
	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/sessions"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
	"github.com/7ozzam/cohere-toolkit-with-openai/tools"
)

// Dependencies carries everything the handlers need.
type Dependencies struct {
	Config   *toolkit.Config
	Store    stores.Store
	Registry *tools.Registry
	Janitor  *stores.Janitor
	Logger   *log.Logger
}

// NewRouter builds the gin engine with all routes registered and
// starts the retention janitor when a retention policy is configured.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Store == nil {
		deps.Store = deps.Config.Store
	}
	if deps.Registry == nil {
		deps.Registry = tools.DefaultRegistry(deps.Store)
	}
	if deps.Janitor == nil {
		deps.Janitor = retentionJanitor(deps)
	}
	if deps.Janitor != nil {
		if err := deps.Janitor.Start(); err != nil {
			deps.Logger.Printf("Warning: Failed to start retention janitor: %v", err)
		}
	}

	router := gin.Default()
	v1 := router.Group("/v1")

	v1.POST("/chat", deps.handleChat)
	v1.POST("/chat-stream", deps.handleChatStream)
	v1.GET("/ws", deps.handleWebSocket)

	v1.GET("/conversations", deps.handleListConversations)
	v1.GET("/conversations/:conversationID", deps.handleGetConversation)
	v1.DELETE("/conversations/:conversationID", deps.handleDeleteConversation)

	v1.POST("/files", deps.handleUploadFile)
	v1.GET("/conversations/:conversationID/files", deps.handleListFiles)
	v1.DELETE("/files/:fileID", deps.handleDeleteFile)

	v1.GET("/models", deps.handleListModels)

	return router
}

// retentionJanitor builds the janitor NewRouter starts, when the
// configuration asks for one.
func retentionJanitor(deps Dependencies) *stores.Janitor {
	if deps.Config == nil || deps.Config.Retention <= 0 || deps.Store == nil {
		return nil
	}
	return stores.NewJanitor(deps.Store, deps.Config.Retention).WithLogger(deps.Logger)
}

// session builds a chat session for one request based on its headers.
func (deps Dependencies) session(c *gin.Context) (*sessions.ChatSession, *models.Context) {
	deploymentName := c.GetHeader("Deployment-Name")
	deployment := toolkit.GetDeployment(deploymentName, deps.Config)

	tctx := models.NewContext().
		WithUserID(userID(c)).
		WithDeploymentName(deploymentName).
		WithModelName(c.GetHeader("Model-Name")).
		WithAgentID(c.GetHeader("Agent-Id")).
		WithLogger(deps.Logger)

	session := sessions.NewChatSession(deployment, deps.Store).
		WithRegistry(deps.Registry).
		WithLogger(deps.Logger)
	return session, tctx
}

// userID reads the calling user from the User-Id header. Anonymous
// callers share one bucket.
func userID(c *gin.Context) string {
	if id := c.GetHeader("User-Id"); id != "" {
		return id
	}
	return "anonymous"
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and serves chat turns until
// the client disconnects.
func (deps Dependencies) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		deps.Logger.Printf("Warning: WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, tctx := deps.session(c)
	if err := session.ServeWebSocket(c.Request.Context(), conn, tctx); err != nil {
		deps.Logger.Printf("Warning: WebSocket session ended with error: %v", err)
	}
}

// handleListModels lists the models the configured endpoint serves.
func (deps Dependencies) handleListModels(c *gin.Context) {
	deployment := toolkit.GetDeployment(c.GetHeader("Deployment-Name"), deps.Config)
	names, err := deployment.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": names})
}
