package models

import (
	"log"

	"github.com/google/uuid"
)

// Context carries per-request identity and tracing through the chat
// pipeline. It travels alongside context.Context rather than inside
// it so callers get compile-time access to the fields.
type Context struct {
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	AgentID        string `json:"agent_id,omitempty"`
	TraceID        string `json:"trace_id,omitempty"`
	DeploymentName string `json:"deployment_name,omitempty"`
	ModelName      string `json:"model_name,omitempty"`

	logger *log.Logger
}

// NewContext returns a context with a fresh trace id and the default
// logger.
func NewContext() *Context {
	return &Context{TraceID: uuid.NewString(), logger: log.Default()}
}

func (c *Context) WithUserID(userID string) *Context {
	c.UserID = userID
	return c
}

func (c *Context) WithConversationID(conversationID string) *Context {
	c.ConversationID = conversationID
	return c
}

func (c *Context) WithAgentID(agentID string) *Context {
	c.AgentID = agentID
	return c
}

func (c *Context) WithDeploymentName(name string) *Context {
	c.DeploymentName = name
	return c
}

func (c *Context) WithModelName(name string) *Context {
	c.ModelName = name
	return c
}

func (c *Context) WithLogger(logger *log.Logger) *Context {
	c.logger = logger
	return c
}

// Logger never returns nil.
func (c *Context) Logger() *log.Logger {
	if c == nil || c.logger == nil {
		return log.Default()
	}
	return c.logger
}

// GetTraceID lazily assigns a trace id so a zero-value Context is
// still usable.
func (c *Context) GetTraceID() string {
	if c.TraceID == "" {
		c.TraceID = uuid.NewString()
	}
	return c.TraceID
}
