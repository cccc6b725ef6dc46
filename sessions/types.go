// Package sessions runs the multi-step chat loop: it drives a
// deployment's event stream, executes managed tool calls between
// steps, and fans the resulting events out over SSE or WebSocket.
package sessions

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	toolkit "github.com/7ozzam/cohere-toolkit-with-openai"
	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
	"github.com/7ozzam/cohere-toolkit-with-openai/tools"
)

// MaxSteps caps the number of model invocations within a single chat
// turn. The loop bails out once the budget is spent even if the model
// keeps requesting tools.
const MaxSteps = 15

// DeathLoopThreshold is the similarity above which two consecutive
// tool plans or actions count as a repeat.
const DeathLoopThreshold = 0.5

// SimilarityFunc scores how alike two strings are, in [0, 1].
type SimilarityFunc func(a, b string) float64

// ChatSession orchestrates one or more chat turns against a
// deployment.
type ChatSession struct {
	Deployment toolkit.Deployment
	Store      stores.Store
	Registry   *tools.Registry
	Logger     *log.Logger

	// Similarity and Threshold tune the repeated-tool-call detector.
	// Zero values fall back to SequenceSimilarity and
	// DeathLoopThreshold.
	Similarity SimilarityFunc
	Threshold  float64

	eventState models.EventState
}

// NewChatSession creates a session with the default tool registry
// wired to the store.
func NewChatSession(deployment toolkit.Deployment, store stores.Store) *ChatSession {
	return &ChatSession{
		Deployment: deployment,
		Store:      store,
		Registry:   tools.DefaultRegistry(store),
		Logger:     log.Default(),
	}
}

// WithRegistry overrides the tool registry.
func (s *ChatSession) WithRegistry(registry *tools.Registry) *ChatSession {
	if registry != nil {
		s.Registry = registry
	}
	return s
}

// WithLogger overrides the logger.
func (s *ChatSession) WithLogger(logger *log.Logger) *ChatSession {
	if logger != nil {
		s.Logger = logger
	}
	return s
}

// SSEWriter handles Server-Sent Events writing.
type SSEWriter interface {
	WriteSSE(data string) error
	Flush()
}

// WebSocketWriter serializes concurrent writes to one WebSocket
// connection and tracks time to first token.
type WebSocketWriter struct {
	Conn             *websocket.Conn
	Logger           *log.Logger
	StartTime        time.Time
	firstTokenLogged bool
	mu               sync.Mutex
}

// WriteResponse writes one event as JSON.
func (w *WebSocketWriter) WriteResponse(resp interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.firstTokenLogged && !w.StartTime.IsZero() {
		w.firstTokenLogged = true
		if w.Logger != nil {
			w.Logger.Printf("Time to first token: %v", time.Since(w.StartTime))
		}
	}
	return w.Conn.WriteJSON(resp)
}

// WriteError writes an error frame.
func (w *WebSocketWriter) WriteError(message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteJSON(map[string]string{"error": message})
}

// WriteDone writes the terminal frame.
func (w *WebSocketWriter) WriteDone() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Conn.WriteJSON(map[string]string{"type": "done"})
}
