// Package tools holds the managed tool registry. Managed tools are
// executed server side inside the chat loop; anything not registered
// here is treated as a client tool and its calls are streamed back to
// the caller instead.
package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

// Category groups tools by what they operate on.
type Category string

const (
	// CategoryFileLoader marks tools that read uploaded file content.
	CategoryFileLoader Category = "File loader"
	// CategoryOther covers everything else.
	CategoryOther Category = "Other"
)

// Executor runs a tool call and returns documents for the model.
type Executor interface {
	Call(ctx context.Context, parameters map[string]interface{}, tctx *models.Context) ([]models.Document, error)
}

// Definition couples the model-facing tool schema with its executor
// and category.
type Definition struct {
	models.Tool
	Category Category
	Executor Executor
}

// Registry maps tool names to their definitions.
type Registry struct {
	tools  map[string]Definition
	logger *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]Definition),
		logger: log.Default(),
	}
}

// DefaultRegistry creates a registry with the built-in file tools
// wired to the given store.
func DefaultRegistry(store stores.Store) *Registry {
	r := NewRegistry()
	r.Register(ReadDocumentTool(store))
	r.Register(SearchFileTool(store))
	r.Register(WebFetchTool())
	if os.Getenv(BraveAPIKeyEnvVar) != "" {
		r.Register(WebSearchTool())
	}
	return r
}

// WithLogger overrides the logger.
func (r *Registry) WithLogger(logger *log.Logger) *Registry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register adds or replaces a tool definition.
func (r *Registry) Register(def Definition) {
	if def.Name == "" {
		r.logger.Printf("Warning: Ignoring tool registration with empty name")
		return
	}
	r.tools[def.Name] = def
}

// Resolve returns the definition for a tool name, if registered.
func (r *Registry) Resolve(name string) (Definition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasFileLoader reports whether any of the given tools is a registered
// file loader.
func (r *Registry) HasFileLoader(requested []models.Tool) bool {
	for _, t := range requested {
		if def, ok := r.tools[t.Name]; ok && def.Category == CategoryFileLoader {
			return true
		}
	}
	return false
}

// Execute runs a tool call and packages the result as output maps. An
// execution error does not abort the chat turn; it is reported to the
// model as an error output instead.
func (r *Registry) Execute(ctx context.Context, call models.ToolCall, tctx *models.Context) []map[string]interface{} {
	def, ok := r.tools[call.Name]
	if !ok {
		r.logger.Printf("Warning: Model requested unknown tool %q", call.Name)
		return []map[string]interface{}{
			{"text": fmt.Sprintf("Error: tool %q is not available", call.Name)},
		}
	}

	docs, err := def.Executor.Call(ctx, call.Parameters, tctx)
	if err != nil {
		r.logger.Printf("Warning: Tool %q failed: %v", call.Name, err)
		return []map[string]interface{}{
			{"text": fmt.Sprintf("Error executing tool %q: %v", call.Name, err)},
		}
	}

	outputs := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		out := map[string]interface{}{"text": doc.Text}
		if doc.Title != "" {
			out["title"] = doc.Title
		}
		if doc.URL != "" {
			out["url"] = doc.URL
		}
		outputs = append(outputs, out)
	}
	return outputs
}
