// Package templates renders chat history into raw completion prompts
// for models that are driven through a plain /completions endpoint
// instead of the chat API. Each builder knows the delimiter tokens
// and instructional boilerplate of one model family.
package templates

import "time"

// Message is a chat turn in provider shape: a lowercase role
// ("system", "user", "assistant", "tool") and its text content.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Builder assembles the pieces of a prompt template. BuildFullTemplate
// is the product; the remaining methods expose the individual
// sections so callers can compose them differently.
type Builder interface {
	CreateDefaultSystemMessage() Message
	BuildSystemInitialMessage() string
	BuildChatMessages() string
	BuildToolResponseSection() string
	BuildToolsSection(fullBody bool) string
	BuildFullTemplate() string
}

// Constructor builds a Builder from the conversation, the tool
// schemas (any JSON-marshalable shape) and the pending tool response
// text.
type Constructor func(chatMessages []Message, tools []interface{}, toolResponse string) Builder

var builders = map[string]Constructor{
	"llama3.1": NewLlama31Builder,
	"llama3.2": NewLlama32Builder,
	"qwen":     NewQwenBuilder,
}

// Register adds a named builder. Registering an existing name
// replaces it.
func Register(name string, constructor Constructor) {
	builders[name] = constructor
}

// GetBuilder returns the builder registered under name. An empty name
// selects "llama3.1"; an unknown name falls back to the default
// builder.
func GetBuilder(name string, chatMessages []Message, tools []interface{}, toolResponse string) Builder {
	if name == "" {
		name = "llama3.1"
	}
	if constructor, ok := builders[name]; ok {
		return constructor(chatMessages, tools, toolResponse)
	}
	return NewDefaultBuilder(chatMessages, tools, toolResponse)
}

// BuildFullTemplate is a convenience for the common one-shot case.
func BuildFullTemplate(name string, chatMessages []Message, tools []interface{}, toolResponse string) string {
	return GetBuilder(name, chatMessages, tools, toolResponse).BuildFullTemplate()
}

// templateDate formats today the way the system prompts expect,
// e.g. "29 August 2026".
func templateDate() string {
	return time.Now().Format("02 January 2006")
}
