package templates

import "fmt"

// DefaultBuilder is the fallback for unknown template names. It
// produces fixed placeholder sections so misconfigured deployments
// fail visibly instead of sending a half-formed llama prompt to a
// model that does not speak it.
type DefaultBuilder struct {
	chatMessages []Message
	tools        []interface{}
	toolResponse string
}

func NewDefaultBuilder(chatMessages []Message, tools []interface{}, toolResponse string) Builder {
	return &DefaultBuilder{chatMessages: chatMessages, tools: tools, toolResponse: toolResponse}
}

func (b *DefaultBuilder) CreateDefaultSystemMessage() Message {
	return Message{Role: "system", Content: fmt.Sprintf("Default system message as of %s", templateDate())}
}

func (b *DefaultBuilder) BuildSystemInitialMessage() string {
	return "Default system initial message."
}

func (b *DefaultBuilder) BuildChatMessages() string {
	return "Default chat messages."
}

func (b *DefaultBuilder) BuildToolResponseSection() string {
	return "Default tool response."
}

func (b *DefaultBuilder) BuildToolsSection(fullBody bool) string {
	return "Default tools section."
}

func (b *DefaultBuilder) BuildFullTemplate() string {
	return "Default full template."
}
