package templates

import (
	"encoding/json"
	"strings"
)

// Llama-family delimiter tokens. The 3.1 and 3.2 templates share the
// exact same framing; only the default system message differs.
const (
	llamaBeginOfText   = "<|begin_of_text|>"
	llamaHeaderStart   = "<|start_header_id|>"
	llamaHeaderEnd     = "<|end_header_id|>"
	llamaEndOfTurn     = "<|eot_id|>"
	llamaToolRole      = "ipython"
	llamaAssistantRole = "assistant"
)

// toolCallInstructions is the boilerplate that precedes the tool JSON
// when the tools section is rendered as a standalone user turn.
const toolCallInstructions = `
Given the following functions, respond with a JSON-formatted function call with proper arguments.
Format: {"name": "function_name", "parameters": {Required Parameters}}

Reminder:
    - Function calls MUST follow the specified format.
    - Required parameters MUST be included.
    - Only call one function at a time.
    - Always add your sources when using search results.
`

// llamaBase carries the shared framing logic of the llama-style
// header/eot templates. Variants embed it and supply their own
// default system message.
type llamaBase struct {
	chatMessages []Message
	tools        []interface{}
	toolResponse string
	system       Message
}

func llamaHeader(role string) string {
	return llamaHeaderStart + role + llamaHeaderEnd + "\n"
}

func (b *llamaBase) BuildSystemInitialMessage() string {
	var sb strings.Builder
	sb.WriteString(llamaHeader(b.system.Role))
	if b.system.Content != "" {
		sb.WriteString(b.system.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(llamaEndOfTurn + "\n")
	return sb.String()
}

func (b *llamaBase) BuildChatMessages() string {
	var sb strings.Builder
	for _, message := range b.chatMessages {
		switch message.Role {
		case "user", "assistant", "system":
			sb.WriteString(llamaHeader(message.Role))
		}
		if message.Content != "" {
			sb.WriteString(message.Content)
			sb.WriteString("\n")
		}
		sb.WriteString(llamaEndOfTurn + "\n")
	}
	return sb.String()
}

// BuildToolResponseSection frames tool output as an ipython turn,
// which is how llama expects function results to come back.
func (b *llamaBase) BuildToolResponseSection() string {
	if b.toolResponse == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(llamaHeader(llamaToolRole))
	sb.WriteString(b.toolResponse)
	sb.WriteString("\n")
	sb.WriteString(llamaEndOfTurn + "\n")
	return sb.String()
}

func (b *llamaBase) toolsJSON() string {
	toolsJSON, err := json.MarshalIndent(b.tools, "", "    ")
	if err != nil {
		return "[]"
	}
	return string(toolsJSON)
}

// BuildToolsSection renders the tool schemas. With fullBody it is a
// complete user turn carrying the calling instructions; without, just
// the pretty-printed JSON for embedding in a system message.
func (b *llamaBase) BuildToolsSection(fullBody bool) string {
	if len(b.tools) == 0 {
		return ""
	}
	if !fullBody {
		return b.toolsJSON()
	}
	return llamaHeaderStart + "user" + llamaHeaderEnd + toolCallInstructions + b.toolsJSON() + "\n" + llamaEndOfTurn + "\n"
}

// BuildFullTemplate produces the complete prompt, ending with an open
// assistant header so the model continues from there.
func (b *llamaBase) BuildFullTemplate() string {
	var sb strings.Builder
	sb.WriteString(llamaBeginOfText)
	sb.WriteString(b.BuildSystemInitialMessage())
	sb.WriteString(b.BuildChatMessages())
	sb.WriteString(b.BuildToolResponseSection())
	sb.WriteString(llamaHeaderStart + llamaAssistantRole + llamaHeaderEnd)
	return sb.String()
}
