package openai

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/templates"
)

// defaultChatMaxTokens is sent on /chat/completions when the caller
// did not set a limit; -1 tells llama.cpp-style servers "no limit".
const defaultChatMaxTokens = -1

// defaultCompletionMaxTokens caps templated /completions calls.
const defaultCompletionMaxTokens = 4096

// ChatRequestBody translates a Cohere chat request into a
// /chat/completions body. The conversation is converted message by
// message, pending tool results become a tool message, and the strict
// document-assistant system message is prepended.
func ChatRequestBody(req *models.CohereChatRequest) ChatCompletionRequest {
	messages := processChatHistory(req.ChatHistory)

	if len(req.ToolResults) > 0 {
		if text := toolResultsAsText(req.ToolResults); text != "" {
			messages = append(messages, Message{Role: "tool", Content: text})
		}
	}

	tools := ConvertTools(req.Tools)
	builder := templates.GetBuilder("qwen", messagesAsTemplate(messages), toolsAsAny(tools), "")
	system := builder.CreateDefaultSystemMessage()
	messages = append([]Message{{Role: system.Role, Content: system.Content}}, messages...)

	maxTokens := defaultChatMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	return ChatCompletionRequest{
		Model:            req.Model,
		Messages:         messages,
		MaxTokens:        maxTokens,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.StopSequences,
	}
}

// CompletionRequestBody translates a Cohere chat request into a raw
// /completions body by rendering the whole conversation, tool schemas
// and pending tool results through the named prompt template.
func CompletionRequestBody(req *models.CohereChatRequest, templateName string) CompletionRequest {
	messages := processChatHistory(req.ChatHistory)

	toolResponse := ""
	if len(req.ToolResults) > 0 {
		toolResponse = toolResultsAsText(req.ToolResults)
	}

	tools := ConvertTools(req.Tools)
	prompt := templates.BuildFullTemplate(templateName, messagesAsTemplate(messages), toolsAsAny(tools), toolResponse)

	maxTokens := defaultCompletionMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	return CompletionRequest{
		Model:            req.Model,
		Prompt:           prompt,
		MaxTokens:        maxTokens,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		Stop:             req.StopSequences,
	}
}

// processChatHistory converts Cohere history messages into provider
// messages. Entries with nothing to say and entries with unknown
// roles are skipped.
func processChatHistory(history []models.ChatMessage) []Message {
	messages := make([]Message, 0, len(history))
	for _, entry := range history {
		if !entry.HasContent() {
			continue
		}
		switch entry.Role {
		case models.ChatRoleSystem:
			content := entry.Message
			if len(entry.ToolResults) > 0 {
				content = "Tool Response: " + marshalToolResults(entry.ToolResults)
			}
			messages = append(messages, Message{Role: "system", Content: content})
		case models.ChatRoleUser:
			messages = append(messages, Message{Role: "user", Content: entry.Message})
		case models.ChatRoleChatbot, "ASSISTANT":
			content := entry.Message
			calls := convertRequestToolCalls(entry.ToolCalls)
			if len(calls) > 0 && content == "" {
				content = stringifyToolCalls(entry.ToolCalls)
			}
			messages = append(messages, Message{Role: "assistant", Content: content, ToolCalls: calls})
		case models.ChatRoleTool:
			messages = append(messages, Message{Role: "tool", Content: entry.Message})
		default:
			log.Printf("Skipping history entry with unknown role: %s", entry.Role)
		}
	}
	return messages
}

// convertRequestToolCalls turns reconstructed tool calls back into
// provider shape, with parameters serialized as the arguments string.
func convertRequestToolCalls(calls []models.ToolCall) []ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(calls))
	for _, call := range calls {
		if call.Name == "" {
			continue
		}
		arguments, err := json.Marshal(call.Parameters)
		if err != nil {
			arguments = []byte("{}")
		}
		out = append(out, ToolCall{
			Type:     "function",
			Function: ToolCallFunction{Name: call.Name, Arguments: string(arguments)},
		})
	}
	return out
}

// ConvertTools converts Cohere tool definitions into provider tool
// params. Parameter definitions (minus any literal "required" key)
// become the schema, and the names of required parameters are
// collected into a sorted "required" list. A tool with no parameters
// gets an empty schema rather than a null one.
func ConvertTools(tools []models.Tool) []ToolParam {
	out := make([]ToolParam, 0, len(tools))
	for _, tool := range tools {
		parameters := map[string]interface{}{}
		if len(tool.ParameterDefinitions) > 0 {
			required := []string{}
			for name, def := range tool.ParameterDefinitions {
				if name == "required" {
					continue
				}
				parameters[name] = def
				if def.Required {
					required = append(required, name)
				}
			}
			if len(parameters) > 0 {
				sort.Strings(required)
				parameters["type"] = "dict"
				parameters["required"] = required
			}
		}
		out = append(out, ToolParam{
			Type: "function",
			Function: FunctionDef{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		})
	}
	return out
}

// toolResultsAsText renders tool results as a plain-text block: one
// framed section per output, naming the call it answers.
func toolResultsAsText(results []models.ToolResult) string {
	var sb strings.Builder
	for _, result := range results {
		callText := ""
		if result.Call != nil {
			callText = result.Call.String()
		}
		for _, output := range result.Outputs {
			text, _ := output["text"].(string)
			if text == "" {
				raw, err := json.Marshal(output)
				if err == nil {
					text = string(raw)
				}
			}
			fmt.Fprintf(&sb, "Here's the tool response:\n\nTool Call:\n%s\n\nResult:\n%s\n", callText, text)
		}
	}
	return sb.String()
}

// NormalizeHistory produces the history snapshot reported back on
// stream-end: assistant tool calls are folded into the message text
// and system-borne tool results become a "Tool Response" message, so
// a client can replay the history verbatim.
func NormalizeHistory(history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history))
	for _, msg := range history {
		normalized := msg
		switch msg.Role {
		case models.ChatRoleChatbot:
			if len(msg.ToolCalls) > 0 {
				normalized.Message = msg.Message + stringifyToolCalls(msg.ToolCalls)
			}
		case models.ChatRoleSystem:
			if len(msg.ToolResults) > 0 {
				normalized.Message = "Tool Response: " + marshalToolResults(msg.ToolResults)
			}
		}
		out = append(out, normalized)
	}
	return out
}

func stringifyToolCalls(calls []models.ToolCall) string {
	var sb strings.Builder
	for _, call := range calls {
		sb.WriteString(call.String())
	}
	return sb.String()
}

func marshalToolResults(results []models.ToolResult) string {
	raw, err := json.Marshal(results)
	if err != nil {
		return ""
	}
	return string(raw)
}

func messagesAsTemplate(messages []Message) []templates.Message {
	out := make([]templates.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, templates.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func toolsAsAny(tools []ToolParam) []interface{} {
	out := make([]interface{}, 0, len(tools))
	for _, t := range tools {
		out = append(out, t)
	}
	return out
}

var (
	bracketPattern    = regexp.MustCompile(`[{}\[\]\\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanString strips escape sequences, brackets and redundant
// whitespace from a stringified structure so it reads as prose. Used
// for the query text of bridged search results.
func CleanString(input string) string {
	cleaned := strings.ReplaceAll(input, `\n`, "\n")
	cleaned = strings.ReplaceAll(cleaned, `\\`, `\`)
	cleaned = bracketPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
}
