package openai

// Wire shapes for OpenAI-compatible endpoints. Only the fields this
// backend reads or writes are modeled.

// Message is one entry of the messages array on /chat/completions.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type FunctionDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type ToolParam struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// ChatCompletionRequest is the body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model            string      `json:"model"`
	Messages         []Message   `json:"messages"`
	MaxTokens        int         `json:"max_tokens,omitempty"`
	Temperature      *float64    `json:"temperature,omitempty"`
	FrequencyPenalty *float64    `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64    `json:"presence_penalty,omitempty"`
	Stop             []string    `json:"stop,omitempty"`
	Stream           bool        `json:"stream,omitempty"`
	Tools            []ToolParam `json:"tools,omitempty"`
	ToolChoice       string      `json:"tool_choice,omitempty"`
}

// CompletionRequest is the body for the legacy POST /completions,
// used when the conversation is rendered through a prompt template.
type CompletionRequest struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	Stream           bool     `json:"stream,omitempty"`
}

// StreamToolCallDelta is a provider-native partial tool call inside a
// streamed chat delta.
type StreamToolCallDelta struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function *ToolCallFunction `json:"function,omitempty"`
}

type ChatDelta struct {
	Role         string                `json:"role,omitempty"`
	Content      string                `json:"content,omitempty"`
	ToolCalls    []StreamToolCallDelta `json:"tool_calls,omitempty"`
	FunctionCall *ToolCallFunction     `json:"function_call,omitempty"`
}

type ChatStreamChoice struct {
	Index        int        `json:"index"`
	Delta        *ChatDelta `json:"delta,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

type ChatStreamChunk struct {
	ID      string             `json:"id"`
	Object  string             `json:"object,omitempty"`
	Model   string             `json:"model,omitempty"`
	Choices []ChatStreamChoice `json:"choices"`
}

type CompletionStreamChoice struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// CompletionStreamChunk covers both the standard completions chunk
// shape and the llama.cpp server shape, which puts the delta in a
// top-level "content" field and signals the end with "stop".
type CompletionStreamChunk struct {
	ID      string                   `json:"id,omitempty"`
	Choices []CompletionStreamChoice `json:"choices,omitempty"`
	Content string                   `json:"content,omitempty"`
	Stop    bool                     `json:"stop,omitempty"`
}

type ChatChoiceMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type ChatChoice struct {
	Index        int               `json:"index"`
	Message      ChatChoiceMessage `json:"message"`
	FinishReason string            `json:"finish_reason,omitempty"`
}

type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
}

type ModelData struct {
	ID string `json:"id"`
}

type ModelList struct {
	Data []ModelData `json:"data"`
}

type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
