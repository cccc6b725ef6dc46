package models

// ChatRole identifies who a chat message came from. Roles use the
// Cohere convention (upper case) on the wire.
type ChatRole string

const (
	ChatRoleChatbot ChatRole = "CHATBOT"
	ChatRoleUser    ChatRole = "USER"
	ChatRoleSystem  ChatRole = "SYSTEM"
	ChatRoleTool    ChatRole = "TOOL"
)

// ChatMessage is a single turn of conversation history. A message may
// carry plain text, tool calls the assistant decided on, or the
// results of executing those calls.
type ChatMessage struct {
	Role        ChatRole     `json:"role"`
	Message     string       `json:"message,omitempty"`
	ToolPlan    string       `json:"tool_plan,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

// HasContent reports whether the message carries anything worth
// keeping in history.
func (m ChatMessage) HasContent() bool {
	return m.Message != "" || len(m.ToolCalls) > 0 || len(m.ToolResults) > 0
}

// CohereChatRequest is the inbound request shape of the chat API. It
// mirrors the Cohere chat endpoint: a new user message plus the prior
// chat history, with optional tools, tool results and sampling knobs.
type CohereChatRequest struct {
	Message          string        `json:"message"`
	ChatHistory      []ChatMessage `json:"chat_history,omitempty"`
	ConversationID   string        `json:"conversation_id,omitempty"`
	Model            string        `json:"model,omitempty"`
	Preamble         string        `json:"preamble,omitempty"`
	Tools            []Tool        `json:"tools,omitempty"`
	ToolResults      []ToolResult  `json:"tool_results,omitempty"`
	FileIDs          []string      `json:"file_ids,omitempty"`
	AgentID          string        `json:"agent_id,omitempty"`
	Temperature      *float64      `json:"temperature,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	StopSequences    []string      `json:"stop_sequences,omitempty"`
	ForceSingleStep  bool          `json:"force_single_step,omitempty"`
}

// Document is a retrieved piece of content surfaced to the model,
// usually the output of a file tool.
type Document struct {
	ID    string `json:"id,omitempty"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ChatSearchQuery is a query the backend derived while answering.
type ChatSearchQuery struct {
	Text         string `json:"text"`
	GenerationID string `json:"generation_id,omitempty"`
}

// ChatSearchResult ties a search query to the documents it produced.
type ChatSearchResult struct {
	SearchQuery *ChatSearchQuery `json:"search_query,omitempty"`
	DocumentIDs []string         `json:"document_ids"`
}

// Citation marks a span of generated text that references documents.
type Citation struct {
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Text        string   `json:"text"`
	DocumentIDs []string `json:"document_ids"`
}

// FinishReason values reported on stream-end and non-streamed
// responses.
const (
	FinishReasonComplete  = "COMPLETE"
	FinishReasonError     = "ERROR"
	FinishReasonMaxTokens = "MAX_TOKENS"
)

// NonStreamedChatResponse is the collapsed form of a streamed turn:
// the final text, tool calls and the updated chat history.
type NonStreamedChatResponse struct {
	ResponseID     string             `json:"response_id,omitempty"`
	GenerationID   string             `json:"generation_id,omitempty"`
	ConversationID string             `json:"conversation_id,omitempty"`
	Text           string             `json:"text"`
	ChatHistory    []ChatMessage      `json:"chat_history,omitempty"`
	FinishReason   string             `json:"finish_reason,omitempty"`
	ToolCalls      []ToolCall         `json:"tool_calls,omitempty"`
	Citations      []Citation         `json:"citations,omitempty"`
	Documents      []Document         `json:"documents,omitempty"`
	SearchResults  []ChatSearchResult `json:"search_results,omitempty"`
	SearchQueries  []ChatSearchQuery  `json:"search_queries,omitempty"`
	Error          string             `json:"error,omitempty"`
}
