package models

// StreamEventType discriminates the events of a streamed chat
// response. The value is serialized as the "event_type" field of
// every event.
type StreamEventType string

const (
	StreamEventStreamStart             StreamEventType = "stream-start"
	StreamEventSearchQueriesGeneration StreamEventType = "search-queries-generation"
	StreamEventSearchResults           StreamEventType = "search-results"
	StreamEventTextGeneration          StreamEventType = "text-generation"
	StreamEventCitationGeneration      StreamEventType = "citation-generation"
	StreamEventToolInput               StreamEventType = "tool-input"
	StreamEventToolResult              StreamEventType = "tool-result"
	StreamEventToolCallsGeneration     StreamEventType = "tool-calls-generation"
	StreamEventToolCallsChunk          StreamEventType = "tool-calls-chunk"
	StreamEventInlineFix               StreamEventType = "inline-fix"
	StreamEventStreamEnd               StreamEventType = "stream-end"
	StreamEventNonStreamedChatResponse StreamEventType = "non-streamed-chat-response"
)

// StreamedChatEvent is implemented by every event that can appear on
// a chat stream.
type StreamedChatEvent interface {
	Kind() StreamEventType
}

// StreamStart opens a logical response turn. It is emitted exactly
// once per external request, no matter how many upstream calls the
// tool loop makes.
type StreamStart struct {
	EventType      StreamEventType `json:"event_type"`
	GenerationID   string          `json:"generation_id,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"`
}

func NewStreamStart(generationID, conversationID string) *StreamStart {
	return &StreamStart{EventType: StreamEventStreamStart, GenerationID: generationID, ConversationID: conversationID}
}

func (e *StreamStart) Kind() StreamEventType { return StreamEventStreamStart }

// StreamTextGeneration carries an incremental piece of plain response
// text.
type StreamTextGeneration struct {
	EventType StreamEventType `json:"event_type"`
	Text      string          `json:"text"`
}

func NewStreamTextGeneration(text string) *StreamTextGeneration {
	return &StreamTextGeneration{EventType: StreamEventTextGeneration, Text: text}
}

func (e *StreamTextGeneration) Kind() StreamEventType { return StreamEventTextGeneration }

// StreamInlineFix carries corrective text for content that was
// already emitted, such as a closing code fence.
type StreamInlineFix struct {
	EventType StreamEventType `json:"event_type"`
	Text      string          `json:"text"`
}

func NewStreamInlineFix(text string) *StreamInlineFix {
	return &StreamInlineFix{EventType: StreamEventInlineFix, Text: text}
}

func (e *StreamInlineFix) Kind() StreamEventType { return StreamEventInlineFix }

// StreamToolCallsChunk announces that a tool call is being assembled.
// PartToRemove is the exact substring of already-streamed text that a
// client should strip from its transcript, since that text turned out
// to be a tool call rather than prose.
type StreamToolCallsChunk struct {
	EventType     StreamEventType `json:"event_type"`
	Text          string          `json:"text,omitempty"`
	ToolCallDelta *ToolCallDelta  `json:"tool_call_delta,omitempty"`
	PartToRemove  string          `json:"part_to_remove,omitempty"`
}

func NewStreamToolCallsChunk(text string, delta *ToolCallDelta, partToRemove string) *StreamToolCallsChunk {
	return &StreamToolCallsChunk{
		EventType:     StreamEventToolCallsChunk,
		Text:          text,
		ToolCallDelta: delta,
		PartToRemove:  partToRemove,
	}
}

func (e *StreamToolCallsChunk) Kind() StreamEventType { return StreamEventToolCallsChunk }

// StreamToolCallsGeneration carries the fully reconstructed tool
// calls for this turn. Text preserves the raw model output the calls
// were recovered from.
type StreamToolCallsGeneration struct {
	EventType StreamEventType `json:"event_type"`
	Text      string          `json:"text,omitempty"`
	ToolCalls []ToolCall      `json:"tool_calls"`
}

func NewStreamToolCallsGeneration(calls []ToolCall, text string) *StreamToolCallsGeneration {
	return &StreamToolCallsGeneration{EventType: StreamEventToolCallsGeneration, Text: text, ToolCalls: calls}
}

func (e *StreamToolCallsGeneration) Kind() StreamEventType { return StreamEventToolCallsGeneration }

// StreamSearchQueriesGeneration reports queries derived by the model.
type StreamSearchQueriesGeneration struct {
	EventType     StreamEventType   `json:"event_type"`
	SearchQueries []ChatSearchQuery `json:"search_queries"`
}

func NewStreamSearchQueriesGeneration(queries []ChatSearchQuery) *StreamSearchQueriesGeneration {
	return &StreamSearchQueriesGeneration{EventType: StreamEventSearchQueriesGeneration, SearchQueries: queries}
}

func (e *StreamSearchQueriesGeneration) Kind() StreamEventType {
	return StreamEventSearchQueriesGeneration
}

// StreamSearchResults surfaces tool results to the client as search
// results over the files they came from.
type StreamSearchResults struct {
	EventType     StreamEventType    `json:"event_type"`
	SearchResults []ChatSearchResult `json:"search_results"`
	Documents     []Document         `json:"documents,omitempty"`
}

func NewStreamSearchResults(results []ChatSearchResult, documents []Document) *StreamSearchResults {
	return &StreamSearchResults{EventType: StreamEventSearchResults, SearchResults: results, Documents: documents}
}

func (e *StreamSearchResults) Kind() StreamEventType { return StreamEventSearchResults }

// StreamCitationGeneration carries citations over text already sent.
type StreamCitationGeneration struct {
	EventType StreamEventType `json:"event_type"`
	Citations []Citation      `json:"citations"`
}

func NewStreamCitationGeneration(citations []Citation) *StreamCitationGeneration {
	return &StreamCitationGeneration{EventType: StreamEventCitationGeneration, Citations: citations}
}

func (e *StreamCitationGeneration) Kind() StreamEventType { return StreamEventCitationGeneration }

// StreamToolInput reports incremental structured input for a tool.
type StreamToolInput struct {
	EventType StreamEventType `json:"event_type"`
	InputType string          `json:"input_type,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Input     string          `json:"input,omitempty"`
	Text      string          `json:"text,omitempty"`
}

func (e *StreamToolInput) Kind() StreamEventType { return StreamEventToolInput }

// StreamToolResult reports the outcome of a single executed tool.
type StreamToolResult struct {
	EventType StreamEventType `json:"event_type"`
	ToolName  string          `json:"tool_name,omitempty"`
	Result    interface{}     `json:"result,omitempty"`
	Documents []Document      `json:"documents,omitempty"`
}

func (e *StreamToolResult) Kind() StreamEventType { return StreamEventToolResult }

// StreamEnd closes an upstream response. Response carries the
// collapsed form of everything streamed so far; on errors Error and
// StatusCode are set instead and FinishReason is ERROR.
type StreamEnd struct {
	EventType      StreamEventType          `json:"event_type"`
	ResponseID     string                   `json:"response_id,omitempty"`
	GenerationID   string                   `json:"generation_id,omitempty"`
	ConversationID string                   `json:"conversation_id,omitempty"`
	Text           string                   `json:"text,omitempty"`
	FinishReason   string                   `json:"finish_reason,omitempty"`
	ChatHistory    []ChatMessage            `json:"chat_history,omitempty"`
	ToolCalls      []ToolCall               `json:"tool_calls,omitempty"`
	Response       *NonStreamedChatResponse `json:"response,omitempty"`
	Error          string                   `json:"error,omitempty"`
	StatusCode     int                      `json:"status_code,omitempty"`
}

func NewStreamEnd(response *NonStreamedChatResponse) *StreamEnd {
	end := &StreamEnd{EventType: StreamEventStreamEnd, Response: response}
	if response != nil {
		end.ResponseID = response.ResponseID
		end.GenerationID = response.GenerationID
		end.ConversationID = response.ConversationID
		end.Text = response.Text
		end.FinishReason = response.FinishReason
		end.ChatHistory = response.ChatHistory
		end.ToolCalls = response.ToolCalls
	}
	return end
}

// NewErrorStreamEnd builds the stream-end used when a turn dies: no
// response payload, just the error and an HTTP-ish status code.
func NewErrorStreamEnd(err string, statusCode int) *StreamEnd {
	return &StreamEnd{
		EventType:    StreamEventStreamEnd,
		FinishReason: FinishReasonError,
		Error:        err,
		StatusCode:   statusCode,
	}
}

func (e *StreamEnd) Kind() StreamEventType { return StreamEventStreamEnd }

// StreamNonStreamedChatResponse wraps a full response on streams that
// had nothing incremental to say.
type StreamNonStreamedChatResponse struct {
	EventType StreamEventType          `json:"event_type"`
	Response  *NonStreamedChatResponse `json:"response"`
}

func NewStreamNonStreamedChatResponse(response *NonStreamedChatResponse) *StreamNonStreamedChatResponse {
	return &StreamNonStreamedChatResponse{EventType: StreamEventNonStreamedChatResponse, Response: response}
}

func (e *StreamNonStreamedChatResponse) Kind() StreamEventType {
	return StreamEventNonStreamedChatResponse
}
