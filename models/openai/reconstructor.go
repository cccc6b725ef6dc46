package openai

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// DetectionState classifies what the accumulated text looks like so
// far: no tool call in sight, a candidate still being streamed, or a
// complete call.
type DetectionState int

const (
	DetectionNone DetectionState = iota
	DetectionPartial
	DetectionComplete
)

// Detection is the result of scanning accumulated text for an
// embedded tool call. Raw is the exact pre-normalization substring of
// the scanned text; Start and End delimit it (End exclusive). For
// DetectionPartial only Start is meaningful.
type Detection struct {
	State      DetectionState
	Name       string
	Parameters map[string]interface{}
	Raw        string
	Start      int
	End        int
}

var jsonNormalizer = strings.NewReplacer("(", "[", ")", "]", "'", `"`)

// balancedSpan walks s from start counting braces and returns the
// exclusive end of the first balanced span. ok is false when the
// braces never close.
func balancedSpan(s string, start int) (int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// DetectToolCall scans accumulated model text for a tool call written
// as loose JSON. The candidate spans from a '{' to the first position
// where braces balance; it is normalized (tuples to arrays, single to
// double quotes) and best-effort parsed. A balanced span that is not
// a call, such as a JSON object the model quoted in its answer, is
// skipped and scanning continues after it.
func DetectToolCall(accumulated string) Detection {
	search := 0
	for {
		offset := strings.Index(accumulated[search:], "{")
		if offset < 0 {
			return Detection{State: DetectionNone}
		}
		start := search + offset

		end, balanced := balancedSpan(accumulated, start)
		if !balanced {
			return Detection{State: DetectionPartial, Start: start}
		}

		raw := accumulated[start:end]
		parsed := gjson.Parse(jsonNormalizer.Replace(raw))
		name := parsed.Get("name")
		if parsed.IsObject() && name.Exists() && name.String() != "" {
			parameters := map[string]interface{}{}
			if p := parsed.Get("parameters"); p.IsObject() {
				if m, ok := p.Value().(map[string]interface{}); ok {
					parameters = m
				}
			}
			return Detection{
				State:      DetectionComplete,
				Name:       name.String(),
				Parameters: parameters,
				Raw:        raw,
				Start:      start,
				End:        end,
			}
		}

		search = end
	}
}

// Chunk is one upstream streaming event reduced to the fields the
// reconstructor cares about, regardless of which endpoint shape it
// arrived in.
type Chunk struct {
	Text           string
	FinishReason   string
	ToolCallDeltas []StreamToolCallDelta
	FunctionCall   bool
}

// Accumulator reconstructs Cohere events from one upstream call. It
// owns the accumulated text, the sticky per-call flags and the
// watermark of text already surfaced to the client.
type Accumulator struct {
	GenerationID         string
	ResponseID           string
	FullPreviousResponse string

	// FunctionTriggered goes sticky once a tool call has been
	// detected; every later chunk of the call is swallowed.
	FunctionTriggered bool
	// FirstRequestIsSent gates the single stream-start.
	FirstRequestIsSent bool
	// ResultSent gates the one-time tool-result bridge.
	ResultSent bool

	emitted int
}

func NewAccumulator(generationID, responseID string) *Accumulator {
	return &Accumulator{GenerationID: generationID, ResponseID: responseID}
}

// pendingThrough returns the not-yet-surfaced text up to end and
// advances the watermark.
func (a *Accumulator) pendingThrough(end int) string {
	if end <= a.emitted {
		return ""
	}
	text := a.FullPreviousResponse[a.emitted:end]
	a.emitted = end
	return text
}

// ProcessChunk folds one upstream chunk into the accumulator and
// returns the Cohere events it produces, in emit order. Once a tool
// call has been detected the stream goes silent: the orchestrator is
// about to run the tool and start a fresh upstream call.
func (a *Accumulator) ProcessChunk(chunk Chunk, req *models.CohereChatRequest) []models.StreamedChatEvent {
	if chunk.Text != "" {
		a.FullPreviousResponse += chunk.Text
	}
	if a.FunctionTriggered {
		return nil
	}

	detection := DetectToolCall(a.FullPreviousResponse)
	if detection.State == DetectionComplete {
		return a.completeToolCall(detection, req)
	}

	// Provider-native tool calling, for backends that implement the
	// structured API instead of writing JSON into the text.
	if chunk.FinishReason == "tool_calls" || chunk.FinishReason == "function_call" || chunk.FunctionCall {
		if len(chunk.ToolCallDeltas) > 0 {
			delta := convertToolCallDelta(chunk.ToolCallDeltas[0])
			return []models.StreamedChatEvent{models.NewStreamToolCallsChunk("", delta, "")}
		}
		return []models.StreamedChatEvent{models.NewStreamTextGeneration(a.pendingThrough(len(a.FullPreviousResponse)))}
	}

	// While a candidate is open, text from its first '{' onward is
	// held back; only the prose before it flows through.
	var pending string
	if detection.State == DetectionPartial {
		pending = a.pendingThrough(detection.Start)
	} else {
		pending = a.pendingThrough(len(a.FullPreviousResponse))
	}

	if chunk.FinishReason == "stop" {
		// The candidate never completed, so it was ordinary text
		// after all. Flush whatever is still held back.
		pending += a.pendingThrough(len(a.FullPreviousResponse))

		var events []models.StreamedChatEvent
		if pending != "" {
			events = append(events, models.NewStreamTextGeneration(pending))
		}
		response := &models.NonStreamedChatResponse{
			ResponseID:     a.ResponseID,
			GenerationID:   a.GenerationID,
			ConversationID: req.ConversationID,
			Text:           a.FullPreviousResponse,
			ChatHistory:    NormalizeHistory(req.ChatHistory),
			FinishReason:   models.FinishReasonComplete,
		}
		return append(events, models.NewStreamEnd(response))
	}

	if detection.State == DetectionPartial {
		if pending == "" {
			return nil
		}
		return []models.StreamedChatEvent{models.NewStreamTextGeneration(pending)}
	}
	return []models.StreamedChatEvent{models.NewStreamTextGeneration(pending)}
}

// completeToolCall emits the fixed four-event sequence for a
// reconstructed call: the prose before the JSON (plus a fence fix if
// the model left a code block open), the chunk announcing the call
// with the exact text to remove, the full call, and a stream-end
// whose history snapshot carries the call as a CHATBOT message.
func (a *Accumulator) completeToolCall(detection Detection, req *models.CohereChatRequest) []models.StreamedChatEvent {
	call := models.ToolCall{Name: detection.Name, Parameters: detection.Parameters}

	parameters, err := json.Marshal(detection.Parameters)
	if err != nil {
		parameters = []byte("{}")
	}
	name := detection.Name
	index := 0
	parametersText := string(parameters)
	delta := &models.ToolCallDelta{Name: &name, Index: &index, Parameters: &parametersText}

	text := a.pendingThrough(detection.Start)
	text += closingFenceFix(a.FullPreviousResponse)
	a.emitted = len(a.FullPreviousResponse)
	a.FunctionTriggered = true

	history := append(NormalizeHistory(req.ChatHistory), models.ChatMessage{
		Role:      models.ChatRoleChatbot,
		ToolCalls: []models.ToolCall{call},
	})
	response := &models.NonStreamedChatResponse{
		ResponseID:     a.ResponseID,
		GenerationID:   a.GenerationID,
		ConversationID: req.ConversationID,
		Text:           "",
		ChatHistory:    history,
		FinishReason:   models.FinishReasonComplete,
		ToolCalls:      []models.ToolCall{call},
	}

	return []models.StreamedChatEvent{
		models.NewStreamTextGeneration(text),
		models.NewStreamToolCallsChunk("Calling A Tool", delta, detection.Raw),
		models.NewStreamToolCallsGeneration([]models.ToolCall{call}, detection.Raw),
		models.NewStreamEnd(response),
	}
}

// BridgeToolResults converts the tool results that fed this call into
// search-results events over the request's files. Emitted once per
// upstream call.
func (a *Accumulator) BridgeToolResults(req *models.CohereChatRequest) []models.StreamedChatEvent {
	if a.ResultSent || len(req.ToolResults) == 0 {
		return nil
	}
	a.ResultSent = true

	documentIDs := req.FileIDs
	if documentIDs == nil {
		documentIDs = []string{}
	}

	events := make([]models.StreamedChatEvent, 0, len(req.ToolResults))
	for _, result := range req.ToolResults {
		raw, err := json.Marshal(result)
		if err != nil {
			continue
		}
		query := &models.ChatSearchQuery{Text: CleanString(string(raw)), GenerationID: a.GenerationID}
		searchResult := models.ChatSearchResult{SearchQuery: query, DocumentIDs: documentIDs}
		events = append(events, models.NewStreamSearchResults([]models.ChatSearchResult{searchResult}, []models.Document{}))
	}
	return events
}

// closingFenceFix returns the text needed to close a dangling
// markdown code fence, so stripping the tool-call JSON does not leave
// the client transcript inside an open block.
func closingFenceFix(s string) string {
	hasMarker := strings.Contains(s, "```") || strings.Contains(s, "'") || strings.Contains(s, `"`)
	terminated := strings.HasSuffix(s, "```") || strings.HasSuffix(s, "'") || strings.HasSuffix(s, `"`)
	if hasMarker && !terminated && strings.Contains(s, "```") {
		return "\n```\n"
	}
	return ""
}

func convertToolCallDelta(delta StreamToolCallDelta) *models.ToolCallDelta {
	if delta.Function == nil {
		return &models.ToolCallDelta{}
	}
	name := delta.Function.Name
	parameters := delta.Function.Arguments
	return &models.ToolCallDelta{Name: &name, Parameters: &parameters}
}
