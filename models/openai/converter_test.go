package openai

import (
	"strings"
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

func TestConvertTools_FlatSchemaWithRequiredList(t *testing.T) {
	tools := []models.Tool{
		{
			Name:        "search_file",
			Description: "search uploaded files",
			ParameterDefinitions: map[string]models.ToolParameterDefinition{
				"search_query": {Type: "str", Description: "query", Required: true},
				"files":        {Type: "list", Description: "files", Required: true},
				"limit":        {Type: "int", Description: "cap", Required: false},
			},
		},
	}

	out := ConvertTools(tools)
	if len(out) != 1 {
		t.Fatalf("Expected 1 tool, got %d", len(out))
	}
	params := out[0].Function.Parameters
	if params["type"] != "dict" {
		t.Errorf("Expected type dict, got %v", params["type"])
	}
	required, ok := params["required"].([]string)
	if !ok {
		t.Fatalf("Expected a required list, got %T", params["required"])
	}
	if len(required) != 2 || required[0] != "files" || required[1] != "search_query" {
		t.Errorf("Expected sorted required names, got %v", required)
	}
	if _, ok := params["search_query"]; !ok {
		t.Error("Expected parameter definitions to stay in the schema")
	}
}

func TestConvertTools_EmptyParametersStaysEmptyMap(t *testing.T) {
	out := ConvertTools([]models.Tool{{Name: "ping"}})
	if len(out) != 1 {
		t.Fatalf("Expected 1 tool, got %d", len(out))
	}
	if out[0].Function.Parameters == nil {
		t.Error("Expected an empty parameters map, not nil")
	}
	if len(out[0].Function.Parameters) != 0 {
		t.Errorf("Expected no entries, got %v", out[0].Function.Parameters)
	}
}

func TestProcessChatHistory_RoleConversion(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "hi"},
		{Role: models.ChatRoleChatbot, Message: "hello"},
		{Role: models.ChatRoleSystem, Message: "be brief"},
		{Role: models.ChatRoleTool, Message: "tool output"},
		{Role: "WEIRD", Message: "dropped"},
		{Role: models.ChatRoleUser}, // no content, dropped
	}

	messages := processChatHistory(history)
	if len(messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(messages))
	}
	wantRoles := []string{"user", "assistant", "system", "tool"}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Errorf("Message %d: expected role %s, got %s", i, want, messages[i].Role)
		}
	}
}

func TestProcessChatHistory_StringifiesAssistantToolCalls(t *testing.T) {
	history := []models.ChatMessage{
		{
			Role: models.ChatRoleChatbot,
			ToolCalls: []models.ToolCall{
				{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}},
			},
		},
	}

	messages := processChatHistory(history)
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if !strings.Contains(messages[0].Content, `"name": "read_document"`) {
		t.Errorf("Expected stringified call in content, got %q", messages[0].Content)
	}
	if len(messages[0].ToolCalls) != 1 {
		t.Error("Expected the structured call to ride along")
	}
}

func TestToolResultsAsText_FramesEachOutput(t *testing.T) {
	call := models.ToolCall{Name: "read_document", Parameters: map[string]interface{}{}}
	results := []models.ToolResult{
		{
			Call: &call,
			Outputs: []map[string]interface{}{
				{"text": "first body"},
				{"title": "no text key"},
			},
		},
	}

	text := toolResultsAsText(results)
	if strings.Count(text, "Here's the tool response:") != 2 {
		t.Errorf("Expected one frame per output, got:\n%s", text)
	}
	if !strings.Contains(text, "first body") {
		t.Error("Expected the text output verbatim")
	}
	if !strings.Contains(text, "no text key") {
		t.Error("Expected outputs without text to be serialized as JSON")
	}
}

func TestChatRequestBody_PrependsSystemAndAppendsToolMessage(t *testing.T) {
	call := models.ToolCall{Name: "read_document", Parameters: map[string]interface{}{}}
	req := &models.CohereChatRequest{
		Model: "test-model",
		ChatHistory: []models.ChatMessage{
			{Role: models.ChatRoleUser, Message: "read it"},
		},
		ToolResults: []models.ToolResult{
			{Call: &call, Outputs: []map[string]interface{}{{"text": "contents"}}},
		},
	}

	body := ChatRequestBody(req)
	if body.Model != "test-model" {
		t.Errorf("Expected model to pass through, got %q", body.Model)
	}
	if body.MaxTokens != defaultChatMaxTokens {
		t.Errorf("Expected default max tokens %d, got %d", defaultChatMaxTokens, body.MaxTokens)
	}
	if len(body.Messages) < 3 {
		t.Fatalf("Expected system + history + tool messages, got %d", len(body.Messages))
	}
	if body.Messages[0].Role != "system" {
		t.Errorf("Expected the system message first, got role %s", body.Messages[0].Role)
	}
	last := body.Messages[len(body.Messages)-1]
	if last.Role != "tool" || !strings.Contains(last.Content, "contents") {
		t.Errorf("Expected the tool results message last, got %+v", last)
	}
}

func TestCompletionRequestBody_RendersTemplate(t *testing.T) {
	req := &models.CohereChatRequest{
		Model: "test-model",
		ChatHistory: []models.ChatMessage{
			{Role: models.ChatRoleUser, Message: "hello there"},
		},
	}

	body := CompletionRequestBody(req, "llama3.1")
	if body.MaxTokens != defaultCompletionMaxTokens {
		t.Errorf("Expected default max tokens %d, got %d", defaultCompletionMaxTokens, body.MaxTokens)
	}
	if !strings.Contains(body.Prompt, "<|begin_of_text|>") {
		t.Error("Expected the llama framing in the prompt")
	}
	if !strings.Contains(body.Prompt, "hello there") {
		t.Error("Expected the user turn in the prompt")
	}
	if !strings.HasSuffix(strings.TrimSpace(body.Prompt), "<|end_header_id|>") {
		t.Errorf("Expected the prompt to end with an open assistant header, got tail %q",
			body.Prompt[len(body.Prompt)-40:])
	}
}

func TestNormalizeHistory(t *testing.T) {
	call := models.ToolCall{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}}
	history := []models.ChatMessage{
		{Role: models.ChatRoleChatbot, ToolCalls: []models.ToolCall{call}},
		{Role: models.ChatRoleSystem, ToolResults: []models.ToolResult{{Call: &call}}},
		{Role: models.ChatRoleUser, Message: "unchanged"},
	}

	out := NormalizeHistory(history)
	if !strings.Contains(out[0].Message, `"name": "read_document"`) {
		t.Errorf("Expected the tool call folded into message text, got %q", out[0].Message)
	}
	if !strings.HasPrefix(out[1].Message, "Tool Response: ") {
		t.Errorf("Expected a Tool Response message, got %q", out[1].Message)
	}
	if out[2].Message != "unchanged" {
		t.Error("Expected plain messages to pass through untouched")
	}
}

func TestCleanString(t *testing.T) {
	got := CleanString(`{"call": {"name": "read_document"}, "outputs": [{"text": "body"}]}`)
	if strings.ContainsAny(got, `{}[]\`) {
		t.Errorf("Expected brackets stripped, got %q", got)
	}
	if !strings.Contains(got, "read_document") {
		t.Errorf("Expected the content kept, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Errorf("Expected whitespace collapsed, got %q", got)
	}
}
