package stores

import (
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

func userTurn(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.ChatRoleUser, Message: text}
}

func chatbotTurn(text string) models.ChatMessage {
	return models.ChatMessage{Role: models.ChatRoleChatbot, Message: text}
}

func toolCallTurn() models.ChatMessage {
	return models.ChatMessage{
		Role: models.ChatRoleChatbot,
		ToolCalls: []models.ToolCall{
			{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}},
		},
	}
}

func toolResultTurn() models.ChatMessage {
	call := models.ToolCall{Name: "read_document"}
	return models.ChatMessage{
		Role:        models.ChatRoleSystem,
		ToolResults: []models.ToolResult{{Call: &call, Outputs: []map[string]interface{}{{"text": "body"}}}},
	}
}

func TestSanitizeHistory_EmptyHistory(t *testing.T) {
	if result := SanitizeHistory([]models.ChatMessage{}); len(result) != 0 {
		t.Errorf("Expected empty result, got %d messages", len(result))
	}
}

func TestSanitizeHistory_ValidHistory(t *testing.T) {
	msgs := []models.ChatMessage{
		userTurn("hi"),
		chatbotTurn("hello"),
		userTurn("read my file"),
		toolCallTurn(),
		toolResultTurn(),
		chatbotTurn("here is what it says"),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 6 {
		t.Errorf("Expected 6 messages, got %d", len(result))
	}
}

func TestSanitizeHistory_OrphanedResultAtStart(t *testing.T) {
	msgs := []models.ChatMessage{
		toolResultTurn(), // orphaned after truncation
		userTurn("hi"),
		chatbotTurn("hello"),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 2 {
		t.Errorf("Expected 2 messages after skipping the orphan, got %d", len(result))
	}
	if result[0].Role != models.ChatRoleUser {
		t.Errorf("Expected the history to start with a user turn, got %s", result[0].Role)
	}
}

func TestSanitizeHistory_ToolCallTurnAtStart(t *testing.T) {
	msgs := []models.ChatMessage{
		toolCallTurn(), // truncated mid-cycle
		toolResultTurn(),
		userTurn("hi"),
		chatbotTurn("hello"),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 2 {
		t.Errorf("Expected the broken leading cycle dropped, got %d messages", len(result))
	}
}

func TestSanitizeHistory_IncompleteCycleInMiddle(t *testing.T) {
	msgs := []models.ChatMessage{
		userTurn("hi"),
		toolCallTurn(), // no result follows
		userTurn("are you there?"),
		chatbotTurn("yes"),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 3 {
		t.Errorf("Expected the unanswered tool call removed, got %d messages", len(result))
	}
	for _, msg := range result {
		if len(msg.ToolCalls) > 0 {
			t.Error("Expected no tool call turns to survive")
		}
	}
}

func TestSanitizeHistory_KeepsTrailingToolCalls(t *testing.T) {
	msgs := []models.ChatMessage{
		userTurn("read my file"),
		toolCallTurn(), // results expected in the current request
	}
	result := SanitizeHistory(msgs)
	if len(result) != 2 {
		t.Errorf("Expected trailing tool calls kept, got %d messages", len(result))
	}
}

func TestSanitizeHistory_DropsOrphanedResultInMiddle(t *testing.T) {
	msgs := []models.ChatMessage{
		userTurn("hi"),
		chatbotTurn("hello"),
		toolResultTurn(), // no preceding tool call
		userTurn("ok"),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 3 {
		t.Errorf("Expected the orphaned result dropped, got %d messages", len(result))
	}
}

func TestSanitizeHistory_NothingValidReturnsEmpty(t *testing.T) {
	msgs := []models.ChatMessage{
		toolResultTurn(),
		toolResultTurn(),
	}
	result := SanitizeHistory(msgs)
	if len(result) != 0 {
		t.Errorf("Expected empty history when nothing valid remains, got %d", len(result))
	}
}

func TestDetectCorruptedHistory(t *testing.T) {
	clean := []models.ChatMessage{
		userTurn("hi"),
		toolCallTurn(),
		toolResultTurn(),
		chatbotTurn("done"),
	}
	if issues := DetectCorruptedHistory(clean); len(issues) != 0 {
		t.Errorf("Expected no issues for a clean history, got %v", issues)
	}

	broken := []models.ChatMessage{
		toolResultTurn(),
		userTurn("hi"),
		userTurn("hello?"),
		toolCallTurn(),
	}
	issues := DetectCorruptedHistory(broken)
	if len(issues) < 3 {
		t.Errorf("Expected the orphan, the double user turn and the trailing call flagged, got %v", issues)
	}
}
