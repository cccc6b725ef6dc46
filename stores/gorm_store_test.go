package stores

import (
	"path/filepath"
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStoreSimple(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveHistory_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	call := models.ToolCall{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}}
	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "what's in notes?"},
		{Role: models.ChatRoleChatbot, ToolCalls: []models.ToolCall{call}},
		{Role: models.ChatRoleSystem, ToolResults: []models.ToolResult{
			{Call: &call, Outputs: []map[string]interface{}{{"text": "meeting moved"}}},
		}},
		{Role: models.ChatRoleChatbot, Message: "The meeting moved."},
	}

	if err := store.SaveHistory("conv-1", "u1", history); err != nil {
		t.Fatal(err)
	}

	got, err := store.FetchHistory("conv-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(history) {
		t.Fatalf("Expected %d messages back, got %d", len(history), len(got))
	}
	for i, msg := range got {
		if msg.Role != history[i].Role {
			t.Errorf("Message %d: expected role %s, got %s", i, history[i].Role, msg.Role)
		}
		if msg.Message != history[i].Message {
			t.Errorf("Message %d: expected text %q, got %q", i, history[i].Message, msg.Message)
		}
	}
	if len(got[1].ToolCalls) != 1 || got[1].ToolCalls[0].Name != "read_document" {
		t.Fatalf("Expected the tool call to survive, got %+v", got[1].ToolCalls)
	}
	if got[1].ToolCalls[0].Parameters["file_id"] != "f1" {
		t.Errorf("Expected the call parameters to survive, got %v", got[1].ToolCalls[0].Parameters)
	}
	if len(got[2].ToolResults) != 1 || got[2].ToolResults[0].Outputs[0]["text"] != "meeting moved" {
		t.Errorf("Expected the tool result to survive, got %+v", got[2].ToolResults)
	}
}

func TestSaveHistory_ReplacesPreviousSnapshot(t *testing.T) {
	store := newTestStore(t)

	first := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "hi"},
		{Role: models.ChatRoleChatbot, Message: "hello"},
		{Role: models.ChatRoleUser, Message: "more"},
		{Role: models.ChatRoleChatbot, Message: "sure"},
	}
	second := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "fresh start"},
		{Role: models.ChatRoleChatbot, Message: "ok"},
	}

	if err := store.SaveHistory("conv-1", "u1", first); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveHistory("conv-1", "u1", second); err != nil {
		t.Fatal(err)
	}

	got, err := store.FetchHistory("conv-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected the second snapshot to replace the first, got %d messages", len(got))
	}
	if got[0].Message != "fresh start" {
		t.Errorf("Expected the replacement history, got %q", got[0].Message)
	}
}

func TestFetchHistory_LimitReturnsMostRecent(t *testing.T) {
	store := newTestStore(t)

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "one"},
		{Role: models.ChatRoleChatbot, Message: "two"},
		{Role: models.ChatRoleUser, Message: "three"},
		{Role: models.ChatRoleChatbot, Message: "four"},
	}
	if err := store.SaveHistory("conv-1", "u1", history); err != nil {
		t.Fatal(err)
	}

	got, err := store.FetchHistory("conv-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got))
	}
	if got[0].Message != "three" || got[1].Message != "four" {
		t.Errorf("Expected the most recent messages, got %q and %q", got[0].Message, got[1].Message)
	}
}

func TestFetchHistory_DropsEmptyMessages(t *testing.T) {
	store := newTestStore(t)

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "hi"},
		{Role: models.ChatRoleChatbot},
		{Role: models.ChatRoleChatbot, Message: "hello"},
	}
	if err := store.SaveHistory("conv-1", "u1", history); err != nil {
		t.Fatal(err)
	}

	got, err := store.FetchHistory("conv-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected the empty turn dropped, got %d messages", len(got))
	}
}

func TestFetchHistory_UnknownConversation(t *testing.T) {
	store := newTestStore(t)

	got, err := store.FetchHistory("nope", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no history for an unknown conversation, got %d messages", len(got))
	}
}

func TestSaveHistory_CreatesConversationRecord(t *testing.T) {
	store := newTestStore(t)

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "hi"},
		{Role: models.ChatRoleChatbot, Message: "hello"},
	}
	if err := store.SaveHistory("conv-1", "u1", history); err != nil {
		t.Fatal(err)
	}

	convs, err := store.ListConversationsForUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 {
		t.Fatalf("Expected one conversation, got %d", len(convs))
	}
	if convs[0].ConversationID != "conv-1" || convs[0].MessageCount != 2 {
		t.Errorf("Unexpected conversation record %+v", convs[0])
	}
}
