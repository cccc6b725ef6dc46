package stores

import (
	"testing"
	"time"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

func TestJanitor_PrunesStaleConversations(t *testing.T) {
	store := newTestStore(t)

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Message: "hi"},
		{Role: models.ChatRoleChatbot, Message: "hello"},
	}
	if err := store.SaveHistory("stale", "u1", history); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveHistory("fresh", "u1", history); err != nil {
		t.Fatal(err)
	}

	// Backdate the stale conversation past the retention window
	if err := store.db.Model(&Conversation{}).
		Where("conversation_id = ?", "stale").
		UpdateColumn("updated_at", time.Now().Add(-48*time.Hour)).Error; err != nil {
		t.Fatal(err)
	}

	janitor := NewJanitor(store, 24*time.Hour)
	janitor.runOnce()

	convs, err := store.ListConversationsForUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 || convs[0].ConversationID != "fresh" {
		t.Fatalf("Expected only the fresh conversation to survive, got %+v", convs)
	}
	if msgs, err := store.FetchHistory("stale", 0); err != nil || len(msgs) != 0 {
		t.Errorf("Expected the stale conversation's messages pruned, got %d (%v)", len(msgs), err)
	}
}

func TestJanitor_ZeroRetentionDisablesPruning(t *testing.T) {
	store := newTestStore(t)
	janitor := NewJanitor(store, 0)

	if err := janitor.Start(); err != nil {
		t.Fatalf("Expected a disabled janitor to start cleanly, got %v", err)
	}
	janitor.Stop()
}
