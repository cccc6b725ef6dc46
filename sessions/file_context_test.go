package sessions

import (
	"context"
	"strings"
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
	"github.com/7ozzam/cohere-toolkit-with-openai/tools"
)

// fakeFileStore serves canned files and folders; unimplemented Store
// methods panic via the embedded nil interface.
type fakeFileStore struct {
	stores.Store
	files   []stores.File
	folders []stores.Folder
	saved   [][]models.ChatMessage
}

func (s *fakeFileStore) GetFilesByConversation(conversationID, userID string) ([]stores.File, error) {
	return s.files, nil
}

func (s *fakeFileStore) GetFoldersByConversation(conversationID, userID string) ([]stores.Folder, error) {
	return s.folders, nil
}

func (s *fakeFileStore) GetFilesByAgent(agentID, userID string) ([]stores.File, error) {
	return nil, nil
}

func (s *fakeFileStore) SaveHistory(conversationID, userID string, history []models.ChatMessage) error {
	s.saved = append(s.saved, history)
	return nil
}

func fileLoaderRegistry(executor *recordingExecutor) *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.Definition{
		Tool:     models.Tool{Name: "read_document"},
		Category: tools.CategoryFileLoader,
		Executor: executor,
	})
	return r
}

func TestFilesContextMessage(t *testing.T) {
	folderID := uint(7)
	files := []stores.File{
		{FileID: "f1", FileName: "notes.txt", WordCount: 42},
		{FileID: "f2", FileName: "plan.md", WordCount: 9, FolderID: &folderID, FolderName: "docs", Path: "docs/plan.md", FileSummary: "quarterly plan"},
	}

	msg := filesContextMessage(files)
	if !strings.HasPrefix(msg, "The user uploaded the following files:") {
		t.Fatalf("Unexpected preamble in %q", msg)
	}
	for _, want := range []string{`"filename": "notes.txt"`, `"file_id": "f1"`, `"word_count": 42`,
		`"folder_name": "docs"`, `"file_path": "docs/plan.md"`, "quarterly plan"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in the inventory, got %q", want, msg)
		}
	}
	if strings.Contains(msg, `"folder_name": ""`) {
		t.Error("Expected no folder entry for files outside folders")
	}
}

func TestChat_InjectsFileContextIntoHistory(t *testing.T) {
	store := &fakeFileStore{files: []stores.File{
		{FileID: "f1", FileName: "notes.txt", UserID: "u1", WordCount: 3},
	}}
	deployment := &scriptedDeployment{turns: [][]models.StreamedChatEvent{directAnswerTurn("Sure.")}}
	session := NewChatSession(deployment, store).WithRegistry(fileLoaderRegistry(&recordingExecutor{}))

	req := &models.CohereChatRequest{
		Message:        "what's in my files?",
		ConversationID: "conv-1",
		FileIDs:        []string{"f1"},
		Tools:          []models.Tool{{Name: "read_document"}},
	}
	collect(t, session.Chat(context.Background(), req, models.NewContext().WithUserID("u1")))

	if len(deployment.historiesSeen) != 1 {
		t.Fatalf("Expected one invocation, got %d", len(deployment.historiesSeen))
	}
	history := deployment.historiesSeen[0]
	if len(history) == 0 {
		t.Fatal("Expected the file inventory in the outgoing history")
	}
	last := history[len(history)-1]
	if last.Role != models.ChatRoleSystem {
		t.Fatalf("Expected a SYSTEM inventory turn, got %s", last.Role)
	}
	if !strings.Contains(last.Message, `"filename": "notes.txt"`) || !strings.Contains(last.Message, `"file_id": "f1"`) {
		t.Errorf("Expected the store's files listed, got %q", last.Message)
	}
	if len(deployment.toolsSeen[0]) != 1 || deployment.toolsSeen[0][0].Name != "read_document" {
		t.Errorf("Expected the file reader kept, got %v", deployment.toolsSeen[0])
	}
}

func TestChat_StripsFileReadersWithoutFiles(t *testing.T) {
	store := &fakeFileStore{}
	deployment := &scriptedDeployment{turns: [][]models.StreamedChatEvent{directAnswerTurn("Nothing uploaded.")}}
	session := NewChatSession(deployment, store).WithRegistry(fileLoaderRegistry(&recordingExecutor{}))

	req := &models.CohereChatRequest{
		Message:        "what's in my files?",
		ConversationID: "conv-1",
		FileIDs:        []string{"f1"},
		Tools:          []models.Tool{{Name: "read_document"}},
	}
	collect(t, session.Chat(context.Background(), req, models.NewContext().WithUserID("u1")))

	if len(deployment.toolsSeen[0]) != 0 {
		t.Errorf("Expected file readers stripped when no files exist, got %v", deployment.toolsSeen[0])
	}
	for _, msg := range deployment.historiesSeen[0] {
		if strings.Contains(msg.Message, "uploaded the following files") {
			t.Error("Expected no file inventory without files")
		}
	}
}
