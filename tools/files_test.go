package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

// fakeStore serves canned files; everything else panics via the
// embedded nil interface.
type fakeStore struct {
	stores.Store
	files map[string]stores.File
}

func (s *fakeStore) GetFile(fileID, userID string) (*stores.File, error) {
	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return nil, fmt.Errorf("file %s not found", fileID)
	}
	return &file, nil
}

func (s *fakeStore) GetFileByName(fileName, userID string) (*stores.File, error) {
	for _, file := range s.files {
		if file.FileName == fileName && file.UserID == userID {
			f := file
			return &f, nil
		}
	}
	return nil, fmt.Errorf("file %q not found", fileName)
}

func (s *fakeStore) GetFilesByIDs(fileIDs []string, userID string) ([]stores.File, error) {
	out := []stores.File{}
	for _, id := range fileIDs {
		if file, ok := s.files[id]; ok && file.UserID == userID {
			out = append(out, file)
		}
	}
	return out, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]stores.File{
		"f1": {FileID: "f1", UserID: "u1", FileName: "notes.txt", FileContent: "meeting moved to Thursday"},
		"f2": {FileID: "f2", UserID: "u1", FileName: "budget.txt", FileContent: "Q3 spend was flat"},
		"f3": {FileID: "f3", UserID: "other", FileName: "secret.txt", FileContent: "not yours"},
	}}
}

func TestReadDocument_ByID(t *testing.T) {
	def := ReadDocumentTool(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	docs, err := def.Executor.Call(context.Background(), map[string]interface{}{"file_id": "f1"}, tctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if docs[0].Text != "meeting moved to Thursday" || docs[0].Title != "notes.txt" {
		t.Errorf("Unexpected document %+v", docs[0])
	}
}

func TestReadDocument_ByName(t *testing.T) {
	def := ReadDocumentTool(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	docs, err := def.Executor.Call(context.Background(), map[string]interface{}{"filename": "budget.txt"}, tctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Text != "Q3 spend was flat" {
		t.Errorf("Expected the budget file, got %+v", docs)
	}
}

func TestReadDocument_NoIdentifier(t *testing.T) {
	def := ReadDocumentTool(newFakeStore())
	docs, err := def.Executor.Call(context.Background(), map[string]interface{}{}, models.NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected no documents without an identifier, got %d", len(docs))
	}
}

func TestReadDocument_ScopedToUser(t *testing.T) {
	def := ReadDocumentTool(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	if _, err := def.Executor.Call(context.Background(), map[string]interface{}{"file_id": "f3"}, tctx); err == nil {
		t.Error("Expected another user's file to be unreachable")
	}
}

func TestSearchFile_ReturnsMatchedFiles(t *testing.T) {
	def := SearchFileTool(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	parameters := map[string]interface{}{
		"search_query": "spend",
		"files": []interface{}{
			[]interface{}{"budget.txt", "f2"},
			[]interface{}{"notes.txt", "f1"},
		},
	}
	docs, err := def.Executor.Call(context.Background(), parameters, tctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected both files returned, got %d", len(docs))
	}
}

func TestSearchFile_EmptyQueryOrFiles(t *testing.T) {
	def := SearchFileTool(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	docs, err := def.Executor.Call(context.Background(), map[string]interface{}{"search_query": "spend"}, tctx)
	if err != nil || len(docs) != 0 {
		t.Errorf("Expected no documents without files, got %v (%v)", docs, err)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	outputs := r.Execute(context.Background(), models.ToolCall{Name: "nope"}, models.NewContext())
	if len(outputs) != 1 {
		t.Fatalf("Expected one error output, got %d", len(outputs))
	}
	text, _ := outputs[0]["text"].(string)
	if !strings.Contains(text, "not available") {
		t.Errorf("Expected an error placeholder, got %q", text)
	}
}

func TestRegistry_ExecutePackagesDocuments(t *testing.T) {
	r := DefaultRegistry(newFakeStore())
	tctx := models.NewContext().WithUserID("u1")

	call := models.ToolCall{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}}
	outputs := r.Execute(context.Background(), call, tctx)
	if len(outputs) != 1 {
		t.Fatalf("Expected one output, got %d", len(outputs))
	}
	if outputs[0]["text"] != "meeting moved to Thursday" {
		t.Errorf("Expected the file body, got %v", outputs[0]["text"])
	}
	if outputs[0]["title"] != "notes.txt" {
		t.Errorf("Expected the file name as title, got %v", outputs[0]["title"])
	}
}

func TestHasFileLoader(t *testing.T) {
	r := DefaultRegistry(newFakeStore())
	if !r.HasFileLoader([]models.Tool{{Name: "read_document"}}) {
		t.Error("Expected read_document to count as a file loader")
	}
	if r.HasFileLoader([]models.Tool{{Name: "web_fetch"}}) {
		t.Error("Expected web_fetch not to count as a file loader")
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style></head>
<body><script>var x = 1;</script><h1>Title</h1><p>Some &amp; text.</p></body></html>`

	text := htmlToText(html)
	if strings.Contains(text, "var x") || strings.Contains(text, "color: red") {
		t.Errorf("Expected scripts and styles stripped, got %q", text)
	}
	if !strings.Contains(text, "Some & text.") {
		t.Errorf("Expected entities decoded, got %q", text)
	}
	if strings.Contains(text, "<") {
		t.Errorf("Expected all tags removed, got %q", text)
	}
}
