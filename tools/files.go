package tools

import (
	"context"
	"fmt"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

// ReadDocumentTool returns the managed read_document tool, which loads
// the full content of one uploaded file.
func ReadDocumentTool(store stores.Store) Definition {
	return Definition{
		Tool: models.Tool{
			Name:        "read_document",
			Description: "Reads the full content of a document that the user has uploaded. Accepts a file id or a filename.",
			ParameterDefinitions: map[string]models.ToolParameterDefinition{
				"file_id": {
					Type:        "str",
					Description: "The id of the file to read",
					Required:    false,
				},
				"filename": {
					Type:        "str",
					Description: "The name of the file to read",
					Required:    false,
				},
			},
		},
		Category: CategoryFileLoader,
		Executor: &readDocumentExecutor{store: store},
	}
}

type readDocumentExecutor struct {
	store stores.Store
}

func (e *readDocumentExecutor) Call(ctx context.Context, parameters map[string]interface{}, tctx *models.Context) ([]models.Document, error) {
	fileID := stringParam(parameters, "file_id")
	fileName := stringParam(parameters, "filename")

	// Some models pass a [name, id] pair under "file"
	if pair, ok := parameters["file"].([]interface{}); ok && len(pair) == 2 {
		if id, ok := pair[1].(string); ok {
			fileID = id
		}
	}

	if fileID == "" && fileName == "" {
		return []models.Document{}, nil
	}

	var file *stores.File
	var err error
	if fileID != "" {
		file, err = e.store.GetFile(fileID, tctx.UserID)
	} else {
		file, err = e.store.GetFileByName(fileName, tctx.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	return []models.Document{
		{
			Text:  file.FileContent,
			Title: file.FileName,
			URL:   file.FileName,
		},
	}, nil
}

// SearchFileTool returns the managed search_file tool, which returns
// the content of a set of uploaded files for a query.
func SearchFileTool(store stores.Store) Definition {
	return Definition{
		Tool: models.Tool{
			Name:        "search_file",
			Description: "Searches the content of files that the user has uploaded.",
			ParameterDefinitions: map[string]models.ToolParameterDefinition{
				"search_query": {
					Type:        "str",
					Description: "Textual search query to search over the file's content for",
					Required:    true,
				},
				"files": {
					Type:        "list[tuple[str, str]]",
					Description: "A list of files represented as tuples of (filename, file id) to search over",
					Required:    true,
				},
			},
		},
		Category: CategoryFileLoader,
		Executor: &searchFileExecutor{store: store},
	}
}

type searchFileExecutor struct {
	store stores.Store
}

func (e *searchFileExecutor) Call(ctx context.Context, parameters map[string]interface{}, tctx *models.Context) ([]models.Document, error) {
	query := stringParam(parameters, "search_query")
	rawFiles, _ := parameters["files"].([]interface{})
	if query == "" || len(rawFiles) == 0 {
		return []models.Document{}, nil
	}

	fileIDs := make([]string, 0, len(rawFiles))
	for _, raw := range rawFiles {
		pair, ok := raw.([]interface{})
		if !ok || len(pair) != 2 {
			continue
		}
		if id, ok := pair[1].(string); ok {
			fileIDs = append(fileIDs, id)
		}
	}
	if len(fileIDs) == 0 {
		return []models.Document{}, nil
	}

	files, err := e.store.GetFilesByIDs(fileIDs, tctx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}

	docs := make([]models.Document, 0, len(files))
	for _, file := range files {
		docs = append(docs, models.Document{
			Text:  file.FileContent,
			Title: file.FileName,
			URL:   file.FileName,
		})
	}
	return docs, nil
}

func stringParam(parameters map[string]interface{}, key string) string {
	if v, ok := parameters[key].(string); ok {
		return v
	}
	return ""
}
