package sessions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
	"github.com/7ozzam/cohere-toolkit-with-openai/tools"
)

// Chat runs a full multi-step chat turn. The deployment is invoked
// repeatedly while the model keeps requesting managed tools; tool
// results are fed back between steps. The returned channel carries
// the deduplicated event stream: one stream-start, the intermediate
// generation events of every step, and one final stream-end.
func (s *ChatSession) Chat(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) <-chan models.StreamedChatEvent {
	out := make(chan models.StreamedChatEvent)

	go func() {
		defer close(out)
		if err := s.runChat(ctx, req, tctx, out); err != nil {
			s.Logger.Printf("Warning: Chat turn failed: %v", err)
			s.send(ctx, out, models.NewErrorStreamEnd(err.Error(), 500))
		}
	}()

	return out
}

func (s *ChatSession) runChat(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context, out chan<- models.StreamedChatEvent) error {
	if tctx == nil {
		tctx = models.NewContext()
	}
	if tctx.ConversationID == "" {
		tctx = tctx.WithConversationID(req.ConversationID)
	}

	managed := s.managedTools(req)
	s.prepareTools(req, managed, tctx)

	s.eventState = models.EventState{}
	firstStart := true
	var finalEnd *models.StreamEnd
	var lastEnd *models.StreamEnd

	for step := 0; step < MaxSteps; step++ {
		s.Logger.Printf("[Chat] Step %d: invoking deployment (message=%q, tools=%d, tool_results=%d)",
			step+1, req.Message, len(req.Tools), len(req.ToolResults))

		// Each step gets its own cancel so an early return releases the
		// upstream stream instead of leaving its producer blocked.
		stepCtx, cancel := context.WithCancel(ctx)
		events, errs := s.Deployment.InvokeChatStream(stepCtx, req, tctx)
		hasToolCalls := false

	stream:
		for {
			select {
			case <-ctx.Done():
				cancel()
				return ctx.Err()
			case err, ok := <-errs:
				if ok && err != nil {
					cancel()
					return err
				}
				errs = nil
			case event, ok := <-events:
				if !ok {
					break stream
				}

				switch ev := event.(type) {
				case *models.StreamEnd:
					if len(ev.ChatHistory) > 0 {
						req.ChatHistory = ev.ChatHistory
					}
					lastEnd = ev
					if s.isFinalEvent(ev, req) {
						finalEnd = ev
					}
				case *models.StreamToolCallsGeneration:
					hasToolCalls = true
					if looping := s.checkDeathLoop(ev); looping {
						cancel()
						return fmt.Errorf("model repeated the same tool call, aborting to avoid a loop")
					}
					if !s.send(ctx, out, event) {
						cancel()
						return ctx.Err()
					}
					continue
				case *models.StreamStart:
					if firstStart {
						firstStart = false
						if !s.send(ctx, out, event) {
							cancel()
							return ctx.Err()
						}
					}
					continue
				}

				if _, isEnd := event.(*models.StreamEnd); isEnd {
					continue
				}
				if !s.send(ctx, out, event) {
					cancel()
					return ctx.Err()
				}
			}
		}
		cancel()

		s.Logger.Printf("[Chat] Step %d completed: has tool calls %v", step+1, hasToolCalls)

		if !hasToolCalls || len(managed) == 0 {
			break
		}

		results := s.executeTools(ctx, req.ChatHistory, tctx)
		if len(results) > 0 {
			req.ToolResults = results
			req.Message = ""
		}
	}

	// Step-budget exhaustion is not an error: the last stream-end seen
	// closes the turn even if the model was still asking for tools.
	if finalEnd == nil {
		finalEnd = lastEnd
	}
	if finalEnd == nil {
		return fmt.Errorf("upstream stream ended without a stream-end event")
	}

	s.persistHistory(req, tctx, finalEnd)
	if !s.send(ctx, out, finalEnd) {
		return ctx.Err()
	}
	return nil
}

// ChatNonStreaming runs a full chat turn and collapses the event
// stream into a single response.
func (s *ChatSession) ChatNonStreaming(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) (*models.NonStreamedChatResponse, error) {
	var text strings.Builder
	var finalEnd *models.StreamEnd

	for event := range s.Chat(ctx, req, tctx) {
		switch ev := event.(type) {
		case *models.StreamTextGeneration:
			text.WriteString(ev.Text)
		case *models.StreamEnd:
			finalEnd = ev
		}
	}

	if finalEnd == nil {
		return nil, fmt.Errorf("chat stream ended without a stream-end event")
	}
	if finalEnd.FinishReason == models.FinishReasonError {
		return nil, fmt.Errorf("chat failed: %s", finalEnd.Error)
	}

	resp := finalEnd.Response
	if resp == nil {
		resp = &models.NonStreamedChatResponse{
			ResponseID:     finalEnd.ResponseID,
			GenerationID:   finalEnd.GenerationID,
			ConversationID: finalEnd.ConversationID,
			Text:           text.String(),
			FinishReason:   finalEnd.FinishReason,
			ChatHistory:    finalEnd.ChatHistory,
			ToolCalls:      finalEnd.ToolCalls,
		}
	}
	return resp, nil
}

// isFinalEvent decides whether a stream-end closes the whole turn. A
// stream-end is final when the model gave a direct answer, or when it
// requested tools the server does not manage (the caller has to run
// those itself).
func (s *ChatSession) isFinalEvent(end *models.StreamEnd, req *models.CohereChatRequest) bool {
	if end.Response == nil {
		return true
	}
	if len(end.Response.ToolCalls) == 0 {
		return true
	}
	return len(req.Tools) > 0 && len(s.managedTools(req)) == 0
}

// managedTools filters the requested tools down to the ones the
// registry can execute.
func (s *ChatSession) managedTools(req *models.CohereChatRequest) []tools.Definition {
	if s.Registry == nil {
		return nil
	}
	managed := make([]tools.Definition, 0, len(req.Tools))
	for _, t := range req.Tools {
		if def, ok := s.Registry.Resolve(t.Name); ok {
			managed = append(managed, def)
		}
	}
	return managed
}

// prepareTools swaps the requested tools for their managed
// definitions and injects uploaded-file context into the history.
// When file-reader tools are requested but the conversation has no
// files, those tools are stripped so the model does not chase ghosts.
func (s *ChatSession) prepareTools(req *models.CohereChatRequest, managed []tools.Definition, tctx *models.Context) []string {
	if len(managed) == 0 {
		return nil
	}

	fileReaderNames := []string{}
	managedTools := make([]models.Tool, 0, len(managed))
	for _, def := range managed {
		managedTools = append(managedTools, def.Tool)
		if def.Category == tools.CategoryFileLoader {
			fileReaderNames = append(fileReaderNames, def.Name)
		}
	}
	req.Tools = managedTools

	if len(fileReaderNames) == 0 {
		return fileReaderNames
	}

	allFiles := s.collectFiles(req, tctx)
	if len(allFiles) > 0 {
		req.ChatHistory = append(req.ChatHistory, models.ChatMessage{
			Role:    models.ChatRoleSystem,
			Message: filesContextMessage(allFiles),
		})
		return fileReaderNames
	}

	kept := req.Tools[:0]
	for _, t := range req.Tools {
		isReader := false
		for _, name := range fileReaderNames {
			if t.Name == name {
				isReader = true
				break
			}
		}
		if !isReader {
			kept = append(kept, t)
		}
	}
	req.Tools = kept
	return nil
}

// collectFiles gathers the conversation's files, its folders' files
// and the agent's files.
func (s *ChatSession) collectFiles(req *models.CohereChatRequest, tctx *models.Context) []stores.File {
	if s.Store == nil {
		return nil
	}
	if len(req.FileIDs) == 0 && req.AgentID == "" {
		return nil
	}

	userID := tctx.UserID
	conversationID := tctx.ConversationID

	files, err := s.Store.GetFilesByConversation(conversationID, userID)
	if err != nil {
		s.Logger.Printf("Warning: Failed to load conversation files: %v", err)
	}

	folders, err := s.Store.GetFoldersByConversation(conversationID, userID)
	if err != nil {
		s.Logger.Printf("Warning: Failed to load conversation folders: %v", err)
	}
	folderFiles := []stores.File{}
	folderNames := map[uint]string{}
	for _, folder := range folders {
		folderNames[folder.ID] = folder.Name
		folderFiles = append(folderFiles, folder.Files...)
	}
	sort.Slice(folderFiles, func(i, j int) bool { return folderFiles[i].Path < folderFiles[j].Path })

	agentFiles := []stores.File{}
	if req.AgentID != "" {
		agentFiles, err = s.Store.GetFilesByAgent(req.AgentID, userID)
		if err != nil {
			s.Logger.Printf("Warning: Failed to load agent files: %v", err)
		}
	}

	all := append(append(files, agentFiles...), folderFiles...)
	for i := range all {
		if all[i].FolderID != nil {
			all[i].FolderName = folderNames[*all[i].FolderID]
		}
	}
	return all
}

// filesContextMessage renders the uploaded-file inventory the model
// sees as a system turn. Content stays out on purpose; the model is
// expected to call read_document for it.
func filesContextMessage(files []stores.File) string {
	var b strings.Builder
	b.WriteString("The user uploaded the following files:\n")
	for _, file := range files {
		b.WriteString(fmt.Sprintf("%q: %q, ", "filename", file.FileName))
		b.WriteString(fmt.Sprintf("%q: %q, ", "file_id", file.FileID))
		if file.FolderName != "" {
			b.WriteString(fmt.Sprintf("%q: %q, ", "folder_name", file.FolderName))
			if file.Path != "" {
				b.WriteString(fmt.Sprintf("%q: %q, ", "file_path", file.Path))
			}
		}
		b.WriteString(fmt.Sprintf("%q: %d, ", "word_count", file.WordCount))
		if file.FileSummary != "" {
			b.WriteString(fmt.Sprintf("%q: \"\"\"Read the file to see it's content, the summary is just an indicator don't use it for answer :\n\n %s\"\"\", ",
				"file_summary", file.FileSummary))
		}
	}
	return b.String()
}

// executeTools runs the tool calls of the most recent assistant turn
// and packages the outputs as tool results for the next step.
func (s *ChatSession) executeTools(ctx context.Context, history []models.ChatMessage, tctx *models.Context) []models.ToolResult {
	var calls []models.ToolCall
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.ChatRoleChatbot && len(history[i].ToolCalls) > 0 {
			calls = history[i].ToolCalls
			break
		}
	}
	if len(calls) == 0 {
		return nil
	}

	results := make([]models.ToolResult, 0, len(calls))
	for i := range calls {
		call := calls[i]
		outputs := s.Registry.Execute(ctx, call, tctx)
		results = append(results, models.ToolResult{
			Call:    &call,
			Outputs: outputs,
		})
	}
	return results
}

// persistHistory saves the finished conversation history.
func (s *ChatSession) persistHistory(req *models.CohereChatRequest, tctx *models.Context, end *models.StreamEnd) {
	if s.Store == nil || req.ConversationID == "" {
		return
	}
	history := end.ChatHistory
	if len(history) == 0 {
		history = req.ChatHistory
	}
	if err := s.Store.SaveHistory(req.ConversationID, tctx.UserID, history); err != nil {
		s.Logger.Printf("Warning: Failed to save conversation history: %v", err)
	}
}

func (s *ChatSession) send(ctx context.Context, out chan<- models.StreamedChatEvent, event models.StreamedChatEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
