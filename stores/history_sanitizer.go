package stores

import (
	"log"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// SanitizeHistory ensures the chat history has valid turn structure before
// it is handed back to a model.
// It handles two main issues:
// 1. Truncation breaking tool cycles - ensures we don't start with an orphaned tool result
// 2. Corrupted history - removes tool-calling turns without matching results
//
// Valid turn patterns:
// - USER -> CHATBOT
// - USER -> CHATBOT(tool_calls) -> tool result carrier -> CHATBOT (or more tool cycles)
//
// The function ensures:
// - History always starts with a USER turn (not a tool result or a tool-calling turn)
// - Every CHATBOT turn with tool calls has a result carrier after it
// - No orphaned tool results without a preceding tool-calling turn
func SanitizeHistory(msgs []models.ChatMessage) []models.ChatMessage {
	if len(msgs) == 0 {
		return msgs
	}

	// Step 1: Find a valid starting point
	startIdx := findValidStartIndex(msgs)
	if startIdx == -1 {
		// No valid starting point found - try to find ANY user turn in history
		// to preserve at least some context
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == models.ChatRoleUser {
				log.Printf("[HISTORY_SANITIZER] No valid start, but found user turn at index %d, using as fallback", i)
				return []models.ChatMessage{msgs[i]}
			}
		}
		log.Printf("[HISTORY_SANITIZER] No valid starting point found, returning empty history")
		return []models.ChatMessage{}
	}

	if startIdx > 0 {
		log.Printf("[HISTORY_SANITIZER] Skipping first %d messages to find valid start (was role: %s)", startIdx, msgs[0].Role)
		msgs = msgs[startIdx:]
	}

	// Step 2: Validate and fix tool call cycles
	sanitized := sanitizeToolCycles(msgs)

	if len(sanitized) != len(msgs) {
		log.Printf("[HISTORY_SANITIZER] Removed %d messages with broken tool cycles", len(msgs)-len(sanitized))
	}

	return sanitized
}

// isToolCallTurn reports whether a message is a CHATBOT turn that requested
// one or more tool calls.
func isToolCallTurn(msg models.ChatMessage) bool {
	return msg.Role == models.ChatRoleChatbot && len(msg.ToolCalls) > 0
}

// isToolResultTurn reports whether a message carries tool results back to
// the model. Results ride either on a TOOL turn or on a SYSTEM turn with
// tool_results attached.
func isToolResultTurn(msg models.ChatMessage) bool {
	if msg.Role == models.ChatRoleTool {
		return true
	}
	return msg.Role == models.ChatRoleSystem && len(msg.ToolResults) > 0
}

// findValidStartIndex finds the first message that is a valid conversation
// start. Tool result carriers and tool-calling turns at the beginning are
// orphans left behind by truncation and get skipped.
func findValidStartIndex(msgs []models.ChatMessage) int {
	for i, msg := range msgs {
		if isToolCallTurn(msg) || isToolResultTurn(msg) {
			continue
		}
		switch msg.Role {
		case models.ChatRoleUser, models.ChatRoleChatbot:
			return i
		case models.ChatRoleSystem:
			// A plain system preamble is a fine start
			return i
		default:
			// Unknown role, try to use it
			return i
		}
	}
	return -1
}

// sanitizeToolCycles walks through messages and ensures tool call cycles
// are complete. A tool-calling turn without a following result carrier is
// removed, unless it sits at the very end of history where the results are
// expected to arrive with the current request. Orphaned result carriers
// are dropped, as are turns with no content at all.
func sanitizeToolCycles(msgs []models.ChatMessage) []models.ChatMessage {
	if len(msgs) == 0 {
		return msgs
	}

	result := make([]models.ChatMessage, 0, len(msgs))
	i := 0

	for i < len(msgs) {
		msg := msgs[i]

		switch {
		case isToolCallTurn(msg):
			cycleStart := i
			cycleMessages, nextIdx, valid := collectCompleteCycle(msgs, i)

			if valid {
				result = append(result, cycleMessages...)
				i = nextIdx
			} else if nextIdx >= len(msgs) {
				// Trailing tool calls at end of history - keep them, the
				// results are expected in the current turn
				log.Printf("[HISTORY_SANITIZER] Keeping trailing tool call turn(s) at end of history (index %d-%d) - results expected in current turn", cycleStart, nextIdx-1)
				result = append(result, cycleMessages...)
				i = nextIdx
			} else {
				log.Printf("[HISTORY_SANITIZER] Removing incomplete tool cycle in middle of history at index %d (tool calls without results)", cycleStart)
				i = nextIdx
			}

		case isToolResultTurn(msg):
			// Orphaned results without a preceding tool-calling turn
			log.Printf("[HISTORY_SANITIZER] Removing orphaned tool result turn at index %d", i)
			i++

		case !msg.HasContent():
			// Empty turns confuse some backends
			i++

		default:
			result = append(result, msg)
			i++
		}
	}

	return result
}

// collectCompleteCycle collects a complete tool cycle starting from a
// tool-calling CHATBOT turn: one or more tool-calling turns followed by
// their result carriers.
//
// Returns the messages in the cycle, the index to continue from, and
// whether the cycle is complete.
func collectCompleteCycle(msgs []models.ChatMessage, startIdx int) ([]models.ChatMessage, int, bool) {
	cycleMessages := []models.ChatMessage{}
	resultCount := 0
	i := startIdx

	for i < len(msgs) && isToolCallTurn(msgs[i]) {
		cycleMessages = append(cycleMessages, msgs[i])
		i++
	}

	for i < len(msgs) && isToolResultTurn(msgs[i]) {
		cycleMessages = append(cycleMessages, msgs[i])
		resultCount++
		i++
	}

	// Multiple results may be batched into one carrier, so we only require
	// at least one
	if resultCount == 0 {
		return nil, i, false
	}

	return cycleMessages, i, true
}

// DetectCorruptedHistory checks if the history has any issues that would
// cause backend errors. Returns a list of issues found (empty if clean).
func DetectCorruptedHistory(msgs []models.ChatMessage) []string {
	issues := []string{}

	if len(msgs) == 0 {
		return issues
	}

	if isToolResultTurn(msgs[0]) {
		issues = append(issues, "History starts with a tool result turn (orphaned)")
	}
	if isToolCallTurn(msgs[0]) {
		issues = append(issues, "History starts with a tool call turn (truncated mid-cycle)")
	}

	pendingCalls := 0
	for _, msg := range msgs {
		switch {
		case isToolCallTurn(msg):
			pendingCalls++
		case isToolResultTurn(msg):
			if pendingCalls > 0 {
				pendingCalls--
			} else {
				issues = append(issues, "Tool result turn without a preceding tool call turn")
			}
		}
	}

	if pendingCalls > 0 {
		issues = append(issues, "Orphaned tool call turn(s) without results at end of history")
	}

	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].Role == models.ChatRoleUser && msgs[i].Role == models.ChatRoleUser {
			issues = append(issues, "Two consecutive user turns")
		}
	}

	return issues
}
