package templates

import "fmt"

// Llama32Builder is the slimmer 3.2 variant: same framing as 3.1 but
// a much shorter instruction block.
type Llama32Builder struct {
	llamaBase
}

func NewLlama32Builder(chatMessages []Message, tools []interface{}, toolResponse string) Builder {
	b := &Llama32Builder{llamaBase{chatMessages: chatMessages, tools: tools, toolResponse: toolResponse}}
	b.system = b.CreateDefaultSystemMessage()
	return b
}

func (b *Llama32Builder) CreateDefaultSystemMessage() Message {
	content := fmt.Sprintf(`Environment: ipython
Cutting Knowledge Date: December 2023
Today Date: %s

# Tool Instructions
- When the user asks you a question, you can answer without tools.
- When looking for information, use relevant functions if available.
- When you receive a result from the tool, do not call it again.
- If invoking any functions, use the format:
  {'name': 'function_name', 'parameters': As Defined in the function}
You SHOULD NOT include any other text in the response.

You have access to the following functions:
%s

Reminder:
    - Function calls MUST follow the specified format.
    - Required parameters MUST be specified.
    - Only call one function at a time.
    - Place the entire function call reply on one line.
    - Always add sources when using search results to answer a query.
`, templateDate(), b.BuildToolsSection(false))
	return Message{Role: "system", Content: content}
}
