package models

import (
	"encoding/json"
	"fmt"
)

// ToolParameterDefinition describes one named parameter of a tool.
type ToolParameterDefinition struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Tool is a callable capability the model may invoke. Parameter
// definitions are keyed by parameter name.
type Tool struct {
	Name                 string                             `json:"name"`
	Description          string                             `json:"description,omitempty"`
	ParameterDefinitions map[string]ToolParameterDefinition `json:"parameter_definitions,omitempty"`
}

// ToolCall is a fully-formed tool invocation decided by the model.
type ToolCall struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// String renders the call the way it is shown to the model when a
// tool call has to be folded back into plain chat text.
func (t ToolCall) String() string {
	params, err := json.Marshal(t.Parameters)
	if err != nil {
		params = []byte("{}")
	}
	return fmt.Sprintf(`{"name": %q, "parameters": %s}`, t.Name, params)
}

// ToolCallDelta is a partial tool call observed mid-stream. Fields are
// pointers because a delta may carry any subset of them.
type ToolCallDelta struct {
	Name       *string `json:"name,omitempty"`
	Index      *int    `json:"index,omitempty"`
	Parameters *string `json:"parameters,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// ToolResult pairs an executed call with its raw outputs. Each output
// is a loose map; file tools put the content under a "text" key.
type ToolResult struct {
	Call    *ToolCall                `json:"call,omitempty"`
	Outputs []map[string]interface{} `json:"outputs"`
}
