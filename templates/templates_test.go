package templates

import (
	"strings"
	"testing"
)

func sampleMessages() []Message {
	return []Message{
		{Role: "user", Content: "summarize the report"},
		{Role: "assistant", Content: "Which report?"},
		{Role: "user", Content: "the Q3 one"},
	}
}

func TestGetBuilder_DefaultsToLlama31(t *testing.T) {
	b := GetBuilder("", sampleMessages(), nil, "")
	if _, ok := b.(*Llama31Builder); !ok {
		t.Errorf("Expected llama3.1 builder for empty name, got %T", b)
	}
}

func TestGetBuilder_UnknownNameFallsBack(t *testing.T) {
	b := GetBuilder("no-such-template", sampleMessages(), nil, "")
	if _, ok := b.(*DefaultBuilder); !ok {
		t.Errorf("Expected the default builder for unknown names, got %T", b)
	}
}

func TestBuildFullTemplate_LlamaFraming(t *testing.T) {
	prompt := BuildFullTemplate("llama3.1", sampleMessages(), nil, "")

	if !strings.HasPrefix(prompt, "<|begin_of_text|>") {
		t.Error("Expected the begin-of-text marker first")
	}
	for _, marker := range []string{
		"<|start_header_id|>system<|end_header_id|>",
		"<|start_header_id|>user<|end_header_id|>",
		"<|start_header_id|>assistant<|end_header_id|>",
		"<|eot_id|>",
	} {
		if !strings.Contains(prompt, marker) {
			t.Errorf("Expected marker %q in the prompt", marker)
		}
	}
	if !strings.HasSuffix(prompt, "<|start_header_id|>assistant<|end_header_id|>") {
		t.Error("Expected the prompt to end with an open assistant header")
	}
	if !strings.Contains(prompt, "the Q3 one") {
		t.Error("Expected conversation content in the prompt")
	}
}

func TestBuildFullTemplate_ToolResponseSection(t *testing.T) {
	response := "Here's the tool response:\n\nTool Call:\nread_document\n\nResult:\nreport body\n"
	prompt := BuildFullTemplate("llama3.1", sampleMessages(), nil, response)

	if !strings.Contains(prompt, "<|start_header_id|>ipython<|end_header_id|>") {
		t.Error("Expected the tool response framed under the ipython role")
	}
	if !strings.Contains(prompt, "report body") {
		t.Error("Expected the tool response content in the prompt")
	}
}

func TestBuildToolsSection_IncludesSchemas(t *testing.T) {
	tools := []interface{}{
		map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        "read_document",
				"description": "read an uploaded file",
			},
		},
	}

	b := GetBuilder("llama3.1", sampleMessages(), tools, "")
	section := b.BuildToolsSection(false)
	if !strings.Contains(section, "read_document") {
		t.Errorf("Expected the tool schema in the section, got %q", section)
	}
}

func TestCreateDefaultSystemMessage_Variants(t *testing.T) {
	llama31 := GetBuilder("llama3.1", nil, nil, "").CreateDefaultSystemMessage()
	if llama31.Role != "system" {
		t.Errorf("Expected system role, got %q", llama31.Role)
	}
	if llama31.Content == "" {
		t.Fatal("Expected a non-empty llama3.1 system message")
	}

	qwen := GetBuilder("qwen", nil, nil, "").CreateDefaultSystemMessage()
	if !strings.Contains(qwen.Content, "read_document") {
		t.Error("Expected the qwen system message to demand the read_document tool")
	}

	llama32 := GetBuilder("llama3.2", nil, nil, "").CreateDefaultSystemMessage()
	if llama32.Content == llama31.Content {
		t.Error("Expected llama3.1 and llama3.2 system messages to differ")
	}
}
