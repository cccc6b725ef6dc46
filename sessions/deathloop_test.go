package sessions

import (
	"testing"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

func TestSequenceSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "call lookup", "call lookup", 1},
		{"disjoint", "abc", "xyz", 0},
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"single edit", "abcd", "abed", 0.75},
	}
	for _, tc := range cases {
		if got := SequenceSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: SequenceSimilarity(%q, %q) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCheckDeathLoop_RequiresTwoRepeats(t *testing.T) {
	session := &ChatSession{}
	call := models.ToolCall{Name: "lookup", Parameters: map[string]interface{}{"q": "x"}}
	event := models.NewStreamToolCallsGeneration([]models.ToolCall{call}, "I will call lookup")

	if session.checkDeathLoop(event) {
		t.Error("First occurrence must not trip the detector")
	}
	if session.checkDeathLoop(event) {
		t.Error("A single repeat must not trip the detector")
	}
	if !session.checkDeathLoop(event) {
		t.Error("Two consecutive repeats must trip the detector")
	}
}

func TestCheckDeathLoop_SingleDistanceNeverTrips(t *testing.T) {
	session := &ChatSession{}

	first := models.NewStreamToolCallsGeneration(
		[]models.ToolCall{{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}}},
		"I will read the first document",
	)
	second := models.NewStreamToolCallsGeneration(
		[]models.ToolCall{{Name: "read_document", Parameters: map[string]interface{}{"file_id": "f1"}}},
		"I will read the first document",
	)

	if session.checkDeathLoop(first) {
		t.Error("First occurrence must not trip the detector")
	}
	// Even a perfect repeat needs a second distance before it counts
	if session.checkDeathLoop(second) {
		t.Error("One distance is not enough evidence of a loop")
	}
}

func TestCheckDeathLoop_CustomThreshold(t *testing.T) {
	// With the threshold maxed out nothing ever counts as a repeat
	session := &ChatSession{Threshold: 1.1}
	call := models.ToolCall{Name: "lookup", Parameters: map[string]interface{}{"q": "x"}}
	event := models.NewStreamToolCallsGeneration([]models.ToolCall{call}, "same plan")

	for i := 0; i < 5; i++ {
		if session.checkDeathLoop(event) {
			t.Fatalf("Detector tripped on iteration %d despite the raised threshold", i)
		}
	}
}
