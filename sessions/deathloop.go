package sessions

import (
	"encoding/json"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

// SequenceSimilarity scores two strings by their longest common
// subsequence: 2*LCS / (len(a)+len(b)). Identical strings score 1,
// disjoint ones 0.
func SequenceSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// checkDeathLoop compares a tool-calls-generation event against the
// previous one. When both the last two plans or the last two actions
// repeat above the threshold, the model is stuck and the turn must be
// aborted.
func (s *ChatSession) checkDeathLoop(event *models.StreamToolCallsGeneration) bool {
	similarity := s.Similarity
	if similarity == nil {
		similarity = SequenceSimilarity
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = DeathLoopThreshold
	}

	plan := event.Text
	action := ""
	if raw, err := json.Marshal(event.ToolCalls); err == nil {
		action = string(raw)
	}

	state := &s.eventState

	if state.PreviousPlan != "" || state.PreviousAction != "" {
		state.DistancesPlans = append(state.DistancesPlans, similarity(plan, state.PreviousPlan))
		state.DistancesActions = append(state.DistancesActions, similarity(action, state.PreviousAction))
	}
	state.PreviousPlan = plan
	state.PreviousAction = action

	return lastTwoAbove(state.DistancesPlans, threshold) || lastTwoAbove(state.DistancesActions, threshold)
}

func lastTwoAbove(distances []float64, threshold float64) bool {
	if len(distances) < 2 {
		return false
	}
	n := len(distances)
	return distances[n-1] > threshold && distances[n-2] > threshold
}
