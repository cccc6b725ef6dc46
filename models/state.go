package models

// EventState tracks repetition across tool-call rounds so the loop
// can detect a model that keeps planning and doing the same thing.
// Distances hold the similarity scores between consecutive plans and
// actions, most recent last.
type EventState struct {
	DistancesPlans   []float64 `json:"distances_plans"`
	DistancesActions []float64 `json:"distances_actions"`
	PreviousPlan     string    `json:"previous_plan"`
	PreviousAction   string    `json:"previous_action"`
}
