package dto

// SetOutcomeRequest records the evaluated outcome for a delivered signal.
type SetOutcomeRequest struct {
	Outcome string `json:"outcome"`
}
