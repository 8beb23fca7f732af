package dto

// ToggleRequest switches one automation flag
type ToggleRequest struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

// TriggerRequest adds or removes an auto-respond rule
type TriggerRequest struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response,omitempty"`
}

// WordRequest adds or removes a banned word
type WordRequest struct {
	Word string `json:"word"`
}
