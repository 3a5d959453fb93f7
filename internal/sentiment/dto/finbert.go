package dto

// FinBERTClassScore is one labelled score in a text-classification
// inference response.
type FinBERTClassScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FinBERTRequest is the inference request body.
type FinBERTRequest struct {
	Inputs string `json:"inputs"`
}

// FinBERTResponse is the inference response: one list of class scores per
// input sequence.
type FinBERTResponse [][]FinBERTClassScore
