package model

// MaxCards is the upper bound on flashcards returned for a single page
const MaxCards = 3

// ProcessRequest is the body accepted by POST /api/process
type ProcessRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

// FlashCard is a single question/answer pair
type FlashCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerationResult holds the summary and flashcards produced for a page
type GenerationResult struct {
	Summary string      `json:"summary"`
	Cards   []FlashCard `json:"ankiCards"`
}

// ErrorResponse is the body returned for any 4xx/5xx response
type ErrorResponse struct {
	Error string `json:"error"`
}
