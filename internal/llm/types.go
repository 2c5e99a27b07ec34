package llm

import "context"

// Template is the normalized generation template for one reading or
// affirmation context. Discarded when the panel that loaded it goes away.
type Template struct {
	ID           string
	Key          string
	Template     string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	ResponseLang string
}

// GenerationRequest is the provider-ready request posted to /generate.
type GenerationRequest struct {
	SystemPrompt string  `json:"systemPrompt"`
	Prompt       string  `json:"prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
	ResponseLang string  `json:"responseLang"`
	Key          string  `json:"key,omitempty"`
}

// Envelope is the canonical result of one generation call: a single text
// field regardless of the shape the backend actually returned.
type Envelope struct {
	Text string
}

// Generator is the single outbound operation of the generation client.
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (Envelope, error)
}

// PositionInterpretation is one per-position entry of a parsed reading.
// Index refers to the spread position identifier, not the array ordinal.
type PositionInterpretation struct {
	Index          int    `json:"index"`
	Interpretation string `json:"interpretation"`
}

// ParsedInterpretation is the decoded tarot reading.
type ParsedInterpretation struct {
	Message   string                   `json:"message"`
	Positions []PositionInterpretation `json:"positions"`
	Error     bool                     `json:"error,omitempty"`
}

// AffirmationSection is one titled block of a parsed affirmation.
type AffirmationSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ParsedAffirmation is the decoded affirmation. Error marks both model-side
// refusals (Message carries the model text) and local parse failures
// (Message carries a generic explanation).
type ParsedAffirmation struct {
	Title    string               `json:"title"`
	Sections []AffirmationSection `json:"sections"`
	Usage    string               `json:"usage"`
	Error    bool                 `json:"error,omitempty"`
	Message  string               `json:"message,omitempty"`
}
