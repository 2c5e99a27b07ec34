package llm

import (
	"encoding/json"
	"strings"
)

// ParseInterpretation decodes the canonical generation text into a tarot
// reading. Malformed model output never fails the caller: the raw text
// becomes the message with no per-position breakdown.
func ParseInterpretation(text string) ParsedInterpretation {
	var parsed ParsedInterpretation
	if err := json.Unmarshal([]byte(text), &parsed); err != nil || parsed.Message == "" {
		return ParsedInterpretation{Message: text, Positions: []PositionInterpretation{}}
	}
	if parsed.Positions == nil {
		parsed.Positions = []PositionInterpretation{}
	}
	return parsed
}

// PositionInterpretationFor finds the interpretation entry whose index
// equals the spread position. Absence is valid: the card simply has no
// per-position text.
func PositionInterpretationFor(parsed ParsedInterpretation, position int) (string, bool) {
	for _, p := range parsed.Positions {
		if p.Index == position {
			return p.Interpretation, true
		}
	}
	return "", false
}

// ParseAffirmation decodes the canonical generation text into an
// affirmation. A model-side refusal keeps the model's own message; a local
// decode or shape failure produces a generic parse-error object.
func ParseAffirmation(text string) ParsedAffirmation {
	var parsed ParsedAffirmation
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return ParsedAffirmation{
			Title:   "Ошибка разбора",
			Error:   true,
			Message: "Не удалось разобрать ответ сервера",
		}
	}

	if parsed.Error {
		return ParsedAffirmation{
			Title:   "Ошибка",
			Error:   true,
			Message: parsed.Message,
		}
	}

	if parsed.Title == "" || parsed.Sections == nil {
		return ParsedAffirmation{
			Title:   "Ошибка структуры",
			Error:   true,
			Message: "Получены некорректные данные от сервера",
		}
	}
	return parsed
}

// SummaryLine flattens the affirmation sections into the one-line form the
// calendar log stores: "{title}: {text}" joined by " | ".
func (a ParsedAffirmation) SummaryLine() string {
	parts := make([]string, 0, len(a.Sections))
	for _, s := range a.Sections {
		parts = append(parts, s.Title+": "+s.Text)
	}
	return strings.Join(parts, " | ")
}
