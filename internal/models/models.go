package models

// CardMeaning holds the two readings of a tarot card.
type CardMeaning struct {
	Upright  string `json:"upright"`
	Reversed string `json:"reversed"`
}

// Card is a single card of a deck.
type Card struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	ImageURL string      `json:"imageUrl"`
	Meaning  CardMeaning `json:"meaning"`
}

// Deck as returned by the catalog API. Cards is populated only when the
// deck is fetched with includeAll=true.
type Deck struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CoverImageURL string `json:"coverImageUrl"`
	CardsCount    int    `json:"cardsCount"`
	Available     bool   `json:"available"`
	Cards         []Card `json:"cards,omitempty"`
}

// CardDetails is the single-card endpoint payload: the card plus a slim
// view of its deck.
type CardDetails struct {
	Deck struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"deck"`
	Card Card `json:"card"`
}

// PositionMeta labels one position of a spread grid.
type PositionMeta struct {
	Label string `json:"label"`
}

// Spread is the list-endpoint shape.
type Spread struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Paid        bool   `json:"paid"`
}

// SpreadDetails is a spread fetched with includeAll=true. Grid enumerates
// position identifiers arranged into visual rows; Meta labels each position
// keyed by its decimal string. Immutable once fetched.
type SpreadDetails struct {
	Spread
	Questions  []string                `json:"questions"`
	CardsCount int                     `json:"cardsCount"`
	Grid       [][]int                 `json:"grid"`
	Meta       map[string]PositionMeta `json:"meta"`
}

// SelectedCard is one placed card of a reading session. At most one per
// position.
type SelectedCard struct {
	Position   int    `json:"position"`
	CardID     string `json:"cardId"`
	IsReversed bool   `json:"isReversed"`
}

// Orientation returns the literal used in prompts and logs.
func (c SelectedCard) Orientation() string {
	if c.IsReversed {
		return "reversed"
	}
	return "upright"
}

// ActivityType classifies a calendar entry.
type ActivityType string

const (
	ActivityTarotReading ActivityType = "tarot_reading"
	ActivityAffirmation  ActivityType = "affirmation"
	ActivityOther        ActivityType = "other"
)

// CalendarActivity is one completed reading/affirmation recorded on a day.
type CalendarActivity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	FullContent string       `json:"fullContent,omitempty"`
	Timestamp   int64        `json:"timestamp"`
}

// CalendarNote is the single optional free-form note of a day.
type CalendarNote struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// CalendarDay aggregates a date's activities and note. A day with no
// activities and no note must not exist in the store.
type CalendarDay struct {
	Date       string             `json:"date"` // YYYY-MM-DD
	Activities []CalendarActivity `json:"activities"`
	Note       *CalendarNote      `json:"note,omitempty"`
}

// Horoscope is one horoscope text for a period.
type Horoscope struct {
	Date      string `json:"date"`
	Horoscope string `json:"horoscope"`
}
