package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterpretationRoundTrip(t *testing.T) {
	parsed := ParseInterpretation(`{"message":"m","positions":[{"index":1,"interpretation":"i"}]}`)
	assert.Equal(t, "m", parsed.Message)
	require.Len(t, parsed.Positions, 1)
	assert.Equal(t, 1, parsed.Positions[0].Index)
	assert.Equal(t, "i", parsed.Positions[0].Interpretation)
}

func TestParseInterpretationPlainTextFallback(t *testing.T) {
	parsed := ParseInterpretation("hello")
	assert.Equal(t, "hello", parsed.Message)
	assert.Empty(t, parsed.Positions)
	assert.NotNil(t, parsed.Positions)
}

func TestParseInterpretationMissingMessageFallsBack(t *testing.T) {
	raw := `{"positions":[{"index":1,"interpretation":"i"}]}`
	parsed := ParseInterpretation(raw)
	assert.Equal(t, raw, parsed.Message)
	assert.Empty(t, parsed.Positions)
}

func TestParseInterpretationWithoutPositionsIsValid(t *testing.T) {
	parsed := ParseInterpretation(`{"message":"только общее"}`)
	assert.Equal(t, "только общее", parsed.Message)
	assert.Empty(t, parsed.Positions)
}

func TestPositionInterpretationForMatchesIndexNotOrdinal(t *testing.T) {
	parsed := ParsedInterpretation{
		Message: "m",
		Positions: []PositionInterpretation{
			{Index: 3, Interpretation: "третья"},
			{Index: 1, Interpretation: "первая"},
		},
	}

	got, ok := PositionInterpretationFor(parsed, 1)
	require.True(t, ok)
	assert.Equal(t, "первая", got)

	_, ok = PositionInterpretationFor(parsed, 2)
	assert.False(t, ok)
}

func TestParseAffirmation(t *testing.T) {
	parsed := ParseAffirmation(`{"title":"Утро","sections":[{"title":"Начало","text":"Я спокоен"},{"title":"День","text":"Я уверен"}],"usage":"повторять утром"}`)
	require.False(t, parsed.Error)
	assert.Equal(t, "Утро", parsed.Title)
	assert.Equal(t, "повторять утром", parsed.Usage)
	assert.Equal(t, "Начало: Я спокоен | День: Я уверен", parsed.SummaryLine())
}

func TestParseAffirmationModelRejectionKeepsMessage(t *testing.T) {
	parsed := ParseAffirmation(`{"error":true,"message":"Эта тема не подходит для аффирмаций."}`)
	assert.True(t, parsed.Error)
	assert.Equal(t, "Эта тема не подходит для аффирмаций.", parsed.Message)
}

func TestParseAffirmationUndecodable(t *testing.T) {
	parsed := ParseAffirmation("let me think about it")
	assert.True(t, parsed.Error)
	assert.Equal(t, "Не удалось разобрать ответ сервера", parsed.Message)
}

func TestParseAffirmationBadShape(t *testing.T) {
	parsed := ParseAffirmation(`{"something":"else"}`)
	assert.True(t, parsed.Error)
	assert.Equal(t, "Получены некорректные данные от сервера", parsed.Message)
}
