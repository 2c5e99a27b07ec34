package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taromini/internal/models"
)

func testSpread() *models.SpreadDetails {
	return &models.SpreadDetails{
		Spread: models.Spread{ID: "three-cards", Name: "Три карты"},
		Grid:   [][]int{{1, 2, 3}},
		Meta: map[string]models.PositionMeta{
			"1": {Label: "Прошлое"},
			"2": {Label: "Настоящее"},
			"3": {Label: "Будущее"},
		},
	}
}

func testCards() []models.SelectedCard {
	return []models.SelectedCard{
		{Position: 1, CardID: "the-fool"},
		{Position: 2, CardID: "the-tower", IsReversed: true},
		{Position: 3, CardID: "the-sun"},
	}
}

func testTemplate() *Template {
	return &Template{
		ID:           "three-cards",
		Key:          "taro",
		SystemPrompt: DefaultTarotSystemPrompt,
		Temperature:  0.7,
		MaxTokens:    800,
		ResponseLang: "russian",
	}
}

func TestCardsTextFormat(t *testing.T) {
	got := CardsText(testSpread(), testCards())
	want := "1. Прошлое — the-fool (upright)\n" +
		"2. Настоящее — the-tower (reversed)\n" +
		"3. Будущее — the-sun (upright)"
	assert.Equal(t, want, got)
}

func TestCardsTextMissingMetaFallsBack(t *testing.T) {
	spread := testSpread()
	delete(spread.Meta, "2")
	got := CardsText(spread, testCards())
	assert.Contains(t, got, "2. Позиция 2 — the-tower (reversed)")
}

func TestBuildTarotRequestStandardLayout(t *testing.T) {
	req, err := BuildTarotRequest(testTemplate(), testSpread(), testCards(), "Что меня ждёт?")
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "Вопрос пользователя: Что меня ждёт?")
	assert.Contains(t, req.Prompt, "Расклад: Три карты")
	assert.Contains(t, req.Prompt, "1. Прошлое — the-fool (upright)")
	assert.Contains(t, req.Prompt, "JSON-формату")
	assert.Contains(t, req.SystemPrompt, "ИСПОЛЬЗУЙ ТОЛЬКО РУССКИЙ ЯЗЫК")
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 800, req.MaxTokens)
	assert.Equal(t, "russian", req.ResponseLang)
	assert.Equal(t, "taro", req.Key)
}

func TestBuildTarotRequestPlaceholders(t *testing.T) {
	tpl := testTemplate()
	tpl.Template = "Вопрос: {{question}}\nСхема: {{spreadName}}\nКарты:\n{{cards}}"

	req, err := BuildTarotRequest(tpl, testSpread(), testCards(), "Стоит ли менять работу?")
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "Вопрос: Стоит ли менять работу?")
	assert.Contains(t, req.Prompt, "Схема: Три карты")
	assert.Contains(t, req.Prompt, "3. Будущее — the-sun (upright)")
	assert.NotContains(t, req.Prompt, "{{")
	assert.Contains(t, req.Prompt, "responseLang")
}

func TestBuildTarotRequestValidation(t *testing.T) {
	_, err := BuildTarotRequest(nil, testSpread(), testCards(), "вопрос")
	assert.ErrorIs(t, err, ErrRequestBuild)

	_, err = BuildTarotRequest(testTemplate(), nil, testCards(), "вопрос")
	assert.ErrorIs(t, err, ErrRequestBuild)

	_, err = BuildTarotRequest(testTemplate(), testSpread(), testCards(), "   ")
	assert.ErrorIs(t, err, ErrRequestBuild)
}

func TestAssembleTarotPromptBlankQuestionPhrase(t *testing.T) {
	got := assembleTarotPrompt("", "", "Три карты", "1. Прошлое — the-fool (upright)")
	assert.Contains(t, got, GeneralReadingPhrase)
	assert.NotContains(t, got, "Вопрос пользователя")
}

func TestBuildAffirmationRequest(t *testing.T) {
	tpl := &Template{
		Key:          ContextAffirmation,
		SystemPrompt: DefaultAffirmationSystemPrompt,
		Temperature:  0.8,
		MaxTokens:    1000,
		ResponseLang: "russian",
	}

	req, err := BuildAffirmationRequest(tpl, "Уверенность в себе")
	require.NoError(t, err)
	assert.Equal(t, "Тема для аффирмации: Уверенность в себе", req.Prompt)
	assert.Equal(t, ContextAffirmation, req.Key)
	assert.Equal(t, 0.8, req.Temperature)
	assert.Equal(t, 1000, req.MaxTokens)
}

func TestBuildAffirmationRequestPrefixIdempotent(t *testing.T) {
	tpl := &Template{Key: ContextAffirmation, SystemPrompt: "p"}
	req, err := BuildAffirmationRequest(tpl, "Тема для аффирмации: успех")
	require.NoError(t, err)
	assert.Equal(t, "Тема для аффирмации: успех", req.Prompt)
}

func TestBuildAffirmationRequestBlankTopic(t *testing.T) {
	_, err := BuildAffirmationRequest(&Template{}, "  ")
	assert.ErrorIs(t, err, ErrRequestBuild)

	_, err = BuildAffirmationRequest(nil, "успех")
	assert.ErrorIs(t, err, ErrRequestBuild)
}
