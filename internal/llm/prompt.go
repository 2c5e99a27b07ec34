package llm

import (
	"fmt"
	"strconv"
	"strings"

	"taromini/internal/models"
)

// GeneralReadingPhrase replaces the question line when no question is set.
const GeneralReadingPhrase = "Общее толкование расклада"

const affirmationTopicPrefix = "Тема для аффирмации:"

// CardsText renders the selected cards one per line as
// "{position}. {label} — {cardId} (orientation)". Labels come from the
// spread meta; a position without meta falls back to a numbered label.
func CardsText(spread *models.SpreadDetails, cards []models.SelectedCard) string {
	lines := make([]string, 0, len(cards))
	for _, card := range cards {
		label := fmt.Sprintf("Позиция %d", card.Position)
		if meta, ok := spread.Meta[strconv.Itoa(card.Position)]; ok && meta.Label != "" {
			label = meta.Label
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %s (%s)", card.Position, label, card.CardID, card.Orientation()))
	}
	return strings.Join(lines, "\n")
}

// assembleTarotPrompt builds the final prompt text. Templates carrying
// {{question}}/{{cards}} placeholders get substitution; anything else gets
// the standard layout.
func assembleTarotPrompt(templateText, question, spreadName, cardsText string) string {
	questionText := GeneralReadingPhrase
	if strings.TrimSpace(question) != "" {
		questionText = question
	}

	if templateText != "" && (strings.Contains(templateText, "{{question}}") || strings.Contains(templateText, "{{cards}}")) {
		p := templateText
		p = strings.Replace(p, "{{question}}", questionText, 1)
		p = strings.Replace(p, "{{spreadName}}", spreadName, 1)
		p = strings.Replace(p, "{{cards}}", cardsText, 1)
		return p + "\nОтвет ОБЯЗАТЕЛЬНО должен быть ТОЛЬКО на языке, указанном в поле responseLang."
	}

	questionLine := questionText
	if strings.TrimSpace(question) != "" {
		questionLine = "Вопрос пользователя: " + question
	}
	return fmt.Sprintf(`%s
Расклад: %s
Карты и позиции:
%s

Сформируй ответ строго по описанному JSON-формату.
Ответ ОБЯЗАТЕЛЬНО должен быть ТОЛЬКО на РУССКОМ ЯЗЫКЕ. Не переходи на английский ни в коем случае.`,
		questionLine, spreadName, cardsText)
}

// BuildTarotRequest assembles the provider request for a reading. It fails
// with ErrRequestBuild when the template is missing or the question is
// blank; the caller must not dispatch generation in that case.
func BuildTarotRequest(tpl *Template, spread *models.SpreadDetails, cards []models.SelectedCard, question string) (*GenerationRequest, error) {
	if tpl == nil {
		return nil, fmt.Errorf("%w: шаблон не загружен", ErrRequestBuild)
	}
	if spread == nil {
		return nil, fmt.Errorf("%w: расклад не загружен", ErrRequestBuild)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: не указан вопрос", ErrRequestBuild)
	}

	cardsText := CardsText(spread, cards)
	prompt := assembleTarotPrompt(tpl.Template, strings.TrimSpace(question), spread.Name, cardsText)

	return &GenerationRequest{
		SystemPrompt: PinLanguage(tpl.SystemPrompt, tpl.ResponseLang),
		Prompt:       prompt,
		Temperature:  tpl.Temperature,
		MaxTokens:    tpl.MaxTokens,
		ResponseLang: tpl.ResponseLang,
		Key:          tpl.Key,
	}, nil
}

// BuildAffirmationRequest assembles the provider request for an affirmation
// topic. Blank topics fail with ErrRequestBuild.
func BuildAffirmationRequest(tpl *Template, topic string) (*GenerationRequest, error) {
	if tpl == nil {
		return nil, fmt.Errorf("%w: шаблон не загружен", ErrRequestBuild)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: не указана тема", ErrRequestBuild)
	}

	prompt := topic
	if !strings.Contains(strings.ToLower(prompt), strings.ToLower(affirmationTopicPrefix)) {
		prompt = affirmationTopicPrefix + " " + prompt
	}

	key := tpl.Key
	if key == "" {
		key = ContextAffirmation
	}

	return &GenerationRequest{
		SystemPrompt: PinLanguage(tpl.SystemPrompt, tpl.ResponseLang),
		Prompt:       prompt,
		Temperature:  tpl.Temperature,
		MaxTokens:    tpl.MaxTokens,
		ResponseLang: tpl.ResponseLang,
		Key:          key,
	}, nil
}
