package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taromini/internal/lang"
	"taromini/internal/taroapi"
)

// ContextAffirmation is the template context of the daily affirmation flow.
// Every other context id is treated as a tarot spread.
const ContextAffirmation = "daily-affirmation"

const DefaultTarotSystemPrompt = `Ты — профессиональный таролог. Отвечай ТОЛЬКО на вопросы о таро, предсказаниях и эзотерике.
ФОРМАТ ОТВЕТА (JSON):
{
  "message":  "общее толкование расклада",
  "positions": [ { "index": 1, "interpretation": "толкование позиции" } ]
}

Если вопрос не относится к таро — верни { "error": true, "message": "Ваш вопрос не относится к таро или астрологии." }. Без markdown, ≤ 800 токенов.`

const DefaultAffirmationSystemPrompt = `Ты — наставник по позитивным аффирмациям. Составляй короткие, тёплые и действенные аффирмации по заданной теме.
ФОРМАТ ОТВЕТА (JSON):
{
  "title": "заголовок аффирмации",
  "sections": [ { "title": "название раздела", "text": "текст аффирмации" } ],
  "usage": "как применять эти аффирмации в течение дня"
}

Если тема не подходит для аффирмаций — верни { "error": true, "message": "Эта тема не подходит для аффирмаций." }. Без markdown, ≤ 1000 токенов.`

const (
	defaultTarotTemperature       = 0.7
	defaultTarotMaxTokens         = 800
	defaultAffirmationTemperature = 0.8
	defaultAffirmationMaxTokens   = 1000
)

// language pinning markers, checked before prepending so the prefix is
// applied at most once.
const (
	pinMarkerRussian = "ИСПОЛЬЗУЙ ТОЛЬКО РУССКИЙ ЯЗЫК"
	pinMarkerEnglish = "USE ONLY ENGLISH"
)

type templateAPI interface {
	PromptTemplate(ctx context.Context, templateID string) (*taroapi.RawTemplate, error)
}

// TemplateStore loads generation templates from the backend and falls back
// to hardcoded per-context defaults when the backend has none.
type TemplateStore struct {
	api     templateAPI
	appLang lang.Language
	log     *zap.SugaredLogger
}

func NewTemplateStore(api templateAPI, appLang lang.Language, log *zap.SugaredLogger) *TemplateStore {
	return &TemplateStore{api: api, appLang: appLang, log: log}
}

// DefaultTemplate synthesizes the hardcoded template for a context.
func (s *TemplateStore) DefaultTemplate(contextID string) *Template {
	responseLang, err := lang.Resolve(s.appLang, lang.TargetAffirmation)
	if err != nil {
		s.log.Warnw("unresolvable app language, falling back to default", "lang", s.appLang, "err", err)
		responseLang, _ = lang.Resolve(lang.Default(), lang.TargetAffirmation)
	}
	t := &Template{
		ID:           contextID,
		ResponseLang: responseLang,
	}
	if contextID == ContextAffirmation {
		t.Key = ContextAffirmation
		t.SystemPrompt = DefaultAffirmationSystemPrompt
		t.Temperature = defaultAffirmationTemperature
		t.MaxTokens = defaultAffirmationMaxTokens
	} else {
		t.Key = "taro"
		t.SystemPrompt = DefaultTarotSystemPrompt
		t.Temperature = defaultTarotTemperature
		t.MaxTokens = defaultTarotMaxTokens
	}
	t.SystemPrompt = PinLanguage(t.SystemPrompt, t.ResponseLang)
	return t
}

// Load fetches the template for contextID. A 404 silently installs the
// default; any other failure returns the default template together with the
// error, so the caller can show it without losing generation capability.
func (s *TemplateStore) Load(ctx context.Context, contextID string) (*Template, error) {
	raw, err := s.api.PromptTemplate(ctx, contextID)
	if err != nil {
		if errors.Is(err, taroapi.ErrNotFound) {
			s.log.Infow("template not found, using default", "context", contextID)
			return s.DefaultTemplate(contextID), nil
		}
		s.log.Warnw("template fetch failed, using default", "context", contextID, "err", err)
		return s.DefaultTemplate(contextID), fmt.Errorf("%w: %v", ErrTemplateFetch, err)
	}
	return s.normalize(contextID, raw), nil
}

func (s *TemplateStore) normalize(contextID string, raw *taroapi.RawTemplate) *Template {
	def := s.DefaultTemplate(contextID)

	t := &Template{
		ID:           raw.ID,
		Key:          raw.Key,
		Template:     raw.Template,
		SystemPrompt: raw.SystemPrompt,
		ResponseLang: raw.ResponseLang,
	}
	if t.ID == "" {
		t.ID = contextID
	}
	if t.Key == "" {
		t.Key = def.Key
	}

	// Бэкенд иногда отдаёт системный промпт под опечатанным именем поля.
	if t.SystemPrompt == "" && raw.SystemPromt != "" {
		t.SystemPrompt = raw.SystemPromt
	}
	if t.SystemPrompt == "" {
		t.SystemPrompt = def.SystemPrompt
	}

	if raw.Temperature != nil {
		t.Temperature = *raw.Temperature
	} else {
		t.Temperature = def.Temperature
	}
	if raw.MaxTokens != nil {
		t.MaxTokens = *raw.MaxTokens
	} else {
		t.MaxTokens = def.MaxTokens
	}
	if t.ResponseLang == "" {
		t.ResponseLang = def.ResponseLang
	}

	t.SystemPrompt = PinLanguage(t.SystemPrompt, t.ResponseLang)
	return t
}

// PinLanguage prefixes the system prompt with an explicit only-this-language
// instruction. Idempotent: an already pinned prompt is returned unchanged.
func PinLanguage(systemPrompt, responseLang string) string {
	switch responseLang {
	case "russian":
		if strings.Contains(systemPrompt, pinMarkerRussian) {
			return systemPrompt
		}
		return "ИСПОЛЬЗУЙ ТОЛЬКО РУССКИЙ ЯЗЫК ДЛЯ ВСЕХ ОТВЕТОВ. НЕ ИСПОЛЬЗУЙ АНГЛИЙСКИЙ НИ В КОЕМ СЛУЧАЕ.\n\n" + systemPrompt
	case "english":
		if strings.Contains(systemPrompt, pinMarkerEnglish) {
			return systemPrompt
		}
		return "USE ONLY ENGLISH FOR ALL RESPONSES. DO NOT USE ANY OTHER LANGUAGE.\n\n" + systemPrompt
	case "":
		return systemPrompt
	default:
		marker := "USE ONLY " + strings.ToUpper(responseLang)
		if strings.Contains(systemPrompt, marker) {
			return systemPrompt
		}
		return marker + " FOR ALL RESPONSES. DO NOT USE ANY OTHER LANGUAGE.\n\n" + systemPrompt
	}
}
