package llm

import "errors"

var (
	// ErrTemplateFetch is non-fatal: a default template is installed
	// alongside it so generation stays usable.
	ErrTemplateFetch = errors.New("не удалось получить шаблон промпта")

	// ErrRequestBuild blocks dispatch; the user must supply the missing
	// question or topic first.
	ErrRequestBuild = errors.New("не удалось подготовить данные для запроса")

	ErrMalformedResponse  = errors.New("некорректный ответ от API")
	ErrRequestFailed      = errors.New("ошибка при генерации текста")
	ErrGenerationRejected = errors.New("запрос отклонён моделью")
	ErrUnexpectedFormat   = errors.New("неожиданный формат ответа от сервера")
)

// RejectionError carries the model's own refusal message verbatim. It
// matches ErrGenerationRejected under errors.Is while keeping Error()
// exactly the model text, so the UI can show it unwrapped.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func (e *RejectionError) Is(target error) bool { return target == ErrGenerationRejected }
