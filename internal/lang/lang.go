// Package lang maps the application language selection to the format each
// external API expects. The set of languages is closed; adding one means
// extending the table below.
package lang

import (
	"errors"
	"fmt"
)

type Language string

const (
	Russian Language = "russian"
	English Language = "english"
	Spanish Language = "spanish"
	French  Language = "french"
	German  Language = "german"
	Italian Language = "italian"
	Chinese Language = "chinese"
)

// APITarget names a consumer whose expected language format is configured
// statically in apiFormats.
type APITarget string

const (
	TargetHoroscope   APITarget = "horoscope"
	TargetTaroDecks   APITarget = "taroDecks"
	TargetAffirmation APITarget = "dailyAffirmation"
	TargetWeather     APITarget = "weather"
)

type format int

const (
	formatFull format = iota
	formatShort
	formatISO6391
	formatISO6392
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownTarget   = errors.New("unknown api target")
)

type entry struct {
	full    string
	short   string
	iso6391 string
	iso6392 string
	native  string
}

var languages = map[Language]entry{
	Russian: {"russian", "ru", "ru", "rus", "Русский"},
	English: {"english", "en", "en", "eng", "English"},
	Spanish: {"spanish", "es", "es", "spa", "Español"},
	French:  {"french", "fr", "fr", "fra", "Français"},
	German:  {"german", "de", "de", "deu", "Deutsch"},
	Italian: {"italian", "it", "it", "ita", "Italiano"},
	Chinese: {"chinese", "zh", "zh", "zho", "中文"},
}

var apiFormats = map[APITarget]format{
	TargetHoroscope:   formatFull,
	TargetTaroDecks:   formatShort,
	TargetAffirmation: formatFull,
	TargetWeather:     formatISO6391,
}

// Resolve returns the language string in the format the given API target
// expects. An unknown target is a programmer error and must be rejected at
// the call site rather than defaulted.
func Resolve(l Language, target APITarget) (string, error) {
	e, ok := languages[l]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, l)
	}
	f, ok := apiFormats[target]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	switch f {
	case formatFull:
		return e.full, nil
	case formatShort:
		return e.short, nil
	case formatISO6391:
		return e.iso6391, nil
	case formatISO6392:
		return e.iso6392, nil
	}
	return e.short, nil
}

// Default is the language assumed when the user has not picked one.
func Default() Language { return Russian }

// Supported lists all application languages in a stable order.
func Supported() []Language {
	return []Language{Russian, English, Spanish, French, German, Italian, Chinese}
}

// DisplayName returns the native name of the language for UI lists.
func DisplayName(l Language) string {
	if e, ok := languages[l]; ok {
		return e.native
	}
	return string(l)
}

// Valid reports whether l belongs to the closed language set.
func Valid(l Language) bool {
	_, ok := languages[l]
	return ok
}
