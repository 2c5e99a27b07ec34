// Package horoscope fetches horoscope texts, falling back to built-in
// placeholders when the backend is unreachable.
package horoscope

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taromini/internal/models"
)

type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
)

type api interface {
	Horoscope(ctx context.Context, horoscopeType string) (*models.Horoscope, error)
}

type Service struct {
	api api
	log *zap.SugaredLogger
}

func NewService(a api, log *zap.SugaredLogger) *Service {
	return &Service{api: a, log: log}
}

var fallbackTexts = map[Type]string{
	Daily:   "Сегодня вас ждут приятные сюрпризы. Будьте открыты новым возможностям и не бойтесь перемен.",
	Weekly:  "На этой неделе вас ждёт период активного роста. Сосредоточьтесь на своих целях и не отвлекайтесь на мелочи.",
	Monthly: "Этот месяц принесёт значительные изменения. Будьте готовы к новым вызовам и возможностям.",
}

func fallback(t Type) *models.Horoscope {
	end := time.Now()
	switch t {
	case Weekly:
		end = end.AddDate(0, 0, 7)
	case Monthly:
		end = end.AddDate(0, 1, 0)
	}
	date := time.Now().Format("02.01.2006")
	if t != Daily {
		date += " - " + end.Format("02.01.2006")
	}
	return &models.Horoscope{Date: date, Horoscope: fallbackTexts[t]}
}

// Get returns the horoscope for the period, never failing the caller: an
// unreachable backend yields the built-in text.
func (s *Service) Get(ctx context.Context, t Type) *models.Horoscope {
	h, err := s.api.Horoscope(ctx, string(t))
	if err != nil {
		s.log.Warnw("horoscope fetch failed, using fallback", "type", t, "err", err)
		return fallback(t)
	}
	return h
}
