// Package calendar keeps the personal per-day log of completed readings,
// affirmations and notes, persisted as one JSON blob in platform storage.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taromini/internal/models"
	"taromini/internal/storage"
)

// StorageKey holds the whole day-map, keyed by YYYY-MM-DD.
const StorageKey = "calendar_data"

const summaryLimit = 100

// Service owns the in-memory day map and mirrors every mutation to storage
// with a whole-map overwrite. Single-writer: no multi-tab reconciliation.
// A failed persist keeps the in-memory state, so memory and storage can
// diverge until the next successful write.
type Service struct {
	store storage.KV
	log   *zap.SugaredLogger
	days  map[string]models.CalendarDay
}

func NewService(store storage.KV, log *zap.SugaredLogger) *Service {
	return &Service{
		store: store,
		log:   log,
		days:  make(map[string]models.CalendarDay),
	}
}

// Load is a whole-map fetch-then-replace, done once on flow startup.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("не удалось загрузить данные календаря: %w", err)
	}
	days := make(map[string]models.CalendarDay)
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &days); err != nil {
			return fmt.Errorf("не удалось загрузить данные календаря: %w", err)
		}
	}
	s.days = days
	return nil
}

// Days returns a snapshot of the day map, detached from later mutations.
func (s *Service) Days() map[string]models.CalendarDay {
	out := make(map[string]models.CalendarDay, len(s.days))
	for k, v := range s.days {
		if len(v.Activities) > 0 {
			v.Activities = append([]models.CalendarActivity(nil), v.Activities...)
		}
		out[k] = v
	}
	return out
}

// Day returns one date's record.
func (s *Service) Day(date string) (models.CalendarDay, bool) {
	d, ok := s.days[date]
	return d, ok
}

func (s *Service) persist(ctx context.Context) error {
	b, err := json.Marshal(s.days)
	if err != nil {
		return fmt.Errorf("не удалось сохранить данные календаря: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey, string(b)); err != nil {
		s.log.Errorw("calendar persist failed", "err", err)
		return fmt.Errorf("не удалось сохранить данные календаря: %w", err)
	}
	return nil
}

func (s *Service) AddActivity(ctx context.Context, date string, activity models.CalendarActivity) error {
	day, ok := s.days[date]
	if !ok {
		day = models.CalendarDay{Date: date}
	}
	day.Activities = append(day.Activities, activity)
	s.days[date] = day
	return s.persist(ctx)
}

func (s *Service) UpsertNote(ctx context.Context, date string, note models.CalendarNote) error {
	day, ok := s.days[date]
	if !ok {
		day = models.CalendarDay{Date: date}
	}
	day.Note = &note
	s.days[date] = day
	return s.persist(ctx)
}

// RemoveNote drops a date's note; the day record itself goes away when no
// activities remain either.
func (s *Service) RemoveNote(ctx context.Context, date string) error {
	day, ok := s.days[date]
	if !ok {
		return nil
	}
	day.Note = nil
	if len(day.Activities) == 0 {
		delete(s.days, date)
	} else {
		s.days[date] = day
	}
	return s.persist(ctx)
}

// RemoveActivity drops one activity by id. Removing the last activity of a
// noteless day removes the whole day record.
func (s *Service) RemoveActivity(ctx context.Context, date, activityID string) error {
	day, ok := s.days[date]
	if !ok {
		return nil
	}
	kept := make([]models.CalendarActivity, 0, len(day.Activities))
	for _, a := range day.Activities {
		if a.ID != activityID {
			kept = append(kept, a)
		}
	}
	day.Activities = kept
	if len(day.Activities) == 0 && day.Note == nil {
		delete(s.days, date)
	} else {
		s.days[date] = day
	}
	return s.persist(ctx)
}

// Today formats the current date the way day records are keyed.
func Today() string {
	return time.Now().Format("2006-01-02")
}

func newID(activityType models.ActivityType) string {
	return fmt.Sprintf("%s_%s", activityType, uuid.NewString())
}

// NewNote builds a note with a fresh id and timestamp.
func NewNote(content string) models.CalendarNote {
	return models.CalendarNote{
		ID:        "note_" + uuid.NewString(),
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewTarotActivity summarizes a finished reading: deck name plus the first
// three cards.
func NewTarotActivity(spreadName, deckName string, cards []string, fullReading string) models.CalendarActivity {
	shown := cards
	suffix := ""
	if len(shown) > 3 {
		shown = shown[:3]
		suffix = "..."
	}
	return models.CalendarActivity{
		ID:          newID(models.ActivityTarotReading),
		Type:        models.ActivityTarotReading,
		Title:       fmt.Sprintf("Расклад %q", spreadName),
		Summary:     fmt.Sprintf("Колода: %s. Карты: %s%s", deckName, strings.Join(shown, ", "), suffix),
		FullContent: fullReading,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// NewAffirmationActivity summarizes a generated affirmation, truncating the
// flattened text for the day view.
func NewAffirmationActivity(affirmationText, fullContent string) models.CalendarActivity {
	summary := affirmationText
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit]) + "..."
	}
	if fullContent == "" {
		fullContent = affirmationText
	}
	return models.CalendarActivity{
		ID:          newID(models.ActivityAffirmation),
		Type:        models.ActivityAffirmation,
		Title:       "Ежедневная аффирмация",
		Summary:     summary,
		FullContent: fullContent,
		Timestamp:   time.Now().UnixMilli(),
	}
}
