package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"taromini/internal/calendar"
	"taromini/internal/config"
	"taromini/internal/horoscope"
	"taromini/internal/lang"
	"taromini/internal/llm"
	"taromini/internal/logging"
	"taromini/internal/models"
	"taromini/internal/reading"
	"taromini/internal/storage"
	"taromini/internal/taroapi"
	"taromini/internal/vk"
)

// affirmationTopics are the preset topics offered before a custom one.
var affirmationTopics = []string{
	"Любовь к себе",
	"Успех",
	"Уверенность в себе",
	"Изобилие",
	"Творчество",
	"Здоровье",
	"Спокойствие",
	"Благодарность",
	"Мотивация",
	"Личностный рост",
}

type app struct {
	cfg       *config.Config
	log       *zap.SugaredLogger
	api       *taroapi.Client
	templates *llm.TemplateStore
	generator llm.Generator
	calendar  *calendar.Service
	horoscope *horoscope.Service
	in        *bufio.Scanner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	var kv storage.KV
	if cfg.StorageBackend == "vk" {
		vkAPI := vk.NewVK(cfg.VKToken)
		if user, err := vk.CurrentUser(vkAPI); err != nil {
			logger.Warnw("vk identity lookup failed", "err", err)
		} else {
			logger.Infow("vk user resolved", "id", user.ID, "name", user.FirstName)
		}
		kv = storage.NewVKStorage(vkAPI)
	} else {
		local, err := storage.NewLocal(cfg.DBPath)
		if err != nil {
			logger.Fatalw("failed to open local storage", "err", err)
		}
		defer local.Close()
		kv = local
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	api := taroapi.NewClient(cfg.TaroAPIURL, cfg.AppLang, logger).WithHTTPClient(httpClient)

	a := &app{
		cfg:       cfg,
		log:       logger,
		api:       api,
		templates: llm.NewTemplateStore(api, cfg.AppLang, logger),
		generator: llm.NewClient(cfg.TaroAPIURL, logger).WithHTTPClient(httpClient),
		calendar:  calendar.NewService(kv, logger),
		horoscope: horoscope.NewService(api, logger),
		in:        bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()
	if err := a.calendar.Load(ctx); err != nil {
		logger.Warnw("calendar load failed", "err", err)
		fmt.Println("Не удалось загрузить данные календаря.")
	}

	a.run(ctx)
}

func (a *app) run(ctx context.Context) {
	fmt.Printf("taromini — язык: %s\n", lang.DisplayName(a.cfg.AppLang))
	fmt.Println("Команды: reading, affirmation, horoscope, calendar, quit")

	for {
		cmd := a.prompt("> ")
		switch strings.ToLower(strings.TrimSpace(cmd)) {
		case "reading":
			a.runReading(ctx)
		case "affirmation":
			a.runAffirmation(ctx)
		case "horoscope":
			a.runHoroscope(ctx)
		case "calendar":
			a.showCalendar()
		case "quit", "exit", "":
			return
		default:
			fmt.Println("Неизвестная команда.")
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) pickSpread(ctx context.Context) *models.SpreadDetails {
	spreads, err := a.api.Spreads(ctx)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return nil
	}
	fmt.Println("Расклады:")
	for i, s := range spreads {
		mark := ""
		if !s.Available {
			mark = " (недоступен)"
		}
		fmt.Printf("  %d. %s%s\n", i+1, s.Name, mark)
	}
	idx, err := strconv.Atoi(a.prompt("Номер расклада: "))
	if err != nil || idx < 1 || idx > len(spreads) {
		fmt.Println("Неверный номер.")
		return nil
	}
	sd, err := a.api.SpreadDetails(ctx, spreads[idx-1].ID)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return nil
	}
	return sd
}

func (a *app) pickDeck(ctx context.Context) *models.Deck {
	decks, err := a.api.Decks(ctx)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return nil
	}
	fmt.Println("Колоды:")
	for i, d := range decks {
		fmt.Printf("  %d. %s (%d карт)\n", i+1, d.Name, d.CardsCount)
	}
	idx, err := strconv.Atoi(a.prompt("Номер колоды: "))
	if err != nil || idx < 1 || idx > len(decks) {
		fmt.Println("Неверный номер.")
		return nil
	}
	deck, err := a.api.DeckDetails(ctx, decks[idx-1].ID)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return nil
	}
	return deck
}

func (a *app) runReading(ctx context.Context) {
	spread := a.pickSpread(ctx)
	if spread == nil {
		return
	}
	deck := a.pickDeck(ctx)
	if deck == nil {
		return
	}

	flow := reading.NewFlow(spread, deck)
	a.selectCards(flow)
	if flow.State() != reading.StateViewReading {
		return
	}

	question := a.pickQuestion(spread)
	flow.SetQuestion(question)

	tpl, err := a.templates.Load(ctx, spread.ID)
	if err != nil {
		// Non-fatal: the default template was installed alongside.
		fmt.Println("Предупреждение:", err)
	}

	req, err := llm.BuildTarotRequest(tpl, spread, flow.Selected(), flow.Question())
	if err != nil {
		fmt.Println("Ошибка:", err)
		return
	}

	seq := flow.BeginGeneration()
	env, err := a.generator.Generate(ctx, req)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return
	}
	if !flow.FinishGeneration(seq, env.Text) {
		return
	}

	parsed := llm.ParseInterpretation(flow.Result())
	fmt.Println("\n" + parsed.Message)
	for _, card := range flow.Selected() {
		if text, ok := llm.PositionInterpretationFor(parsed, card.Position); ok {
			fmt.Printf("  %d. %s\n", card.Position, text)
		}
	}

	cardIDs := make([]string, 0, len(flow.Selected()))
	for _, c := range flow.Selected() {
		cardIDs = append(cardIDs, c.CardID)
	}
	activity := calendar.NewTarotActivity(spread.Name, deck.Name, cardIDs, flow.Result())
	if err := a.calendar.AddActivity(ctx, calendar.Today(), activity); err != nil {
		fmt.Println("Ошибка:", err)
	}
}

func (a *app) selectCards(flow *reading.Flow) {
	fmt.Println("Выбор карт. Команды: set <позиция> <карта>, flip <позиция>, del <позиция>, done, back")
	for {
		for _, p := range flow.Positions() {
			label := fmt.Sprintf("Позиция %d", p)
			if meta, ok := flow.Spread().Meta[strconv.Itoa(p)]; ok && meta.Label != "" {
				label = meta.Label
			}
			slot := "—"
			for _, c := range flow.Selected() {
				if c.Position == p {
					slot = fmt.Sprintf("%s (%s)", c.CardID, c.Orientation())
				}
			}
			fmt.Printf("  %d. %s: %s\n", p, label, slot)
		}

		parts := strings.Fields(a.prompt("карты> "))
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "set":
			if len(parts) < 3 {
				fmt.Println("Формат: set <позиция> <карта>")
				continue
			}
			pos, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Неверная позиция.")
				continue
			}
			if err := flow.Assign(pos, parts[2]); err != nil {
				fmt.Println("Ошибка:", err)
			}
		case "flip":
			if len(parts) < 2 {
				continue
			}
			if pos, err := strconv.Atoi(parts[1]); err == nil {
				flow.ToggleReversed(pos)
			}
		case "del":
			if len(parts) < 2 {
				continue
			}
			if pos, err := strconv.Atoi(parts[1]); err == nil {
				flow.Remove(pos)
			}
		case "done":
			if err := flow.Submit(); err != nil {
				fmt.Println("Ошибка:", err)
				continue
			}
			return
		case "back":
			return
		}
	}
}

func (a *app) pickQuestion(spread *models.SpreadDetails) string {
	if len(spread.Questions) > 0 {
		fmt.Println("Вопросы расклада:")
		for i, q := range spread.Questions {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
		choice := a.prompt("Номер вопроса или свой текст: ")
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(spread.Questions) {
			return spread.Questions[idx-1]
		}
		return choice
	}
	return a.prompt("Ваш вопрос: ")
}

func (a *app) runAffirmation(ctx context.Context) {
	fmt.Println("Темы аффирмаций:")
	for i, topic := range affirmationTopics {
		fmt.Printf("  %d. %s\n", i+1, topic)
	}
	choice := a.prompt("Номер темы или своя тема: ")
	topic := choice
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(affirmationTopics) {
		topic = affirmationTopics[idx-1]
	}

	tpl, err := a.templates.Load(ctx, llm.ContextAffirmation)
	if err != nil {
		fmt.Println("Предупреждение:", err)
	}

	req, err := llm.BuildAffirmationRequest(tpl, topic)
	if err != nil {
		fmt.Println("Ошибка:", err)
		return
	}

	env, err := a.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrGenerationRejected) {
			fmt.Println(err.Error())
			return
		}
		fmt.Println("Ошибка:", err)
		return
	}

	parsed := llm.ParseAffirmation(env.Text)
	if parsed.Error {
		fmt.Println(parsed.Message)
		return
	}

	fmt.Println("\n" + parsed.Title)
	for _, s := range parsed.Sections {
		fmt.Printf("  %s: %s\n", s.Title, s.Text)
	}
	if parsed.Usage != "" {
		fmt.Println("Применение:", parsed.Usage)
	}

	activity := calendar.NewAffirmationActivity(parsed.SummaryLine(), env.Text)
	if err := a.calendar.AddActivity(ctx, calendar.Today(), activity); err != nil {
		fmt.Println("Ошибка:", err)
	}
}

func (a *app) runHoroscope(ctx context.Context) {
	t := horoscope.Type(a.prompt("Период (daily/weekly/monthly): "))
	switch t {
	case horoscope.Daily, horoscope.Weekly, horoscope.Monthly:
	default:
		t = horoscope.Daily
	}
	h := a.horoscope.Get(ctx, t)
	fmt.Printf("%s\n%s\n", h.Date, h.Horoscope)
}

func (a *app) showCalendar() {
	days := a.calendar.Days()
	if len(days) == 0 {
		fmt.Println("Календарь пуст.")
		return
	}
	for date, day := range days {
		fmt.Println(date + ":")
		for _, act := range day.Activities {
			fmt.Printf("  [%s] %s — %s\n", act.Type, act.Title, act.Summary)
		}
		if day.Note != nil {
			fmt.Println("  Заметка:", day.Note.Content)
		}
	}
}
