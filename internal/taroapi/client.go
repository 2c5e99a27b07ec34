// Package taroapi is the REST client for the tarot backend: deck and spread
// catalog, prompt templates and horoscopes. Error bodies carry an optional
// "message" field which is preferred over a generic status line.
package taroapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"taromini/internal/lang"
	"taromini/internal/models"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimited = errors.New("слишком много запросов, попробуйте позже")
)

type Client struct {
	baseURL string
	appLang lang.Language
	client  *http.Client
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, appLang lang.Language, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appLang: appLang,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// WithHTTPClient overrides the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("taro api call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode >= 300 {
		var eb struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			return errors.New(eb.Message)
		}
		return fmt.Errorf("taro api status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) langQuery(target lang.APITarget, includeAll bool) (url.Values, error) {
	apiLang, err := lang.Resolve(c.appLang, target)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lang", apiLang)
	q.Set("includeAll", fmt.Sprintf("%t", includeAll))
	return q, nil
}

func (c *Client) Decks(ctx context.Context) ([]models.Deck, error) {
	q, err := c.langQuery(lang.TargetTaroDecks, false)
	if err != nil {
		return nil, err
	}
	var decks []models.Deck
	if err := c.get(ctx, "/decks", q, &decks); err != nil {
		c.log.Warnw("decks fetch failed", "err", err)
		return nil, err
	}
	return decks, nil
}

func (c *Client) DeckDetails(ctx context.Context, deckID string) (*models.Deck, error) {
	q, err := c.langQuery(lang.TargetTaroDecks, true)
	if err != nil {
		return nil, err
	}
	var deck models.Deck
	if err := c.get(ctx, "/decks/"+url.PathEscape(deckID), q, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *Client) CardDetails(ctx context.Context, deckID, cardID string) (*models.CardDetails, error) {
	q, err := c.langQuery(lang.TargetTaroDecks, false)
	if err != nil {
		return nil, err
	}
	q.Del("includeAll")
	var cd models.CardDetails
	path := "/decks/" + url.PathEscape(deckID) + "/cards/" + url.PathEscape(cardID)
	if err := c.get(ctx, path, q, &cd); err != nil {
		return nil, err
	}
	return &cd, nil
}

func (c *Client) Spreads(ctx context.Context) ([]models.Spread, error) {
	q, err := c.langQuery(lang.TargetTaroDecks, false)
	if err != nil {
		return nil, err
	}
	var spreads []models.Spread
	if err := c.get(ctx, "/spreads", q, &spreads); err != nil {
		c.log.Warnw("spreads fetch failed", "err", err)
		return nil, err
	}
	return spreads, nil
}

func (c *Client) SpreadDetails(ctx context.Context, spreadID string) (*models.SpreadDetails, error) {
	q, err := c.langQuery(lang.TargetTaroDecks, true)
	if err != nil {
		return nil, err
	}
	var sd models.SpreadDetails
	if err := c.get(ctx, "/spreads/"+url.PathEscape(spreadID), q, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

func (c *Client) Horoscope(ctx context.Context, horoscopeType string) (*models.Horoscope, error) {
	apiLang, err := lang.Resolve(c.appLang, lang.TargetHoroscope)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lang", apiLang)
	var h models.Horoscope
	if err := c.get(ctx, "/horoscope/"+url.PathEscape(horoscopeType), q, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// RawTemplate is the prompt-template payload before normalization. The
// backend has been seen returning the system prompt under a misspelled
// field, so both names are decoded.
type RawTemplate struct {
	ID           string   `json:"id"`
	Key          string   `json:"key"`
	Template     string   `json:"template"`
	SystemPrompt string   `json:"systemPrompt"`
	SystemPromt  string   `json:"systemPromt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"maxTokens"`
	ResponseLang string   `json:"responseLang"`
}

func (c *Client) PromptTemplate(ctx context.Context, templateID string) (*RawTemplate, error) {
	apiLang, err := lang.Resolve(c.appLang, lang.TargetTaroDecks)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lang", apiLang)
	var rt RawTemplate
	if err := c.get(ctx, "/prompt-template/"+url.PathEscape(templateID), q, &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}
