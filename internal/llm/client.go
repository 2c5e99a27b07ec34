package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const rawSnippetLimit = 200

// Client posts generation requests and normalizes the backend's several
// response shapes into one canonical text envelope. One attempt per call,
// no retries; cancellation is the caller's context.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.SugaredLogger
}

func NewClient(baseURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
		log:     log,
	}
}

// WithHTTPClient overrides the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// Generate classifies the response in a fixed order: malformed body, bad
// status, explicit error flag, text field, tarot shape, affirmation shape,
// then best-effort stringify of anything else.
func (c *Client) Generate(ctx context.Context, req *GenerationRequest) (Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return Envelope{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	return classify(resp.StatusCode, respBody)
}

func classify(status int, body []byte) (Envelope, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return Envelope{}, fmt.Errorf("%w: %s", ErrMalformedResponse, snippet(body))
	}

	obj, _ := data.(map[string]any)

	if status < 200 || status >= 300 {
		if msg := stringField(obj, "message"); msg != "" {
			return Envelope{}, fmt.Errorf("%w: %s", ErrRequestFailed, msg)
		}
		if status == http.StatusTooManyRequests {
			return Envelope{}, fmt.Errorf("%w: слишком много запросов, попробуйте позже", ErrRequestFailed)
		}
		return Envelope{}, fmt.Errorf("%w: статус %d", ErrRequestFailed, status)
	}

	if flag, ok := obj["error"].(bool); ok && flag {
		msg := stringField(obj, "message")
		if msg == "" {
			msg = "Ошибка в запросе генерации"
		}
		return Envelope{}, &RejectionError{Message: msg}
	}

	if text := stringField(obj, "text"); text != "" {
		return Envelope{Text: text}, nil
	}

	// Толкование Таро: message + positions.
	if stringField(obj, "message") != "" {
		if _, ok := obj["positions"]; ok {
			return stringify(data)
		}
	}

	// Аффирмация: title + sections.
	if stringField(obj, "title") != "" {
		if _, ok := obj["sections"].([]any); ok {
			return stringify(data)
		}
	}

	return stringify(data)
}

func stringify(data any) (Envelope, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, ErrUnexpectedFormat
	}
	return Envelope{Text: string(b)}, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func snippet(body []byte) string {
	if len(body) > rawSnippetLimit {
		return string(body[:rawSnippetLimit]) + "..."
	}
	return string(body)
}
