package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zap.NewNop().Sugar())
}

func TestGenerateTextField(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req GenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "вопрос", req.Prompt)

		w.Write([]byte(`{"text":"толкование"}`))
	})

	env, err := c.Generate(context.Background(), &GenerationRequest{Prompt: "вопрос"})
	require.NoError(t, err)
	assert.Equal(t, "толкование", env.Text)
}

func TestGenerateTarotShapeStringified(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"общее","positions":[{"index":1,"interpretation":"i"}]}`))
	})

	env, err := c.Generate(context.Background(), &GenerationRequest{})
	require.NoError(t, err)

	parsed := ParseInterpretation(env.Text)
	assert.Equal(t, "общее", parsed.Message)
	require.Len(t, parsed.Positions, 1)
	assert.Equal(t, 1, parsed.Positions[0].Index)
}

func TestGenerateAffirmationShapeStringified(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Утро","sections":[{"title":"Начало","text":"Я спокоен"}],"usage":"повторять утром"}`))
	})

	env, err := c.Generate(context.Background(), &GenerationRequest{})
	require.NoError(t, err)

	parsed := ParseAffirmation(env.Text)
	assert.False(t, parsed.Error)
	assert.Equal(t, "Утро", parsed.Title)
}

func TestGenerateRejectionVerbatim(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":true,"message":"off-topic"}`))
	})

	_, err := c.Generate(context.Background(), &GenerationRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationRejected)
	assert.Equal(t, "off-topic", err.Error())
}

func TestGenerateMalformedBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.Generate(context.Background(), &GenerationRequest{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "<html>")
}

func TestGenerateBadStatusUsesBodyMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"нет промпта"}`))
	})

	_, err := c.Generate(context.Background(), &GenerationRequest{})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "нет промпта")
}

func TestGenerateRateLimited(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{}`))
	})

	_, err := c.Generate(context.Background(), &GenerationRequest{})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "слишком много запросов")
}

// classify must map every well-formed JSON body to exactly one outcome, and
// the stringify fallback must not fail for decodable input.
func TestClassifyTotality(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		want    string
	}{
		{"text wins", 200, `{"text":"t","message":"m","positions":[]}`, nil, "t"},
		{"tarot shape", 200, `{"message":"m","positions":[]}`, nil, `{"message":"m","positions":[]}`},
		{"message without positions falls through to stringify", 200, `{"message":"m"}`, nil, `{"message":"m"}`},
		{"affirmation shape", 200, `{"sections":[],"title":"t"}`, nil, `{"sections":[],"title":"t"}`},
		{"unknown object stringified", 200, `{"foo":1}`, nil, `{"foo":1}`},
		{"array body stringified", 200, `[1,2]`, nil, `[1,2]`},
		{"scalar body stringified", 200, `42`, nil, `42`},
		{"error flag rejects", 200, `{"error":true,"message":"нет"}`, ErrGenerationRejected, ""},
		{"error flag false is not a rejection", 200, `{"error":false,"text":"ok"}`, nil, "ok"},
		{"bad status", 500, `{}`, ErrRequestFailed, ""},
		{"not json", 200, `oops`, ErrMalformedResponse, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := classify(tt.status, []byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			// json.Marshal sorts map keys, so stringified bodies compare
			// byte for byte.
			assert.Equal(t, tt.want, env.Text)
		})
	}
}
