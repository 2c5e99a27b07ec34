package horoscope

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taromini/internal/models"
)

type fakeAPI struct {
	h   *models.Horoscope
	err error
}

func (f *fakeAPI) Horoscope(_ context.Context, _ string) (*models.Horoscope, error) {
	return f.h, f.err
}

func TestGetPassesThrough(t *testing.T) {
	want := &models.Horoscope{Date: "01.09.2026", Horoscope: "День перемен."}
	svc := NewService(&fakeAPI{h: want}, zap.NewNop().Sugar())

	got := svc.Get(context.Background(), Daily)
	assert.Equal(t, want, got)
}

func TestGetFallsBackOnError(t *testing.T) {
	svc := NewService(&fakeAPI{err: errors.New("connection refused")}, zap.NewNop().Sugar())

	for _, typ := range []Type{Daily, Weekly, Monthly} {
		got := svc.Get(context.Background(), typ)
		require.NotNil(t, got)
		assert.NotEmpty(t, got.Horoscope, "fallback text for %s", typ)
		assert.NotEmpty(t, got.Date)
	}
}
