package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	local, err := NewLocal(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer local.Close()

	ctx := context.Background()

	// Missing key reads as empty, same as the platform API.
	got, err := local.Get(ctx, "calendar_data")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, local.Set(ctx, "calendar_data", `{"2026-09-01":{}}`))
	got, err = local.Get(ctx, "calendar_data")
	require.NoError(t, err)
	assert.Equal(t, `{"2026-09-01":{}}`, got)

	// Overwrite replaces the value.
	require.NoError(t, local.Set(ctx, "calendar_data", `{}`))
	got, err = local.Get(ctx, "calendar_data")
	require.NoError(t, err)
	assert.Equal(t, `{}`, got)
}
