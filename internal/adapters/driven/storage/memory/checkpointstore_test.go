package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

func TestCheckpointStore_LoadEmpty(t *testing.T) {
	store := NewCheckpointStore()

	state, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, state.ProcessedIDs)
}

func TestCheckpointStore_PersistIsolatesState(t *testing.T) {
	store := NewCheckpointStore()
	ctx := context.Background()

	state := domain.NewCheckpointState(time.Now())
	state.Mark("a")
	require.NoError(t, store.Persist(ctx, state))

	// Mutating the caller's copy must not leak into the store
	state.Mark("b")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.ProcessedIDs)
	assert.Equal(t, 1, store.Persists)
}
