package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtravel/hotelbot/internal/domain/entities"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	got, err := store.Get(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, got)

	state := entities.NewDialogueState(100, entities.SearchModePrice)
	require.NoError(t, store.Put(ctx, state))

	got, err = store.Get(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.ID, got.ID)
	assert.Equal(t, entities.StepAwaitingCity, got.Step)

	require.NoError(t, store.Delete(ctx, 100))
	got, err = store.Get(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_NewDialogueSupersedesOld(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	first := entities.NewDialogueState(7, entities.SearchModePrice)
	require.NoError(t, store.Put(ctx, first))

	second := entities.NewDialogueState(7, entities.SearchModeDistanceFromLandmark)
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, entities.SearchModeDistanceFromLandmark, got.Mode)
}

func TestMemoryStore_EvictsIdleStates(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	state := entities.NewDialogueState(42, entities.SearchModePrice)
	require.NoError(t, store.Put(ctx, state))

	time.Sleep(50 * time.Millisecond)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_PutRefreshesIdleDeadline(t *testing.T) {
	store := NewMemoryStore(60 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	state := entities.NewDialogueState(42, entities.SearchModePrice)
	require.NoError(t, store.Put(ctx, state))

	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		require.NoError(t, store.Put(ctx, state))
	}

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
