package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/test/builders"
)

func TestNavigationSessionManager(t *testing.T) {
	ctx := context.Background()
	clock := builders.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	manager := NewNavigationSessionManager(newDeckService(golangCatalog()), clock, unlockedOptions(), nil)

	id, nav, err := manager.Open(ctx, "golang", "01_Intro.md")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "session ids are UUIDs")

	assert.Equal(t, 5, nav.State().TotalSlides)
	assert.Equal(t, 1, manager.Count())

	got, ok := manager.Get(id)
	require.True(t, ok)
	assert.Same(t, nav, got)

	t.Run("sessions are independent", func(t *testing.T) {
		id2, nav2, err := manager.Open(ctx, "golang", "02_Types.md")
		require.NoError(t, err)
		assert.NotEqual(t, id, id2)

		nav2.GoNext()
		assert.Equal(t, 0, nav.State().Slide)
		assert.Equal(t, 2, manager.Count())

		manager.Close(id2)
		assert.Equal(t, 1, manager.Count())
	})

	t.Run("close cancels the hide timer", func(t *testing.T) {
		require.Equal(t, 1, clock.Pending())
		manager.Close(id)

		_, ok := manager.Get(id)
		assert.False(t, ok)
		assert.Equal(t, 0, clock.Pending())

		manager.Close(id)
		assert.Equal(t, 0, manager.Count())
	})

	t.Run("unknown module", func(t *testing.T) {
		_, nav, err := manager.Open(ctx, "golang", "missing.md")
		assert.ErrorIs(t, err, entities.ErrNotFound)
		assert.Nil(t, nav)
		assert.Equal(t, 0, manager.Count())
	})

	t.Run("close all", func(t *testing.T) {
		_, _, err := manager.Open(ctx, "golang", "01_Intro.md")
		require.NoError(t, err)
		_, _, err = manager.Open(ctx, "golang", "02_Types.md")
		require.NoError(t, err)

		manager.CloseAll()
		assert.Equal(t, 0, manager.Count())
		assert.Equal(t, 0, clock.Pending())
	})
}
