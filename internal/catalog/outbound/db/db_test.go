package db

import (
	"context"
	"testing"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidanceFilters(t *testing.T) {
	s := NewDB(testkit.Postgres(t), instrument.NewNoop())
	ctx := context.Background()

	require.NoError(t, s.CreateGuidance(ctx, entity.Guidance{ID: 1, Title: "Breathe", Category: "Stress", IsFeatured: true}))
	require.NoError(t, s.CreateGuidance(ctx, entity.Guidance{ID: 2, Title: "Rest", Category: "sleep"}))

	all, err := s.ListGuidance(ctx, entity.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID, "featured first")

	got, err := s.ListGuidance(ctx, entity.Filter{Category: "stress"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Breathe", got[0].Title)

	no := false
	got, err = s.ListGuidance(ctx, entity.Filter{Featured: &no})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	err = s.CreateGuidance(ctx, entity.Guidance{ID: 1, Title: "dup"})
	assert.ErrorIs(t, err, goerror.ErrConflict)
}

func TestListsAndCategories(t *testing.T) {
	s := NewDB(testkit.Postgres(t), instrument.NewNoop())
	ctx := context.Background()

	music, err := s.ListMusic(ctx)
	require.NoError(t, err)
	assert.Empty(t, music)
	assert.NotNil(t, music)

	require.NoError(t, s.CreateMusic(ctx, entity.Music{ID: 10, Title: "Rain", DurationSeconds: 185, AudioURL: "music/rain.mp3"}))
	require.NoError(t, s.CreateBooster(ctx, entity.Booster{ID: 20, Title: "Stretch", Category: "energy", EstimatedSeconds: 60}))
	require.NoError(t, s.CreateMeditation(ctx, entity.Meditation{ID: 30, Title: "Body scan", Category: "sleep", DurationMinutes: 10}))
	require.NoError(t, s.CreateMeditation(ctx, entity.Meditation{ID: 31, Title: "Night", Category: "sleep"}))
	require.NoError(t, s.CreateGuidance(ctx, entity.Guidance{ID: 40, Title: "Rest", Category: "sleep"}))

	music, err = s.ListMusic(ctx)
	require.NoError(t, err)
	require.Len(t, music, 1)
	assert.Equal(t, 185, music[0].DurationSeconds)

	boosters, err := s.ListBoosters(ctx)
	require.NoError(t, err)
	require.Len(t, boosters, 1)
	assert.Equal(t, 60, boosters[0].EstimatedSeconds)

	meditations, err := s.ListMeditations(ctx, entity.Filter{Category: "sleep"})
	require.NoError(t, err)
	assert.Len(t, meditations, 2)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Category{
		{Kind: entity.KindBoosters, Value: "energy"},
		{Kind: entity.KindGuidance, Value: "sleep"},
		{Kind: entity.KindMeditations, Value: "sleep"},
	}, cats)
}
