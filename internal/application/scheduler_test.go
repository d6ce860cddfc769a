package application

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(path string) error {
	return os.WriteFile(path, nil, 0o644)
}

func TestRound_NotifiesCachesAndSaves(t *testing.T) {
	reader := &domain.MockFeedReader{Result: func(p domain.Pipeline) domain.Pipeline {
		p.Status.Activity = domain.ActivitySleeping
		p.Status.LastBuild = &domain.Build{Result: domain.ResultFailure, Label: "2"}
		return p
	}}
	coord := newCoordinator(reader)
	p := cctrayPipeline("a", "alpha")
	p.Status = domain.Status{
		Activity:  domain.ActivitySleeping,
		LastBuild: &domain.Build{Result: domain.ResultSuccess, Label: "1"},
	}
	coord.SetPipelines([]domain.Pipeline{p})

	note := &domain.MockNotifier{}
	cache := &domain.MockCache{}
	store := &domain.MockStore{}
	s := NewScheduler(zap.NewNop(), coord, note, cache, store, time.Minute, "")

	s.Round(context.Background())

	require.Len(t, note.Messages, 1)
	assert.Contains(t, note.Messages[0], "broken")
	require.Len(t, cache.Summaries, 1)
	assert.Equal(t, 1, cache.Summaries[0].Failures)
	assert.Equal(t, 1, store.Saved)
	require.Len(t, store.Pipelines, 1)
	assert.Equal(t, "2", store.Pipelines[0].Status.LastBuild.Label)
}

func TestRound_NoTransitionNoNotification(t *testing.T) {
	reader := &domain.MockFeedReader{Result: func(p domain.Pipeline) domain.Pipeline { return p }}
	coord := newCoordinator(reader)
	coord.SetPipelines([]domain.Pipeline{cctrayPipeline("a", "alpha")})

	note := &domain.MockNotifier{}
	s := NewScheduler(zap.NewNop(), coord, note, &domain.MockCache{}, &domain.MockStore{}, time.Minute, "")

	s.Round(context.Background())

	assert.Empty(t, note.Messages)
}

func TestTick_PauseFileSkipsRound(t *testing.T) {
	dir := t.TempDir()
	pauseFile := dir + "/paused"
	require.NoError(t, writeFile(pauseFile))

	reader := &domain.MockFeedReader{}
	coord := newCoordinator(reader)
	coord.SetPipelines([]domain.Pipeline{cctrayPipeline("a", "alpha")})
	s := NewScheduler(zap.NewNop(), coord, &domain.MockNotifier{}, &domain.MockCache{}, &domain.MockStore{}, time.Minute, pauseFile)

	s.tick(context.Background())

	assert.Equal(t, 0, reader.Called)
}

func TestRound_CanceledContextSkipsSideEffects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &domain.MockFeedReader{}
	coord := newCoordinator(reader)
	coord.SetPipelines([]domain.Pipeline{cctrayPipeline("a", "alpha")})
	store := &domain.MockStore{}
	s := NewScheduler(zap.NewNop(), coord, &domain.MockNotifier{}, &domain.MockCache{}, store, time.Minute, "")

	s.Round(ctx)

	assert.Equal(t, 0, store.Saved)
}
