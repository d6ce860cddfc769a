package application

import (
	"context"
	"os"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"go.uber.org/zap"
)

// Scheduler drives polling rounds on a ticker, publishes transition
// notifications, refreshes the status cache and persists the pipeline
// list after each round.
type Scheduler struct {
	log       *zap.Logger
	coord     *Coordinator
	note      domain.Notifier
	cache     domain.StatusCache
	store     domain.PipelineStore
	every     time.Duration
	pauseFile string
}

func NewScheduler(log *zap.Logger, coord *Coordinator, note domain.Notifier, cache domain.StatusCache, store domain.PipelineStore, every time.Duration, pauseFile string) *Scheduler {
	return &Scheduler{
		log: log, coord: coord, note: note, cache: cache, store: store,
		every: every, pauseFile: pauseFile,
	}
}

// UpdatePipelines replaces the monitored list, e.g. after the pipelines
// file changed on disk.
func (s *Scheduler) UpdatePipelines(pipelines []domain.Pipeline) {
	s.coord.SetPipelines(pipelines)
	s.log.Info("pipeline list reloaded", zap.Int("pipelines", len(pipelines)))
}

func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.every)
	defer t.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.isPaused() {
		s.log.Debug("paused: skipping poll round")
		return
	}
	s.Round(ctx)
}

// Round runs one full polling round. Also used by the refresh-all path.
func (s *Scheduler) Round(ctx context.Context) {
	before := s.coord.Pipelines()
	s.coord.PollAll(ctx)
	if ctx.Err() != nil {
		return
	}
	after := s.coord.Pipelines()

	for _, e := range DeriveEvents(before, after) {
		url := e.Pipeline.Feed.URL
		if err := s.note.Notify(ctx, Title(e), Body(e), url); err != nil {
			s.log.Warn("notify failed", zap.String("pipeline", e.Pipeline.Name), zap.Error(err))
		}
	}

	if err := s.cache.Write(ctx, after, domain.Summarize(after, time.Now())); err != nil {
		s.log.Warn("cache write failed", zap.Error(err))
	}
	if err := s.store.Save(after); err != nil {
		s.log.Warn("pipeline list save failed", zap.Error(err))
	}

	for _, p := range after {
		if p.ConnectionError != "" {
			s.log.Warn("poll failed",
				zap.String("pipeline", p.Name),
				zap.String("error", p.ConnectionError),
			)
		}
	}
}

// isPaused checks the global pause file; per-feed rate-limit pauses are
// handled inside the readers.
func (s *Scheduler) isPaused() bool {
	if s.pauseFile == "" {
		return false
	}
	_, err := os.Stat(s.pauseFile)
	return err == nil
}
