package application

import (
	"context"
	"sync"

	"github.com/ccwatch/ccwatch/internal/domain"
	"go.uber.org/zap"
)

// Coordinator fans one poll per pipeline out to the feed readers and
// merges results back by identity. Readers work on value copies, so the
// only synchronization lives here, around the shared list.
//
// Invariant: at most one poll per pipeline is ever in flight. A refresh
// requested while a round is running coalesces, it only dispatches
// pipelines that have no in-flight poll.
type Coordinator struct {
	log     *zap.Logger
	readers map[domain.FeedType]domain.FeedReader

	mu        sync.Mutex
	pipelines []domain.Pipeline
	inFlight  map[string]bool
}

func NewCoordinator(log *zap.Logger, readers map[domain.FeedType]domain.FeedReader) *Coordinator {
	return &Coordinator{
		log:      log,
		readers:  readers,
		inFlight: make(map[string]bool),
	}
}

// SetPipelines replaces the monitored list. Results of polls already in
// flight for pipelines no longer in the list are discarded on merge.
func (c *Coordinator) SetPipelines(pipelines []domain.Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines = make([]domain.Pipeline, len(pipelines))
	copy(c.pipelines, pipelines)
}

// Pipelines returns a snapshot copy in list order.
func (c *Coordinator) Pipelines() []domain.Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Pipeline, len(c.pipelines))
	copy(out, c.pipelines)
	return out
}

// PollAll polls every pipeline without an in-flight poll concurrently
// and returns when all dispatched polls have completed or the context
// is canceled. Canceled polls do not mutate the list.
func (c *Coordinator) PollAll(ctx context.Context) {
	c.mu.Lock()
	var todo []domain.Pipeline
	for _, p := range c.pipelines {
		if c.inFlight[p.ID] {
			continue
		}
		c.inFlight[p.ID] = true
		todo = append(todo, p)
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range todo {
		wg.Add(1)
		go func(p domain.Pipeline) {
			defer wg.Done()
			c.merge(ctx, c.pollOne(ctx, p))
		}(p)
	}
	wg.Wait()
}

func (c *Coordinator) pollOne(ctx context.Context, p domain.Pipeline) domain.Pipeline {
	reader, ok := c.readers[p.Feed.Type]
	if !ok {
		c.log.Warn("no reader for feed type",
			zap.String("pipeline", p.Name),
			zap.String("type", string(p.Feed.Type)),
		)
		p.ConnectionError = "unsupported feed type: " + string(p.Feed.Type)
		p.Status.Activity = domain.ActivityOther
		return p
	}
	return reader.Poll(ctx, p)
}

func (c *Coordinator) merge(ctx context.Context, updated domain.Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, updated.ID)

	if ctx.Err() != nil {
		return
	}
	i := domain.FindByID(c.pipelines, updated.ID)
	if i < 0 {
		// removed while the poll was in flight
		return
	}
	c.pipelines[i] = updated
}
