package domain

import (
	"context"
	"sync"
)

type MockFeedReader struct {
	mu     sync.Mutex
	Result func(p Pipeline) Pipeline
	Called int
}

func (m *MockFeedReader) Poll(_ context.Context, p Pipeline) Pipeline {
	m.mu.Lock()
	m.Called++
	m.mu.Unlock()
	if m.Result != nil {
		return m.Result(p)
	}
	return p
}

type MockCredentialStore struct {
	Creds map[string]Credential
}

func (m *MockCredentialStore) Credential(service string) (Credential, bool) {
	c, ok := m.Creds[service]
	return c, ok
}

type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(_ context.Context, title, body, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockCache struct {
	Summaries []Summary
	Err       error
}

func (c *MockCache) Write(_ context.Context, _ []Pipeline, s Summary) error {
	if c.Err != nil {
		return c.Err
	}
	c.Summaries = append(c.Summaries, s)
	return nil
}

type MockStore struct {
	Pipelines []Pipeline
	Saved     int
	Err       error
}

func (s *MockStore) Load() ([]Pipeline, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]Pipeline, len(s.Pipelines))
	copy(out, s.Pipelines)
	return out, nil
}

func (s *MockStore) Save(pipelines []Pipeline) error {
	if s.Err != nil {
		return s.Err
	}
	s.Pipelines = make([]Pipeline, len(pipelines))
	copy(s.Pipelines, pipelines)
	s.Saved++
	return nil
}
