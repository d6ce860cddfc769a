package domain

import "context"

// FeedReader polls one pipeline and returns the updated value. It never
// returns an error: all failure is folded into the returned pipeline's
// ConnectionError and a degraded Status.
type FeedReader interface {
	Poll(ctx context.Context, p Pipeline) Pipeline
}

// Credential is an opaque secret for a feed server. For bearer-token
// services only Secret is set.
type Credential struct {
	User   string
	Secret string
}

// CredentialStore resolves credentials by service name ("cctray",
// "github"). A missing credential is not an error.
type CredentialStore interface {
	Credential(service string) (Credential, bool)
}

type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

type StatusCache interface {
	Write(ctx context.Context, pipelines []Pipeline, s Summary) error
}

// PipelineStore persists the pipeline list.
type PipelineStore interface {
	Load() ([]Pipeline, error)
	Save(pipelines []Pipeline) error
}
