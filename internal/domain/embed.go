package domain

import "context"

// EmbedResult is the outcome of a single successful resolution.
type EmbedResult struct {
	Platform        Platform `json:"platform"`
	EmbedMarkup     string   `json:"embedCode"`
	SourceReference string   `json:"sourceReference"`
}

// EmbedRequest is what the embed-generation collaborator receives.
type EmbedRequest struct {
	SourceReference string   `json:"videoUrl"`
	Platform        Platform `json:"platform"`
}

// Uploader persists a local media blob and returns a durable asset reference.
type Uploader interface {
	Upload(ctx context.Context, media *LocalMedia) (string, error)
}

// EmbedGenerator turns a source reference into renderable embed markup.
type EmbedGenerator interface {
	Generate(ctx context.Context, req EmbedRequest) (string, error)
}

// Navigator opens a link in a new browsing context. Fire and forget.
type Navigator interface {
	Open(link string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(link string)

func (f NavigatorFunc) Open(link string) { f(link) }
