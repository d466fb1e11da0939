package model

import "context"

// Generator is the per-user conversational agent handle owned by the session
// registry. Generate may block; it is bounded by the handle's own timeout and
// surfaces transient failures as errors.
type Generator interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// SearchOptions bound a retrieval call.
type SearchOptions struct {
	Limit          int
	ScoreThreshold float64
}

// Retriever is the vector retrieval collaborator. Results come back in
// descending score order.
type Retriever interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]RetrievalCandidate, error)
}
