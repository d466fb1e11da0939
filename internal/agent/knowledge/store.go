// Package knowledge implements the retrieval side of the agent: an in-memory
// vector store with an injected embedder, the seeded knowledge documents, and
// the post-processing that cleans raw hits before they are surfaced.
package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/custcare-agent/server/internal/agent/model"
)

type document struct {
	title   string
	content string
	vector  []float64
}

// Store is an embedding-backed document store. Search ranks documents by
// cosine similarity against the embedded query.
type Store struct {
	mu       sync.RWMutex
	embedder embedding.Embedder
	docs     []document
}

func NewStore(embedder embedding.Embedder) *Store {
	return &Store{embedder: embedder}
}

// AddDocument embeds the title+content pair and appends it to the store.
func (s *Store) AddDocument(ctx context.Context, title, content string) error {
	vecs, err := s.embedder.EmbedStrings(ctx, []string{title + "\n" + content})
	if err != nil {
		return fmt.Errorf("embed document %q: %w", title, err)
	}
	if len(vecs) == 0 {
		return fmt.Errorf("embed document %q: empty embedding result", title)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, document{title: title, content: content, vector: vecs[0]})
	return nil
}

// Search embeds the query and returns up to opts.Limit candidates whose
// cosine similarity meets opts.ScoreThreshold, best first.
func (s *Store) Search(ctx context.Context, query string, opts model.SearchOptions) ([]model.RetrievalCandidate, error) {
	vecs, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding result")
	}
	qv := vecs[0]

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]model.RetrievalCandidate, 0, len(s.docs))
	for _, doc := range s.docs {
		score := cosineSimilarity(qv, doc.vector)
		if score < opts.ScoreThreshold {
			continue
		}
		candidates = append(candidates, model.RetrievalCandidate{
			Title:   doc.title,
			Content: doc.content,
			Score:   score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return candidates, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var _ model.Retriever = (*Store)(nil)
