package knowledge

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"google.golang.org/genai"

	logx "github.com/custcare-agent/server/pkg/logger"
)

// GeminiEmbedder adapts the Gemini embedding API to the eino Embedder
// interface so the store stays decoupled from the provider.
type GeminiEmbedder struct {
	client     *genai.Client
	model      string
	dimensions int
}

func NewGeminiEmbedder(client *genai.Client, model string, dimensions int) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model, dimensions: dimensions}
}

func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.Text(t)...)
	}

	cfg := &genai.EmbedContentConfig{}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(e.dimensions))
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		logx.Error().Err(err).Str("model", e.model).Msg("embedding request failed")
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed content: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	out := make([][]float64, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		vec := make([]float64, len(emb.Values))
		for i, v := range emb.Values {
			vec[i] = float64(v)
		}
		out = append(out, vec)
	}
	return out, nil
}

var _ embedding.Embedder = (*GeminiEmbedder)(nil)
