package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"alfredoptarigan/resume-checker/internal/logger"
)

const (
	embedChunkSize    = 8000
	embedChunkOverlap = 200
)

// GeminiEmbedder embeds text with the Gemini embedding model. Text longer
// than one chunk is split and the chunk vectors are mean-pooled.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int32
	chunker   TextChunker
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string, dimension int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info().Str("model", model).Int("dimension", dimension).Msg("gemini embedder ready")

	return &GeminiEmbedder{
		client:    client,
		model:     model,
		dimension: int32(dimension),
		chunker:   NewTextChunker(),
	}, nil
}

func (g *GeminiEmbedder) Model() string {
	return g.model
}

// Embed implements analyzer.Embedder.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	chunks := g.chunker.ChunkText(text, embedChunkSize, embedChunkOverlap)
	if len(chunks) == 0 {
		chunks = []string{text}
	}

	var contents []*genai.Content
	for _, chunk := range chunks {
		contents = append(contents, genai.Text(chunk)...)
	}

	result, err := g.client.Models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{
		TaskType:             "SEMANTIC_SIMILARITY",
		OutputDimensionality: &g.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, e := range result.Embeddings {
		vectors = append(vectors, e.Values)
	}

	return MeanPool(vectors)
}

// MeanPool averages equal-length vectors component-wise.
func MeanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to pool")
	}
	if len(vectors) == 1 {
		return vectors[0], nil
	}

	dim := len(vectors[0])
	pooled := make([]float32, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(v), dim)
		}
		for i, x := range v {
			pooled[i] += x
		}
	}
	for i := range pooled {
		pooled[i] /= float32(len(vectors))
	}

	return pooled, nil
}
