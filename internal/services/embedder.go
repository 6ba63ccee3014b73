package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"alfredoptarigan/resume-checker/internal/analyzer"
	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/logger"
)

// ModelEmbedder is an embedder that can name the model behind its vectors.
type ModelEmbedder interface {
	analyzer.Embedder
	Model() string
}

// ResilientEmbedder bounds every call with a timeout and retries transient
// failures with exponential backoff.
type ResilientEmbedder struct {
	next       ModelEmbedder
	timeout    time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
}

func NewResilientEmbedder(next ModelEmbedder, timeout time.Duration, maxRetries int) *ResilientEmbedder {
	return &ResilientEmbedder{
		next:       next,
		timeout:    timeout,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

func (r *ResilientEmbedder) Model() string {
	return r.next.Model()
}

// Embed implements analyzer.Embedder.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	attempt := 0

	operation := func() error {
		attempt++

		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		defer cancel()

		v, err := r.next.Embed(callCtx, text)
		if err == nil {
			vec = v
			return nil
		}

		if !isTransient(ctx, err) {
			return backoff.Permanent(err)
		}

		logger.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Msg("embedding call failed")
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, &analyzer.EmbeddingServiceError{
			Message: fmt.Sprintf("embedding failed after %d attempt(s)", attempt),
			Cause:   err,
		}
	}

	return vec, nil
}

// isTransient reports whether a failed call is worth repeating. Client errors
// are final except request timeouts and rate limiting.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	if code >= 400 && code < 500 {
		return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
	}
	return true
}

// HashingEmbedder is a deterministic offline embedder. Each token is hashed
// into a bucket with a signed weight and the result is L2-normalized, so texts
// sharing vocabulary land close together.
type HashingEmbedder struct {
	dimension int
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = 768
	}
	return &HashingEmbedder{dimension: dimension}
}

func (h *HashingEmbedder) Model() string {
	return fmt.Sprintf("hashing-%d", h.dimension)
}

// Embed implements analyzer.Embedder.
func (h *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dimension)

	for _, token := range strings.Fields(analyzer.CleanText(text)) {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(token))
		sum := hasher.Sum64()

		bucket := int(sum % uint64(h.dimension))
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return vec, nil
	}

	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

// NewEmbedder builds the configured provider, wrapped in retries and, when
// enabled, the Qdrant vector cache.
func NewEmbedder(ctx context.Context, cfg *config.Config) (ModelEmbedder, error) {
	return newEmbedder(ctx, cfg, func() (VectorStore, error) {
		return NewQdrantVectorStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, uint64(cfg.Embedding.Dimension))
	})
}

func newEmbedder(ctx context.Context, cfg *config.Config, openStore func() (VectorStore, error)) (ModelEmbedder, error) {
	var base ModelEmbedder

	switch strings.ToLower(cfg.Embedding.Provider) {
	case "hashing":
		base = NewHashingEmbedder(cfg.Embedding.Dimension)
	case "gemini", "":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini embedding provider")
		}
		gemini, err := NewGeminiEmbedder(ctx, cfg.Gemini.APIKey, cfg.Embedding.Model, cfg.Embedding.Dimension)
		if err != nil {
			return nil, err
		}
		base = NewResilientEmbedder(gemini, cfg.Embedding.Timeout, cfg.Embedding.MaxRetries)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	if !cfg.Embedding.CacheEnabled {
		return base, nil
	}

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	if err := store.InitCollection(ctx); err != nil {
		return nil, err
	}

	return NewCachedEmbedder(base, store, cfg.Embedding.CacheTimeout), nil
}
