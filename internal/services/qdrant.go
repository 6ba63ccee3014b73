package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/resume-checker/internal/logger"
)

// VectorStore persists embeddings under a content-derived key.
type VectorStore interface {
	InitCollection(ctx context.Context) error
	Get(ctx context.Context, key uuid.UUID) ([]float32, bool, error)
	Put(ctx context.Context, key uuid.UUID, model, text string, vector []float32) error
}

type qdrantVectorStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantVectorStore(urlStr, apiKey, collectionName string, vectorSize uint64) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantVectorStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantVectorStore) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		logger.Debug().Str("collection", q.collectionName).Msg("qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	logger.Info().Str("collection", q.collectionName).Msg("qdrant collection created")
	return nil
}

// Get implements VectorStore.
func (q *qdrantVectorStore) Get(ctx context.Context, key uuid.UUID) ([]float32, bool, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewID(key.String())},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get point: %w", err)
	}

	if len(points) == 0 {
		return nil, false, nil
	}

	vector := points[0].GetVectors().GetVector()
	data := vector.GetData()
	if len(data) == 0 {
		data = vector.GetDense().GetData()
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	return data, true, nil
}

// Put implements VectorStore.
func (q *qdrantVectorStore) Put(ctx context.Context, key uuid.UUID, model, text string, vector []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(key.String()),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"model":      model,
			"text_chars": len(text),
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// CachedEmbedder looks vectors up by a hash of model and text before calling
// the wrapped embedder. Cache failures only cost a recomputation.
type CachedEmbedder struct {
	next    ModelEmbedder
	store   VectorStore
	timeout time.Duration
}

// NewCachedEmbedder bounds every cache call by timeout; zero means the
// caller's context alone.
func NewCachedEmbedder(next ModelEmbedder, store VectorStore, timeout time.Duration) *CachedEmbedder {
	return &CachedEmbedder{next: next, store: store, timeout: timeout}
}

func (c *CachedEmbedder) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *CachedEmbedder) lookup(ctx context.Context, key uuid.UUID) ([]float32, bool, error) {
	ctx, cancel := c.cacheContext(ctx)
	defer cancel()
	return c.store.Get(ctx, key)
}

func (c *CachedEmbedder) save(ctx context.Context, key uuid.UUID, text string, vector []float32) error {
	ctx, cancel := c.cacheContext(ctx)
	defer cancel()
	return c.store.Put(ctx, key, c.next.Model(), text, vector)
}

func (c *CachedEmbedder) Model() string {
	return c.next.Model()
}

// CacheKey is stable across processes for the same model and text.
func CacheKey(model, text string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(model+"\x00"+text))
}

// Embed implements analyzer.Embedder.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(c.next.Model(), text)
	log := logger.Ctx(ctx)

	vector, ok, err := c.lookup(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("embedding cache lookup failed")
	}
	if ok {
		return vector, nil
	}

	vector, err = c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.save(ctx, key, text, vector); err != nil {
		log.Warn().Err(err).Msg("embedding cache write failed")
	}

	return vector, nil
}
