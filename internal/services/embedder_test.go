package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/resume-checker/internal/analyzer"
)

type scriptedEmbedder struct {
	errs  []error
	calls int
}

func (s *scriptedEmbedder) Model() string { return "scripted" }

func (s *scriptedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	s.calls++
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return nil, s.errs[s.calls-1]
	}
	return []float32{1, 2, 3}, nil
}

func newTestResilient(next ModelEmbedder, maxRetries int) *ResilientEmbedder {
	r := NewResilientEmbedder(next, time.Second, maxRetries)
	r.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return r
}

func TestResilientEmbedder_RetriesTransientErrors(t *testing.T) {
	next := &scriptedEmbedder{errs: []error{
		genai.APIError{Code: http.StatusServiceUnavailable},
		genai.APIError{Code: http.StatusTooManyRequests},
	}}

	vec, err := newTestResilient(next, 2).Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
	assert.Equal(t, 3, next.calls)
}

func TestResilientEmbedder_ClientErrorIsPermanent(t *testing.T) {
	next := &scriptedEmbedder{errs: []error{
		genai.APIError{Code: http.StatusBadRequest, Message: "invalid model"},
	}}

	_, err := newTestResilient(next, 2).Embed(context.Background(), "text")

	var svcErr *analyzer.EmbeddingServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 1, next.calls)
}

func TestResilientEmbedder_Exhausted(t *testing.T) {
	boom := errors.New("connection reset")
	next := &scriptedEmbedder{errs: []error{boom, boom, boom, boom}}

	_, err := newTestResilient(next, 2).Embed(context.Background(), "text")

	var svcErr *analyzer.EmbeddingServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, next.calls)
}

func TestResilientEmbedder_CancelledContext(t *testing.T) {
	next := &scriptedEmbedder{errs: []error{context.Canceled}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestResilient(next, 2).Embed(ctx, "text")
	require.Error(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestIsTransient(t *testing.T) {
	ctx := context.Background()

	assert.True(t, isTransient(ctx, errors.New("eof")))
	assert.True(t, isTransient(ctx, context.DeadlineExceeded))
	assert.True(t, isTransient(ctx, genai.APIError{Code: http.StatusInternalServerError}))
	assert.True(t, isTransient(ctx, genai.APIError{Code: http.StatusRequestTimeout}))
	assert.False(t, isTransient(ctx, genai.APIError{Code: http.StatusUnauthorized}))
	assert.False(t, isTransient(ctx, &genai.APIError{Code: http.StatusNotFound}))
	assert.False(t, isTransient(ctx, context.Canceled))
}

func TestHashingEmbedder(t *testing.T) {
	h := NewHashingEmbedder(64)
	ctx := context.Background()

	a, err := h.Embed(ctx, "Go developer with Kubernetes experience")
	require.NoError(t, err)
	assert.Len(t, a, 64)

	again, err := h.Embed(ctx, "go developer, with kubernetes experience!")
	require.NoError(t, err)
	assert.Equal(t, a, again, "cleaning makes the vector case and punctuation blind")

	sim, err := analyzer.CosineSimilarity(a, again)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)

	empty, err := h.Embed(ctx, "")
	require.NoError(t, err)
	sim, err = analyzer.CosineSimilarity(a, empty)
	require.NoError(t, err)
	assert.Zero(t, sim)

	assert.Equal(t, "hashing-64", h.Model())
}

func TestMeanPool(t *testing.T) {
	pooled, err := MeanPool([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, pooled)

	_, err = MeanPool(nil)
	assert.Error(t, err)

	_, err = MeanPool([][]float32{{1}, {1, 2}})
	assert.Error(t, err)
}
