package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello world foobar", CleanText("Hello,   World!\n\tFoo-bar"))
	assert.Equal(t, "café — résumé", CleanText("Café — Résumé."), "only ASCII punctuation is stripped")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"developer", "great"}, Tokenize("The Go developer, a great-one!"))
	assert.Empty(t, Tokenize("a I x"))
}

func TestFitTransform(t *testing.T) {
	space, err := FitTransform("apple banana", "apple cherry")
	require.NoError(t, err)

	assert.Equal(t, []string{"apple", "banana", "cherry"}, space.Vocabulary)
	// idf(apple)=1, idf(banana)=idf(cherry)=ln(3/2)+1
	assert.InDelta(t, 0.336097, space.Cosine(0, 1), 1e-6)
	assert.InDelta(t, 1.0, space.Cosine(0, 0), 1e-9)
	assert.Equal(t, []string{"banana", "apple"}, space.TopTerms(0, 5))
	assert.Equal(t, []string{"banana"}, space.TopTerms(0, 1))
	assert.True(t, space.Contains(1, "cherry"))
	assert.False(t, space.Contains(1, "banana"))
}

func TestFitTransform_EmptyVocabulary(t *testing.T) {
	_, err := FitTransform("the of and", "")

	var vecErr *VectorizationError
	require.ErrorAs(t, err, &vecErr)
}

func TestFitTransform_OneEmptyDocument(t *testing.T) {
	space, err := FitTransform("kubernetes operators", "the")
	require.NoError(t, err)
	assert.Zero(t, space.Cosine(0, 1))
}
