package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker().ChunkText("first paragraph\n\nsecond paragraph", 100, 10)
	assert.Equal(t, []string{"first paragraph\n\nsecond paragraph"}, chunks)
}

func TestChunkText_SplitsOnParagraphs(t *testing.T) {
	text := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 30) + "\n\n" + strings.Repeat("c", 30)

	chunks := NewTextChunker().ChunkText(text, 40, 0)

	assert.Equal(t, []string{strings.Repeat("a", 30), strings.Repeat("b", 30), strings.Repeat("c", 30)}, chunks)
}

func TestChunkText_OverlapCarriesTail(t *testing.T) {
	text := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 30)

	chunks := NewTextChunker().ChunkText(text, 40, 5)

	assert.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], "aaaaa\n\n"))
}

func TestChunkText_OverlapNeverExceedsLimit(t *testing.T) {
	tests := []struct {
		name     string
		second   string
		expected string
	}{
		{"tail trimmed to fit", strings.Repeat("b", 35), "aaa\n\n" + strings.Repeat("b", 35)},
		{"no room for a tail", strings.Repeat("b", 39), strings.Repeat("b", 39)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewTextChunker().ChunkText(strings.Repeat("a", 30)+"\n\n"+tt.second, 40, 10)

			assert.Equal(t, []string{strings.Repeat("a", 30), tt.expected}, chunks)
		})
	}
}

func TestChunkText_EveryChunkAddsContent(t *testing.T) {
	text := strings.Join([]string{
		strings.Repeat("a", 25),
		strings.Repeat("b", 25),
		"Short one. Another short one! A question?",
		strings.Repeat("c", 25),
	}, "\n\n")

	chunks := NewTextChunker().ChunkText(text, 30, 8)

	assert.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 30, c)
		if i > 0 {
			assert.False(t, strings.HasSuffix(chunks[i-1], c), "chunk %d is only overlap", i)
		}
	}
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], strings.Repeat("c", 25)))
}

func TestChunkText_LongParagraphSplitsBySentence(t *testing.T) {
	sentence := strings.Repeat("word ", 10) + "end"
	para := strings.Join([]string{sentence, sentence, sentence}, ". ")

	chunks := NewTextChunker().ChunkText(para, 60, 0)

	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 60)
	}
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, NewTextChunker().ChunkText(" \n\n ", 100, 0))
}
