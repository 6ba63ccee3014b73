package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker. Paragraphs are packed into chunks of at
// most maxChunkSize runes; a paragraph that is too long on its own is packed
// sentence by sentence. Each new chunk starts with up to overlap runes from
// the end of the previous one, followed by at least one new piece.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	p := &chunkPacker{maxSize: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			p.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			p.add(sentence, " ")
		}
	}

	return p.finish()
}

type chunkPacker struct {
	maxSize int
	overlap int
	chunks  []string
	current strings.Builder
	size    int
}

func (p *chunkPacker) add(piece, sep string) {
	pieceSize := utf8.RuneCountInString(piece)

	if p.size > 0 && p.size+len(sep)+pieceSize > p.maxSize {
		prev := p.current.String()
		p.chunks = append(p.chunks, prev)
		p.current.Reset()
		p.size = 0

		// The carried tail shrinks to whatever room the piece leaves.
		room := p.maxSize - pieceSize - utf8.RuneCountInString(sep)
		if tail := lastNRunes(prev, min(p.overlap, room)); tail != "" {
			p.write(tail)
		}
	}

	if p.size > 0 {
		p.write(sep)
	}
	p.write(piece)
}

func (p *chunkPacker) write(s string) {
	p.current.WriteString(s)
	p.size += utf8.RuneCountInString(s)
}

func (p *chunkPacker) finish() []string {
	if p.size > 0 {
		p.chunks = append(p.chunks, p.current.String())
	}
	return p.chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
