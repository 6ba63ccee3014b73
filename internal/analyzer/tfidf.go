package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// tokenPattern mirrors the "\b\w\w+\b" word rule: runs of two or more word
// characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CleanText lower-cases, strips ASCII punctuation and collapses whitespace.
func CleanText(text string) string {
	text = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize splits cleaned text into terms with stop words removed.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; !stop {
			terms = append(terms, t)
		}
	}
	return terms
}

// TFIDF is a fitted vector space over a small corpus using smoothed idf and
// L2-normalized rows.
type TFIDF struct {
	Vocabulary []string
	Vectors    [][]float64
	counts     []map[string]int
}

// FitTransform vectorizes docs. It fails when no document yields a term.
func FitTransform(docs ...string) (*TFIDF, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range Tokenize(doc) {
			counts[i][term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	if len(df) == 0 {
		return nil, &VectorizationError{Message: "empty vocabulary; perhaps the documents only contain stop words"}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec := make([]float64, len(vocab))
		for j, term := range vocab {
			vec[j] = float64(counts[i][term]) * idf[j]
		}
		vectors[i] = normalize(vec)
	}

	return &TFIDF{Vocabulary: vocab, Vectors: vectors, counts: counts}, nil
}

// Cosine returns the similarity of rows i and j. Zero rows give 0.
func (t *TFIDF) Cosine(i, j int) float64 {
	return dot(t.Vectors[i], t.Vectors[j])
}

// TopTerms returns the n highest weighted terms of row i, ties broken
// alphabetically.
func (t *TFIDF) TopTerms(i, n int) []string {
	type weighted struct {
		term   string
		weight float64
	}

	var terms []weighted
	for j, w := range t.Vectors[i] {
		if w > 0 {
			terms = append(terms, weighted{t.Vocabulary[j], w})
		}
	}
	sort.SliceStable(terms, func(a, b int) bool {
		if terms[a].weight != terms[b].weight {
			return terms[a].weight > terms[b].weight
		}
		return terms[a].term < terms[b].term
	})

	if n > 0 && len(terms) > n {
		terms = terms[:n]
	}
	out := make([]string, len(terms))
	for k, w := range terms {
		out[k] = w.term
	}
	return out
}

// Contains reports whether row i has the term at all.
func (t *TFIDF) Contains(i int, term string) bool {
	return t.counts[i][term] > 0
}

func normalize(vec []float64) []float64 {
	norm := math.Sqrt(dot(vec, vec))
	if norm == 0 {
		return vec
	}
	for k := range vec {
		vec[k] /= norm
	}
	return vec
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for k := range a {
		sum += a[k] * b[k]
	}
	return sum
}
