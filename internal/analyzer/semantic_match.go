package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/resume-checker/internal/parser"
)

// Embedder maps text to a fixed-length dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SectionMapping pairs a resume section with the job sections it is compared
// against, in order.
type SectionMapping struct {
	Resume string
	Job    []string
}

var DefaultSectionMappings = []SectionMapping{
	{Resume: "EXPERIENCE", Job: []string{"RESPONSIBILITIES", "WHAT YOU'LL DO", "ABOUT THE ROLE"}},
	{Resume: "SKILLS", Job: []string{"REQUIREMENTS", "QUALIFICATIONS", "SKILLS", "WHAT YOU'LL NEED"}},
	{Resume: "EDUCATION", Job: []string{"EDUCATION", "QUALIFICATIONS"}},
}

type SectionSimilarity struct {
	ResumeSection string
	JobSection    string
	Similarity    float64
}

func (s SectionSimilarity) Key() string {
	return s.ResumeSection + "-" + s.JobSection
}

// SectionSimilarities keeps encounter order and encodes as a JSON object
// keyed "RESUME-JOB".
type SectionSimilarities []SectionSimilarity

func (s SectionSimilarities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(pair.Similarity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SectionSimilarities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("section similarities: expected object, got %v", tok)
	}

	out := SectionSimilarities{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("section similarities: expected key, got %v", tok)
		}

		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("section similarities: %s: %w", key, err)
		}

		resume, job, _ := strings.Cut(key, "-")
		out = append(out, SectionSimilarity{ResumeSection: resume, JobSection: job, Similarity: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Lowest returns the first pair holding the minimum similarity.
func (s SectionSimilarities) Lowest() (SectionSimilarity, bool) {
	if len(s) == 0 {
		return SectionSimilarity{}, false
	}
	lowest := s[0]
	for _, pair := range s[1:] {
		if pair.Similarity < lowest.Similarity {
			lowest = pair
		}
	}
	return lowest, true
}

func (s SectionSimilarities) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, pair := range s {
		sum += pair.Similarity
	}
	return sum / float64(len(s))
}

type SemanticMatchResult struct {
	OverallSimilarity   float64             `json:"overall_similarity"`
	SectionSimilarities SectionSimilarities `json:"section_similarities"`
	SemanticMatchScore  float64             `json:"semantic_match_score"`
}

type SemanticMatchConfig struct {
	OverallWeight float64
	SectionWeight float64
	Mappings      []SectionMapping
}

type SemanticMatchAnalyzer interface {
	Analyze(ctx context.Context, resume *parser.ResumeProfile, jd *parser.JobDescription) (*SemanticMatchResult, error)
}

type semanticMatchAnalyzer struct {
	embedder Embedder
	cfg      SemanticMatchConfig
}

func NewSemanticMatchAnalyzer(embedder Embedder, cfg SemanticMatchConfig) SemanticMatchAnalyzer {
	if cfg.Mappings == nil {
		cfg.Mappings = DefaultSectionMappings
	}
	return &semanticMatchAnalyzer{embedder: embedder, cfg: cfg}
}

// Analyze implements SemanticMatchAnalyzer. Missing or empty sections on
// either side skip their pairing.
func (a *semanticMatchAnalyzer) Analyze(ctx context.Context, resume *parser.ResumeProfile, jd *parser.JobDescription) (*SemanticMatchResult, error) {
	memo := &memoEmbedder{embedder: a.embedder, cache: make(map[string][]float32)}

	overall, err := memo.similarity(ctx, resume.RawText, jd.RawText)
	if err != nil {
		return nil, fmt.Errorf("overall similarity: %w", err)
	}

	result := &SemanticMatchResult{
		OverallSimilarity:   overall,
		SectionSimilarities: SectionSimilarities{},
	}

	for _, mapping := range a.cfg.Mappings {
		resumeSection, ok := resume.FindSection(mapping.Resume)
		if !ok || resumeSection.Content == "" {
			continue
		}

		for _, jobLabel := range mapping.Job {
			jobSection, ok := jd.FindSection(jobLabel)
			if !ok || jobSection.Content == "" {
				continue
			}

			sim, err := memo.similarity(ctx, resumeSection.Content, jobSection.Content)
			if err != nil {
				return nil, fmt.Errorf("section %s-%s similarity: %w", mapping.Resume, jobLabel, err)
			}
			result.SectionSimilarities = append(result.SectionSimilarities, SectionSimilarity{
				ResumeSection: mapping.Resume,
				JobSection:    jobLabel,
				Similarity:    sim,
			})
		}
	}

	if len(result.SectionSimilarities) == 0 {
		result.SemanticMatchScore = clamp(overall * 100)
	} else {
		result.SemanticMatchScore = clamp(
			(a.cfg.OverallWeight*overall + a.cfg.SectionWeight*result.SectionSimilarities.Mean()) * 100,
		)
	}

	return result, nil
}

// memoEmbedder embeds each distinct text once per analysis.
type memoEmbedder struct {
	embedder Embedder
	cache    map[string][]float32
}

func (m *memoEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := m.cache[text]; ok {
		return vec, nil
	}

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		var svcErr *EmbeddingServiceError
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, &EmbeddingServiceError{Message: "embed failed", Cause: err}
	}
	if len(vec) == 0 {
		return nil, &EmbeddingServiceError{Message: "empty embedding"}
	}

	m.cache[text] = vec
	return vec, nil
}

// similarity is 0 when either side has no text; nothing is embedded then.
func (m *memoEmbedder) similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}

	va, err := m.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := m.embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(va, vb)
}

// CosineSimilarity L2-normalizes both vectors before the dot product. A zero
// vector has similarity 0 with anything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &EmbeddingServiceError{Message: fmt.Sprintf("dimension mismatch: %d vs %d", len(a), len(b))}
	}

	var dotAB, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotAB += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dotAB / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
