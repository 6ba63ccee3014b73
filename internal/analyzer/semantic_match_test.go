package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-checker/internal/parser"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   map[string]int
	err     error
}

func newFakeEmbedder(vectors map[string][]float32) *fakeEmbedder {
	return &fakeEmbedder{vectors: vectors, calls: make(map[string]int)}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls[text]++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

func semanticConfig() SemanticMatchConfig {
	return SemanticMatchConfig{OverallWeight: 0.6, SectionWeight: 0.4}
}

func resumeWith(raw string, sections ...parser.Section) *parser.ResumeProfile {
	return &parser.ResumeProfile{ParsedDocument: parser.ParsedDocument{RawText: raw, Sections: sections}}
}

func jobWith(raw string, sections ...parser.Section) *parser.JobDescription {
	return &parser.JobDescription{ParsedDocument: parser.ParsedDocument{RawText: raw, Sections: sections}}
}

func TestSemanticMatchAnalyzer_Analyze(t *testing.T) {
	embedder := newFakeEmbedder(map[string][]float32{
		"built apis": {1, 0},
		"build apis": {0, 1},
		"go":         {3, 0},
	})

	resume := resumeWith("resume text",
		parser.Section{Label: "UNKNOWN"},
		parser.Section{Label: "EXPERIENCE", Content: "built apis"},
		parser.Section{Label: "SKILLS", Content: "go"},
		parser.Section{Label: "EDUCATION", Content: ""},
	)
	jd := jobWith("job text",
		parser.Section{Label: "DESCRIPTION"},
		parser.Section{Label: "RESPONSIBILITIES", Content: "build apis"},
		parser.Section{Label: "REQUIREMENTS", Content: "go"},
		parser.Section{Label: "SKILLS", Content: ""},
		parser.Section{Label: "EDUCATION", Content: "BSc"},
	)

	result, err := NewSemanticMatchAnalyzer(embedder, semanticConfig()).Analyze(context.Background(), resume, jd)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.OverallSimilarity, 1e-9)
	require.Len(t, result.SectionSimilarities, 2)
	assert.Equal(t, "EXPERIENCE-RESPONSIBILITIES", result.SectionSimilarities[0].Key())
	assert.InDelta(t, 0.0, result.SectionSimilarities[0].Similarity, 1e-9)
	assert.Equal(t, "SKILLS-REQUIREMENTS", result.SectionSimilarities[1].Key())
	assert.InDelta(t, 1.0, result.SectionSimilarities[1].Similarity, 1e-9)

	// (0.6*1 + 0.4*0.5) * 100
	assert.InDelta(t, 80.0, result.SemanticMatchScore, 1e-9)
	assert.Equal(t, 1, embedder.calls["go"], "identical texts are embedded once")
	assert.Zero(t, embedder.calls["BSc"], "empty resume education skips the pairing")
}

func TestSemanticMatchAnalyzer_NoSectionPairs(t *testing.T) {
	embedder := newFakeEmbedder(map[string][]float32{
		"resume": {1, 1},
		"job":    {1, 0},
	})

	result, err := NewSemanticMatchAnalyzer(embedder, semanticConfig()).
		Analyze(context.Background(), resumeWith("resume"), jobWith("job"))
	require.NoError(t, err)

	assert.Empty(t, result.SectionSimilarities)
	assert.InDelta(t, 70.7106781, result.SemanticMatchScore, 1e-6)
}

func TestSemanticMatchAnalyzer_EmptyResume(t *testing.T) {
	embedder := newFakeEmbedder(nil)
	embedder.err = errors.New("provider rejects empty input")

	result, err := NewSemanticMatchAnalyzer(embedder, semanticConfig()).
		Analyze(context.Background(), resumeWith(""), jobWith("job", parser.Section{Label: "REQUIREMENTS", Content: "go"}))
	require.NoError(t, err)

	assert.Zero(t, result.OverallSimilarity)
	assert.Zero(t, result.SemanticMatchScore)
	assert.Empty(t, embedder.calls)
}

func TestSemanticMatchAnalyzer_EmbeddingFailure(t *testing.T) {
	embedder := newFakeEmbedder(nil)
	embedder.err = errors.New("connection reset")

	_, err := NewSemanticMatchAnalyzer(embedder, semanticConfig()).
		Analyze(context.Background(), resumeWith("r"), jobWith("j"))

	var svcErr *EmbeddingServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorContains(t, err, "connection reset")
}

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	sim, err := CosineSimilarity(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.Zero(t, sim)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 0})
	assert.Error(t, err)
}

func TestSectionSimilaritiesJSON(t *testing.T) {
	sims := SectionSimilarities{
		{ResumeSection: "SKILLS", JobSection: "WHAT YOU'LL NEED", Similarity: 0.5},
		{ResumeSection: "EXPERIENCE", JobSection: "RESPONSIBILITIES", Similarity: 0.25},
	}

	data, err := json.Marshal(sims)
	require.NoError(t, err)
	assert.JSONEq(t, `{"SKILLS-WHAT YOU'LL NEED":0.5,"EXPERIENCE-RESPONSIBILITIES":0.25}`, string(data))
	assert.Equal(t, `{"SKILLS-WHAT YOU'LL NEED":0.5,"EXPERIENCE-RESPONSIBILITIES":0.25}`, string(data), "encounter order is kept")

	var decoded SectionSimilarities
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sims, decoded)

	empty, err := json.Marshal(SectionSimilarities{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestSectionSimilaritiesLowest(t *testing.T) {
	sims := SectionSimilarities{
		{ResumeSection: "EXPERIENCE", JobSection: "RESPONSIBILITIES", Similarity: 0.4},
		{ResumeSection: "SKILLS", JobSection: "REQUIREMENTS", Similarity: 0.4},
		{ResumeSection: "EDUCATION", JobSection: "EDUCATION", Similarity: 0.9},
	}

	lowest, ok := sims.Lowest()
	require.True(t, ok)
	assert.Equal(t, "EXPERIENCE", lowest.ResumeSection, "first minimum wins")

	_, ok = SectionSimilarities{}.Lowest()
	assert.False(t, ok)
}
