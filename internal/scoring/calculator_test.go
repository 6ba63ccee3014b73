package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-checker/internal/analyzer"
)

func defaultConfig() Config {
	return Config{
		HardWeight:       0.6,
		SemanticWeight:   0.4,
		HighThreshold:    75,
		MediumThreshold:  50,
		SectionThreshold: 0.7,
	}
}

func fullMatch() *analyzer.HardMatchResult {
	return &analyzer.HardMatchResult{
		EducationMatch:        analyzer.EducationMatch{EducationMatchScore: 100},
		ExperienceMatch:       analyzer.ExperienceMatch{ExperienceMatchScore: 100},
		OverallHardMatchScore: 100,
	}
}

func TestVerdict(t *testing.T) {
	c := &calculator{cfg: defaultConfig()}

	tests := []struct {
		score    float64
		expected Verdict
	}{
		{100, VerdictHigh},
		{75.0, VerdictHigh},
		{74.99, VerdictMedium},
		{50.0, VerdictMedium},
		{49.99, VerdictLow},
		{0, VerdictLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, c.Verdict(tt.score), "score %v", tt.score)
	}
}

func TestCalculate_WeightsAndRounding(t *testing.T) {
	hard := fullMatch()
	hard.OverallHardMatchScore = 44.444
	semantic := &analyzer.SemanticMatchResult{SemanticMatchScore: 80.123}

	result := NewCalculator(defaultConfig()).Calculate(hard, semantic)

	// 0.6*44.444 + 0.4*80.123 = 58.7156
	assert.Equal(t, 58.72, result.RelevanceScore)
	assert.Equal(t, VerdictMedium, result.Verdict)
}

func TestCalculate_NoGaps(t *testing.T) {
	result := NewCalculator(defaultConfig()).Calculate(fullMatch(), &analyzer.SemanticMatchResult{
		SemanticMatchScore: 100,
		SectionSimilarities: analyzer.SectionSimilarities{
			{ResumeSection: "SKILLS", JobSection: "REQUIREMENTS", Similarity: 0.9},
		},
	})

	assert.Equal(t, 100.0, result.RelevanceScore)
	assert.Equal(t, VerdictHigh, result.Verdict)
	assert.Empty(t, result.Suggestions)
	assert.Nil(t, result.MissingElements.Education)
	assert.Nil(t, result.MissingElements.Experience)

	data, err := json.Marshal(result.MissingElements)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":{"required":[],"preferred":[]},"keywords":[],"education":null,"experience":null}`, string(data))
}

func TestIdentifyMissing(t *testing.T) {
	hard := &analyzer.HardMatchResult{
		SkillMatch: analyzer.SkillMatch{
			MissingRequired:  []string{"aws"},
			MissingPreferred: []string{"docker"},
		},
		KeywordMatch: analyzer.KeywordMatch{MissingKeywords: []string{"cloud"}},
		EducationMatch: analyzer.EducationMatch{
			Requirements:         []string{"Master's degree in Statistics"},
			ResumeEducationLevel: 2,
			EducationMatchScore:  0,
		},
		ExperienceMatch: analyzer.ExperienceMatch{
			ResumeYears:          3,
			RequiredYears:        5,
			ExperienceMatchScore: 60,
		},
	}

	m := IdentifyMissing(hard)

	assert.Equal(t, []string{"aws"}, m.Skills.Required)
	assert.Equal(t, []string{"docker"}, m.Skills.Preferred)
	assert.Equal(t, []string{"cloud"}, m.Keywords)
	require.NotNil(t, m.Education)
	assert.Equal(t, MissingEducation{Required: "Master's degree in Statistics", Current: "Level 2"}, *m.Education)
	require.NotNil(t, m.Experience)
	assert.Equal(t, MissingExperience{RequiredYears: 5, CurrentYears: 3}, *m.Experience)
}

func TestCalculate_SuggestionsInOrder(t *testing.T) {
	hard := &analyzer.HardMatchResult{
		SkillMatch: analyzer.SkillMatch{
			MissingRequired:  []string{"aws", "docker", "go", "kafka", "redis", "rust", "terraform"},
			MissingPreferred: []string{"graphql", "typescript"},
		},
		KeywordMatch: analyzer.KeywordMatch{MissingKeywords: []string{"cloud", "microservices"}},
		EducationMatch: analyzer.EducationMatch{
			Requirements:         []string{"Bachelor's degree in Computer Science"},
			ResumeEducationLevel: 0,
			EducationMatchScore:  0,
		},
		ExperienceMatch: analyzer.ExperienceMatch{
			ResumeYears:          2.5,
			RequiredYears:        5,
			ExperienceMatchScore: 50,
		},
		OverallHardMatchScore: 30,
	}
	semantic := &analyzer.SemanticMatchResult{
		SemanticMatchScore: 40,
		SectionSimilarities: analyzer.SectionSimilarities{
			{ResumeSection: "EXPERIENCE", JobSection: "RESPONSIBILITIES", Similarity: 0.55},
			{ResumeSection: "SKILLS", JobSection: "REQUIREMENTS", Similarity: 0.55},
		},
	}

	result := NewCalculator(defaultConfig()).Calculate(hard, semantic)

	assert.Equal(t, 34.0, result.RelevanceScore)
	assert.Equal(t, VerdictLow, result.Verdict)
	assert.Equal(t, []string{
		"Add the following required skills to your resume: aws, docker, go, kafka, redis and 2 more",
		"Consider adding these preferred skills: graphql, typescript",
		"Include these important keywords: cloud, microservices",
		"The job requires Bachelor's degree in Computer Science. Consider highlighting relevant education or certifications.",
		"The job requires 5 years of experience, but your resume shows 2.5 years. " +
			"Highlight relevant projects or additional experience to bridge this gap.",
		"Your experience section could be better aligned with the job requirements. " +
			"Consider tailoring this section to match the job description more closely.",
	}, result.Suggestions)

	again := NewCalculator(defaultConfig()).Calculate(hard, semantic)
	assert.Equal(t, result, again)
}

func TestSuggest_ExperienceGapNeedsBothFigures(t *testing.T) {
	noYears := MissingElements{Experience: &MissingExperience{RequiredYears: 3, CurrentYears: 0}}
	assert.Empty(t, Suggest(noYears, nil, 0.7))

	// int truncation: 4.5 years against 5 still leaves a gap of 1.
	partial := MissingElements{Experience: &MissingExperience{RequiredYears: 5, CurrentYears: 4.5}}
	assert.Len(t, Suggest(partial, nil, 0.7), 1)
}

func TestSuggest_SectionAboveThreshold(t *testing.T) {
	sections := analyzer.SectionSimilarities{
		{ResumeSection: "EDUCATION", JobSection: "EDUCATION", Similarity: 0.7},
	}
	assert.Empty(t, Suggest(MissingElements{}, sections, 0.7))
}
