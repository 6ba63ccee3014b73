package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-checker/internal/parser"
)

func defaultHardMatchConfig() HardMatchConfig {
	return HardMatchConfig{
		FuzzyThreshold:    0.8,
		FuzzyCreditFactor: 0.8,
		KeywordTopN:       20,
		SkillWeight:       0.40,
		KeywordWeight:     0.30,
		EducationWeight:   0.15,
		ExperienceWeight:  0.15,
	}
}

func newTestHardMatcher() *hardMatchAnalyzer {
	return &hardMatchAnalyzer{cfg: defaultHardMatchConfig()}
}

func TestMatchSkills_Scenario(t *testing.T) {
	m := newTestHardMatcher().MatchSkills(
		[]string{"Python", "Django"},
		parser.SkillSet{Required: []string{"python", "aws"}, Preferred: []string{"docker"}},
	)

	assert.Equal(t, []string{"python"}, m.MatchedRequired)
	assert.Empty(t, m.FuzzyMatchedRequired)
	assert.Equal(t, []string{"aws"}, m.MissingRequired)
	assert.Equal(t, []string{"docker"}, m.MissingPreferred)
	assert.InDelta(t, 50.0, m.SkillMatchScore, 1e-9)
	assert.InDelta(t, 50.0, m.ExactMatchScore, 1e-9)
}

func TestMatchSkills_ZeroRequiredScoresZero(t *testing.T) {
	m := newTestHardMatcher().MatchSkills(
		[]string{"Python"},
		parser.SkillSet{Preferred: []string{"python"}},
	)

	assert.Zero(t, m.SkillMatchScore)
	assert.Equal(t, []string{"python"}, m.MatchedPreferred)
}

func TestMatchSkills_Fuzzy(t *testing.T) {
	m := newTestHardMatcher().MatchSkills(
		[]string{"Postgres", "kubernete", "kubernetess"},
		parser.SkillSet{Required: []string{"PostgreSQL", "Kubernetes"}},
	)

	require.Len(t, m.FuzzyMatchedRequired, 2)
	assert.Equal(t, FuzzyMatch{JobSkill: "postgresql", ResumeSkill: "postgres", Similarity: 89}, m.FuzzyMatchedRequired[0])
	assert.Equal(t, "kubernetess", m.FuzzyMatchedRequired[1].ResumeSkill, "best ratio wins")
	assert.Empty(t, m.MissingRequired)
	assert.InDelta(t, 80.0, m.SkillMatchScore, 1e-9)
	assert.InDelta(t, 80.0, m.FuzzyMatchScore, 1e-9)
}

func TestMatchSkills_Partition(t *testing.T) {
	required := []string{"Go", "go", "Kafka", "Postgresql", "Terraform", "aws"}
	m := newTestHardMatcher().MatchSkills(
		[]string{"GO", "postgres", "AWS", "Docker"},
		parser.SkillSet{Required: required},
	)

	var all []string
	all = append(all, m.MatchedRequired...)
	for _, f := range m.FuzzyMatchedRequired {
		all = append(all, f.JobSkill)
	}
	all = append(all, m.MissingRequired...)

	assert.ElementsMatch(t, []string{"go", "kafka", "postgresql", "terraform", "aws"}, all)
	assert.Len(t, all, 5, "categories are disjoint")
}

func TestSimilarityRatio(t *testing.T) {
	assert.InDelta(t, 1.0, SimilarityRatio("python", "python"), 1e-9)
	assert.InDelta(t, 16.0/18.0, SimilarityRatio("postgresql", "postgres"), 1e-9)
	assert.Less(t, SimilarityRatio("aws", "django"), 0.8)
}

func TestMatchKeywords(t *testing.T) {
	a := newTestHardMatcher()

	t.Run("identical text", func(t *testing.T) {
		m := a.MatchKeywords("Distributed databases and Kubernetes", "Distributed databases and Kubernetes")
		assert.InDelta(t, 100.0, m.KeywordMatchScore, 1e-6)
		assert.ElementsMatch(t, []string{"databases", "distributed", "kubernetes"}, m.MatchedKeywords)
		assert.Empty(t, m.MissingKeywords)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Zero(t, a.MatchKeywords("", "anything").KeywordMatchScore)
		assert.Zero(t, a.MatchKeywords("anything", "   ").KeywordMatchScore)
	})

	t.Run("only stop words", func(t *testing.T) {
		m := a.MatchKeywords("the and of", "a an the")
		assert.Zero(t, m.KeywordMatchScore)
		assert.Empty(t, m.MatchedKeywords)
	})

	t.Run("partial overlap lists missing job terms", func(t *testing.T) {
		m := a.MatchKeywords("apple banana", "apple cherry")
		assert.InDelta(t, 100.0/2.975332, m.KeywordMatchScore, 1e-3)
		assert.Equal(t, []string{"apple"}, m.MatchedKeywords)
		assert.Equal(t, []string{"cherry"}, m.MissingKeywords)
	})
}

func TestMatchEducation(t *testing.T) {
	degrees := &parser.ResumeProfile{Education: []parser.Education{
		{Degree: "Diploma in Networking", Level: 1},
		{Degree: "Bachelor of Science in Computer Science", Level: 2},
	}}

	m := MatchEducation(degrees, nil)
	assert.Equal(t, 100.0, m.EducationMatchScore)
	assert.Equal(t, 2, m.ResumeEducationLevel)

	m = MatchEducation(degrees, []string{"bachelor"})
	assert.Equal(t, 100.0, m.EducationMatchScore)
	assert.Equal(t, []string{"bachelor"}, m.MatchedDegrees)

	m = MatchEducation(degrees, []string{"Master's degree in Statistics", "Bachelor of Science"})
	assert.Equal(t, 50.0, m.EducationMatchScore)
	assert.Equal(t, []string{"Master's degree in Statistics"}, m.MissingDegrees)
	assert.Equal(t, 3, m.RequiredEducationLevel)

	m = MatchEducation(&parser.ResumeProfile{}, []string{"PhD"})
	assert.Zero(t, m.EducationMatchScore)
	assert.Zero(t, m.ResumeEducationLevel)
}

func TestMatchExperience(t *testing.T) {
	tests := []struct {
		name     string
		resume   float64
		required int
		expected float64
	}{
		{"no requirement", 0, 0, 100},
		{"short of requirement", 3, 5, 60},
		{"meets requirement", 5, 5, 100},
		{"exceeds requirement", 8.5, 5, 100},
		{"no experience", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchExperience(tt.resume, tt.required)
			assert.InDelta(t, tt.expected, m.ExperienceMatchScore, 1e-9)
		})
	}
}

func TestHardMatchAnalyzer_Analyze(t *testing.T) {
	resume := &parser.ResumeProfile{
		Skills: []string{"Python", "Django"},
		Experience: []parser.Experience{
			{Title: "Engineer", DurationYears: 1.5},
			{Title: "Intern", DurationYears: 1.5},
		},
	}
	jd := &parser.JobDescription{
		Skills:        parser.SkillSet{Required: []string{"python", "aws"}, Preferred: []string{"docker"}},
		RequiredYears: 5,
	}

	result := NewHardMatchAnalyzer(defaultHardMatchConfig()).Analyze(resume, jd)

	assert.InDelta(t, 50.0, result.SkillMatch.SkillMatchScore, 1e-9)
	assert.Zero(t, result.KeywordMatch.KeywordMatchScore)
	assert.Equal(t, 100.0, result.EducationMatch.EducationMatchScore)
	assert.InDelta(t, 60.0, result.ExperienceMatch.ExperienceMatchScore, 1e-9)
	// 0.40*50 + 0.30*0 + 0.15*100 + 0.15*60
	assert.InDelta(t, 44.0, result.OverallHardMatchScore, 1e-9)
}
