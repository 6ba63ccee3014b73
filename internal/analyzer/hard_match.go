package analyzer

import (
	"math"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"alfredoptarigan/resume-checker/internal/parser"
)

type FuzzyMatch struct {
	JobSkill    string `json:"job_skill"`
	ResumeSkill string `json:"resume_skill"`
	Similarity  int    `json:"similarity"`
}

type SkillMatch struct {
	MatchedRequired       []string     `json:"matched_required"`
	FuzzyMatchedRequired  []FuzzyMatch `json:"fuzzy_matched_required"`
	MissingRequired       []string     `json:"missing_required"`
	MatchedPreferred      []string     `json:"matched_preferred"`
	FuzzyMatchedPreferred []FuzzyMatch `json:"fuzzy_matched_preferred"`
	MissingPreferred      []string     `json:"missing_preferred"`
	ExactMatchScore       float64      `json:"exact_match_score"`
	FuzzyMatchScore       float64      `json:"fuzzy_match_score"`
	SkillMatchScore       float64      `json:"skill_match_score"`
}

type KeywordMatch struct {
	MatchedKeywords   []string `json:"matched_keywords"`
	MissingKeywords   []string `json:"missing_keywords"`
	KeywordMatchScore float64  `json:"keyword_match_score"`
}

type EducationMatch struct {
	Requirements           []string `json:"requirements"`
	MatchedDegrees         []string `json:"matched_degrees"`
	MissingDegrees         []string `json:"missing_degrees"`
	ResumeEducationLevel   int      `json:"resume_education_level"`
	RequiredEducationLevel int      `json:"required_education_level"`
	EducationMatchScore    float64  `json:"education_match_score"`
}

type ExperienceMatch struct {
	ResumeYears          float64 `json:"resume_years"`
	RequiredYears        int     `json:"required_years"`
	ExperienceMatchScore float64 `json:"experience_match_score"`
}

type HardMatchResult struct {
	SkillMatch            SkillMatch      `json:"skill_match"`
	KeywordMatch          KeywordMatch    `json:"keyword_match"`
	EducationMatch        EducationMatch  `json:"education_match"`
	ExperienceMatch       ExperienceMatch `json:"experience_match"`
	OverallHardMatchScore float64         `json:"overall_hard_match_score"`
}

type HardMatchConfig struct {
	FuzzyThreshold    float64
	FuzzyCreditFactor float64
	KeywordTopN       int

	SkillWeight      float64
	KeywordWeight    float64
	EducationWeight  float64
	ExperienceWeight float64
}

type HardMatchAnalyzer interface {
	Analyze(resume *parser.ResumeProfile, jd *parser.JobDescription) *HardMatchResult
}

type hardMatchAnalyzer struct {
	cfg HardMatchConfig
}

func NewHardMatchAnalyzer(cfg HardMatchConfig) HardMatchAnalyzer {
	return &hardMatchAnalyzer{cfg: cfg}
}

// Analyze implements HardMatchAnalyzer.
func (a *hardMatchAnalyzer) Analyze(resume *parser.ResumeProfile, jd *parser.JobDescription) *HardMatchResult {
	result := &HardMatchResult{
		SkillMatch:      a.MatchSkills(resume.Skills, jd.Skills),
		KeywordMatch:    a.MatchKeywords(resume.RawText, jd.RawText),
		EducationMatch:  MatchEducation(resume, jd.EducationRequirements),
		ExperienceMatch: MatchExperience(resume.TotalYears(), jd.RequiredYears),
	}

	result.OverallHardMatchScore = clamp(
		a.cfg.SkillWeight*result.SkillMatch.SkillMatchScore +
			a.cfg.KeywordWeight*result.KeywordMatch.KeywordMatchScore +
			a.cfg.EducationWeight*result.EducationMatch.EducationMatchScore +
			a.cfg.ExperienceWeight*result.ExperienceMatch.ExperienceMatchScore,
	)

	return result
}

// MatchSkills scores required skills only; preferred skills are reported
// with the same matching rules but do not move the score. No required skills
// scores 0.
func (a *hardMatchAnalyzer) MatchSkills(resumeSkills []string, jobSkills parser.SkillSet) SkillMatch {
	resumeLower := lowerUnique(resumeSkills)

	var m SkillMatch
	m.MatchedRequired, m.FuzzyMatchedRequired, m.MissingRequired = a.partition(lowerUnique(jobSkills.Required), resumeLower)
	m.MatchedPreferred, m.FuzzyMatchedPreferred, m.MissingPreferred = a.partition(lowerUnique(jobSkills.Preferred), resumeLower)

	total := len(m.MatchedRequired) + len(m.FuzzyMatchedRequired) + len(m.MissingRequired)
	if total == 0 {
		return m
	}

	exact := float64(len(m.MatchedRequired))
	fuzzy := float64(len(m.FuzzyMatchedRequired))
	m.ExactMatchScore = clamp(exact / float64(total) * 100)
	m.FuzzyMatchScore = clamp(fuzzy / float64(total) * 100 * a.cfg.FuzzyCreditFactor)
	m.SkillMatchScore = clamp((exact + fuzzy*a.cfg.FuzzyCreditFactor) / float64(total) * 100)
	return m
}

func (a *hardMatchAnalyzer) partition(jobSkills, resumeSkills []string) ([]string, []FuzzyMatch, []string) {
	exact := []string{}
	fuzzy := []FuzzyMatch{}
	missing := []string{}

	for _, skill := range jobSkills {
		if slices.Contains(resumeSkills, skill) {
			exact = append(exact, skill)
			continue
		}

		best, bestRatio := "", 0.0
		for _, candidate := range resumeSkills {
			ratio := SimilarityRatio(skill, candidate)
			if ratio > a.cfg.FuzzyThreshold && ratio > bestRatio {
				best, bestRatio = candidate, ratio
			}
		}

		if best == "" {
			missing = append(missing, skill)
			continue
		}
		fuzzy = append(fuzzy, FuzzyMatch{
			JobSkill:    skill,
			ResumeSkill: best,
			Similarity:  int(math.Round(bestRatio * 100)),
		})
	}

	return exact, fuzzy, missing
}

// SimilarityRatio is difflib's SequenceMatcher ratio over characters.
func SimilarityRatio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// MatchKeywords compares the TF-IDF vectors of the two cleaned texts and
// lists the job's heaviest terms by presence in the resume.
func (a *hardMatchAnalyzer) MatchKeywords(resumeText, jobText string) KeywordMatch {
	m := KeywordMatch{MatchedKeywords: []string{}, MissingKeywords: []string{}}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobText) == "" {
		return m
	}

	space, err := FitTransform(CleanText(jobText), CleanText(resumeText))
	if err != nil {
		// Degenerate vocabulary scores zero.
		return m
	}

	m.KeywordMatchScore = clamp(space.Cosine(0, 1) * 100)
	for _, term := range space.TopTerms(0, a.cfg.KeywordTopN) {
		if space.Contains(1, term) {
			m.MatchedKeywords = append(m.MatchedKeywords, term)
		} else {
			m.MissingKeywords = append(m.MissingKeywords, term)
		}
	}
	return m
}

// MatchEducation passes vacuously when the job states no requirement. A
// requirement matches a degree when either contains the other.
func MatchEducation(resume *parser.ResumeProfile, requirements []string) EducationMatch {
	m := EducationMatch{
		Requirements:         requirements,
		MatchedDegrees:       []string{},
		MissingDegrees:       []string{},
		ResumeEducationLevel: resume.HighestEducationLevel(),
	}
	if m.Requirements == nil {
		m.Requirements = []string{}
	}

	for _, req := range requirements {
		_, level := parser.DegreeLevel(req)
		m.RequiredEducationLevel = max(m.RequiredEducationLevel, level)
	}

	if len(requirements) == 0 {
		m.EducationMatchScore = 100
		return m
	}

	for _, req := range requirements {
		reqLower := strings.ToLower(req)
		matched := false
		for _, e := range resume.Education {
			degree := strings.ToLower(e.Degree)
			if degree == "" {
				continue
			}
			if strings.Contains(degree, reqLower) || strings.Contains(reqLower, degree) {
				matched = true
				break
			}
		}

		if matched {
			m.MatchedDegrees = append(m.MatchedDegrees, req)
		} else {
			m.MissingDegrees = append(m.MissingDegrees, req)
		}
	}

	m.EducationMatchScore = clamp(float64(len(m.MatchedDegrees)) / float64(len(requirements)) * 100)
	return m
}

// MatchExperience gives linear partial credit below the required years.
func MatchExperience(resumeYears float64, requiredYears int) ExperienceMatch {
	m := ExperienceMatch{ResumeYears: resumeYears, RequiredYears: requiredYears}

	switch {
	case requiredYears <= 0:
		m.ExperienceMatchScore = 100
	case resumeYears >= float64(requiredYears):
		m.ExperienceMatchScore = 100
	default:
		m.ExperienceMatchScore = clamp(resumeYears / float64(requiredYears) * 100)
	}
	return m
}

// lowerUnique lower-cases and de-duplicates, keeping first occurrences.
func lowerUnique(items []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}
