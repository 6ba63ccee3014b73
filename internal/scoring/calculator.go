package scoring

import (
	"math"
	"strconv"
	"strings"

	"alfredoptarigan/resume-checker/internal/analyzer"
)

type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

type Config struct {
	HardWeight       float64
	SemanticWeight   float64
	HighThreshold    float64
	MediumThreshold  float64
	SectionThreshold float64
}

type MissingSkills struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

type MissingEducation struct {
	Required string `json:"required"`
	Current  string `json:"current"`
}

type MissingExperience struct {
	RequiredYears int     `json:"required_years"`
	CurrentYears  float64 `json:"current_years"`
}

// MissingElements lists the gaps between the resume and the job. Education and
// Experience are nil when the resume already satisfies them.
type MissingElements struct {
	Skills     MissingSkills      `json:"skills"`
	Keywords   []string           `json:"keywords"`
	Education  *MissingEducation  `json:"education"`
	Experience *MissingExperience `json:"experience"`
}

type Result struct {
	RelevanceScore  float64         `json:"relevance_score"`
	Verdict         Verdict         `json:"verdict"`
	MissingElements MissingElements `json:"missing_elements"`
	Suggestions     []string        `json:"suggestions"`
}

type Calculator interface {
	Calculate(hard *analyzer.HardMatchResult, semantic *analyzer.SemanticMatchResult) *Result
}

type calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	return &calculator{cfg: cfg}
}

func (c *calculator) Calculate(hard *analyzer.HardMatchResult, semantic *analyzer.SemanticMatchResult) *Result {
	score := c.cfg.HardWeight*hard.OverallHardMatchScore + c.cfg.SemanticWeight*semantic.SemanticMatchScore
	score = round2(score)

	missing := IdentifyMissing(hard)
	return &Result{
		RelevanceScore:  score,
		Verdict:         c.Verdict(score),
		MissingElements: missing,
		Suggestions:     Suggest(missing, semantic.SectionSimilarities, c.cfg.SectionThreshold),
	}
}

// Verdict is a step function of the rounded score.
func (c *calculator) Verdict(score float64) Verdict {
	switch {
	case score >= c.cfg.HighThreshold:
		return VerdictHigh
	case score >= c.cfg.MediumThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

func IdentifyMissing(hard *analyzer.HardMatchResult) MissingElements {
	m := MissingElements{
		Skills: MissingSkills{
			Required:  nonNil(hard.SkillMatch.MissingRequired),
			Preferred: nonNil(hard.SkillMatch.MissingPreferred),
		},
		Keywords: nonNil(hard.KeywordMatch.MissingKeywords),
	}

	if edu := hard.EducationMatch; edu.EducationMatchScore < 100 {
		m.Education = &MissingEducation{
			Required: strings.Join(edu.Requirements, ", "),
			Current:  "Level " + strconv.Itoa(edu.ResumeEducationLevel),
		}
	}

	if exp := hard.ExperienceMatch; exp.ExperienceMatchScore < 100 {
		m.Experience = &MissingExperience{
			RequiredYears: exp.RequiredYears,
			CurrentYears:  exp.ResumeYears,
		}
	}

	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
