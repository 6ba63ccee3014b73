package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Education struct {
	Degree string `json:"degree"`
	Level  int    `json:"level"`
}

type Experience struct {
	Title         string  `json:"title"`
	Start         string  `json:"start,omitempty"`
	End           string  `json:"end,omitempty"`
	DurationYears float64 `json:"duration_years"`
}

type ResumeProfile struct {
	ParsedDocument
	Skills     []string     `json:"skills"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
}

// TotalYears sums every experience entry. Overlapping roles are counted twice.
func (r *ResumeProfile) TotalYears() float64 {
	total := 0.0
	for _, e := range r.Experience {
		total += e.DurationYears
	}
	return total
}

// HighestEducationLevel returns 0 when no degree was found.
func (r *ResumeProfile) HighestEducationLevel() int {
	level := 0
	for _, e := range r.Education {
		level = max(level, e.Level)
	}
	return level
}

var degreeLevels = []struct {
	name    string
	level   int
	pattern *regexp.Regexp
}{
	{"phd", 4, regexp.MustCompile(`(?i)\b(ph\.?\s?d|doctorate|doctor of)`)},
	{"master", 3, regexp.MustCompile(`(?i)\b(master|m\.?sc?\b|mba\b|m\.?tech\b|m\.?eng\b)`)},
	{"bachelor", 2, regexp.MustCompile(`(?i)\b(bachelor|b\.?sc?\b|b\.?a\b|b\.?tech\b|b\.?eng\b|undergraduate degree)`)},
	{"associate", 1, regexp.MustCompile(`(?i)\b(associate|diploma)`)},
}

// DegreeLevel classifies free text by the highest degree it names.
func DegreeLevel(text string) (string, int) {
	for _, d := range degreeLevels {
		if d.pattern.MatchString(text) {
			return d.name, d.level
		}
	}
	return "", 0
}

var (
	skillSeparator = regexp.MustCompile(`[,;|•·]`)

	dateRangePattern = regexp.MustCompile(
		`(?i)(?:([a-z]{3,9})\.?\s+|(\d{1,2})/)?(\d{4})\s*(?:-|–|—|to)\s*(?:(?:([a-z]{3,9})\.?\s+|(\d{1,2})/)?(\d{4})|(present|current|now))`)

	experienceClaimPattern = regexp.MustCompile(
		`(?i)(\d+(?:\.\d+)?)\+?\s*(?:years?|yrs?)\s+(?:of\s+)?(?:professional\s+|work\s+|industry\s+)?experience`)

	months = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

type ResumeParser interface {
	Parse(text string) *ResumeProfile
}

type ResumeOption func(*resumeParser)

// WithClock pins the time used to resolve "Present" end dates.
func WithClock(now func() time.Time) ResumeOption {
	return func(p *resumeParser) {
		p.now = now
	}
}

type resumeParser struct {
	maxHeaderLen int
	now          func() time.Time
}

func NewResumeParser(maxHeaderLen int, options ...ResumeOption) ResumeParser {
	p := &resumeParser{
		maxHeaderLen: maxHeaderLen,
		now:          time.Now,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Parse implements ResumeParser.
func (p *resumeParser) Parse(text string) *ResumeProfile {
	profile := &ResumeProfile{
		ParsedDocument: ParsedDocument{
			RawText:  text,
			Sections: Segment(text, ResumeSectionLabels, p.maxHeaderLen, DefaultResumeSection),
		},
	}

	profile.Skills = extractResumeSkills(&profile.ParsedDocument)
	profile.Education = extractEducation(&profile.ParsedDocument)
	profile.Experience = p.extractExperience(&profile.ParsedDocument)

	return profile
}

func extractResumeSkills(doc *ParsedDocument) []string {
	skills := []string{}
	seen := make(map[string]bool)

	for _, section := range doc.Sections {
		if !strings.Contains(section.Label, "SKILLS") {
			continue
		}

		for _, line := range strings.Split(section.Content, "\n") {
			if rest, ok := cutBullet(strings.TrimSpace(line)); ok {
				line = rest
			}
			// "Backend: Go, Python" drops the category prefix.
			if _, after, found := strings.Cut(line, ":"); found {
				line = after
			}

			for _, item := range skillSeparator.Split(line, -1) {
				item = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(item), "."))
				key := strings.ToLower(item)
				if item == "" || seen[key] {
					continue
				}
				seen[key] = true
				skills = append(skills, item)
			}
		}
	}

	return skills
}

func extractEducation(doc *ParsedDocument) []Education {
	education := []Education{}

	content, ok := doc.Section("EDUCATION")
	if !ok {
		return education
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if _, level := DegreeLevel(line); level > 0 {
			education = append(education, Education{Degree: line, Level: level})
		}
	}
	return education
}

func (p *resumeParser) extractExperience(doc *ParsedDocument) []Experience {
	experience := []Experience{}

	var lines []string
	for _, label := range []string{"EXPERIENCE", "EMPLOYMENT"} {
		if content, ok := doc.Section(label); ok && content != "" {
			lines = append(lines, strings.Split(content, "\n")...)
		}
	}

	now := p.now()
	for i, line := range lines {
		for _, m := range dateRangePattern.FindAllStringSubmatchIndex(line, -1) {
			entry, ok := buildExperience(line, m, now)
			if !ok {
				continue
			}
			if entry.Title == "" && i > 0 {
				entry.Title = strings.TrimSpace(lines[i-1])
			}
			experience = append(experience, entry)
		}
	}

	if len(experience) > 0 {
		return experience
	}

	if m := experienceClaimPattern.FindStringSubmatch(doc.RawText); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil && years > 0 {
			experience = append(experience, Experience{
				Title:         strings.TrimSpace(m[0]),
				DurationYears: years,
			})
		}
	}

	return experience
}

func buildExperience(line string, loc []int, now time.Time) (Experience, bool) {
	group := func(n int) string {
		if loc[2*n] < 0 {
			return ""
		}
		return line[loc[2*n]:loc[2*n+1]]
	}

	startYear, _ := strconv.Atoi(group(3))
	startMonth := monthOf(group(1), group(2))

	var endYear, endMonth int
	end := ""
	if group(7) != "" {
		endYear, endMonth = now.Year(), int(now.Month())
		end = "present"
	} else {
		endYear, _ = strconv.Atoi(group(6))
		endMonth = monthOf(group(4), group(5))
	}

	span := (endYear*12 + endMonth) - (startYear*12 + startMonth)
	if span < 0 || startYear < 1950 {
		return Experience{}, false
	}

	if end == "" {
		end = fmt.Sprintf("%04d-%02d", endYear, endMonth)
	}

	title := strings.Trim(line[:loc[0]]+" "+line[loc[1]:], " \t|,-–—()")
	return Experience{
		Title:         strings.TrimSpace(title),
		Start:         fmt.Sprintf("%04d-%02d", startYear, startMonth),
		End:           end,
		DurationYears: math.Round(float64(span)/12*10) / 10,
	}, true
}

// monthOf falls back to January when the month is absent or unrecognized.
func monthOf(name, number string) int {
	if number != "" {
		if n, err := strconv.Atoi(number); err == nil && n >= 1 && n <= 12 {
			return n
		}
	}
	if len(name) >= 3 {
		if n, ok := months[strings.ToLower(name[:3])]; ok {
			return n
		}
	}
	return 1
}
