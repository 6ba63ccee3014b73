package parser

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const UntitledPosition = "Untitled Position"

type SkillSet struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

type RoleInfo struct {
	Title           *string `json:"title"`
	ExperienceLevel *string `json:"experience_level"`
	Education       *string `json:"education"`
	Location        *string `json:"location"`
}

type JobDescription struct {
	ParsedDocument
	Title                  string   `json:"title"`
	Skills                 SkillSet `json:"skills"`
	RoleInfo               RoleInfo `json:"role_info"`
	EducationRequirements  []string `json:"education_requirements"`
	ExperienceRequirements []string `json:"experience_requirements"`
	RequiredYears          int      `json:"required_years"`
}

// skillSpan is an introductory phrase and the phrase that ends its capture.
// A nil until captures to the end of the text.
type skillSpan struct {
	intro *regexp.Regexp
	until *regexp.Regexp
}

var (
	requiredSpans = []skillSpan{
		{regexp.MustCompile(`(?i)required skills[:\s]*`), regexp.MustCompile(`(?i)preferred skills`)},
		{regexp.MustCompile(`(?i)requirements[:\s]*`), regexp.MustCompile(`(?i)preferred`)},
		{regexp.MustCompile(`(?i)qualifications[:\s]*`), regexp.MustCompile(`(?i)preferred`)},
		{regexp.MustCompile(`(?i)must have[:\s]*`), regexp.MustCompile(`(?i)nice to have`)},
		{regexp.MustCompile(`(?i)essential[:\s]*`), regexp.MustCompile(`(?i)desirable`)},
	}

	preferredSpans = []skillSpan{
		{intro: regexp.MustCompile(`(?i)preferred skills[:\s]*`)},
		{intro: regexp.MustCompile(`(?i)nice to have[:\s]*`)},
		{intro: regexp.MustCompile(`(?i)desirable[:\s]*`)},
		{intro: regexp.MustCompile(`(?i)bonus[:\s]*`)},
	}

	itemSeparator = regexp.MustCompile(`[.\n]`)

	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)job title[:\s]*([^\n]*)`),
		regexp.MustCompile(`(?i)position[:\s]*([^\n]*)`),
		regexp.MustCompile(`(?i)role[:\s]*([^\n]*)`),
	}
	experienceLevelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)[+\s]*years? of experience`),
		regexp.MustCompile(`(?i)experience[:\s]*(\d+)[+\s]*years`),
		regexp.MustCompile(`(?i)(\d+)[+\s]*years? exp`),
	}
	// Education keeps the whole match rather than a capture group.
	educationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(bachelor'?s|master'?s|phd|doctorate|degree)[^\n]*`),
		regexp.MustCompile(`(?i)education[:\s]*([^\n]*degree[^\n]*)`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)location[:\s]*([^\n]*)`),
		regexp.MustCompile(`(?i)based in[:\s]*([^\n]*)`),
		regexp.MustCompile(`(?i)position is in[:\s]*([^\n]*)`),
	}

	yearsPattern = regexp.MustCompile(`(\d+)\+?\s*(?:year|yr)`)
)

// requirementSections are scanned line by line for "N years" statements.
var requirementSections = []string{
	"REQUIREMENTS", "QUALIFICATIONS", "EXPERIENCE", "WHAT YOU'LL NEED", "WHO YOU ARE",
}

type JobDescriptionParser interface {
	Parse(text, title string) *JobDescription
}

type jobDescriptionParser struct {
	maxHeaderLen int
}

func NewJobDescriptionParser(maxHeaderLen int) JobDescriptionParser {
	return &jobDescriptionParser{maxHeaderLen: maxHeaderLen}
}

// Parse implements JobDescriptionParser. An explicit title wins over the one
// found in the text.
func (p *jobDescriptionParser) Parse(text, title string) *JobDescription {
	jd := &JobDescription{
		ParsedDocument: ParsedDocument{
			RawText:  text,
			Sections: Segment(text, JobSectionLabels, p.maxHeaderLen, DefaultJobSection),
		},
		Skills:   ExtractSkills(text),
		RoleInfo: ExtractRoleInfo(text),
	}

	jd.Title = strings.TrimSpace(title)
	if jd.Title == "" && jd.RoleInfo.Title != nil {
		jd.Title = *jd.RoleInfo.Title
	}
	if jd.Title == "" {
		jd.Title = UntitledPosition
	}

	jd.EducationRequirements = []string{}
	if jd.RoleInfo.Education != nil && *jd.RoleInfo.Education != "" {
		jd.EducationRequirements = append(jd.EducationRequirements, *jd.RoleInfo.Education)
	}

	jd.ExperienceRequirements = p.experienceRequirements(jd)
	jd.RequiredYears = RequiredYears(jd.ExperienceRequirements)

	return jd
}

func (p *jobDescriptionParser) experienceRequirements(jd *JobDescription) []string {
	var lines []string
	lines = append(lines, jd.Skills.Required...)

	for _, label := range requirementSections {
		content, ok := jd.Section(label)
		if !ok || content == "" {
			continue
		}
		lines = append(lines, strings.Split(content, "\n")...)
	}

	if jd.RoleInfo.ExperienceLevel != nil {
		lines = append(lines, *jd.RoleInfo.ExperienceLevel+" years")
	}

	var out []string
	for _, line := range lines {
		if yearsPattern.MatchString(strings.ToLower(line)) {
			out = append(out, line)
		}
	}
	return out
}

// RequiredYears returns the largest "N years" figure across lines, taking the
// first figure of each line.
func RequiredYears(lines []string) int {
	required := 0
	for _, line := range lines {
		m := yearsPattern.FindStringSubmatch(strings.ToLower(line))
		if m == nil {
			continue
		}
		if years, err := strconv.Atoi(m[1]); err == nil && years > required {
			required = years
		}
	}
	return required
}

// ExtractSkills collects required and preferred skill items. Every intro
// phrase present in the text contributes.
func ExtractSkills(text string) SkillSet {
	return SkillSet{
		Required:  collectSpans(text, requiredSpans),
		Preferred: collectSpans(text, preferredSpans),
	}
}

func collectSpans(text string, spans []skillSpan) []string {
	items := []string{}
	for _, s := range spans {
		loc := s.intro.FindStringIndex(text)
		if loc == nil {
			continue
		}

		span := text[loc[1]:]
		if s.until != nil {
			if end := s.until.FindStringIndex(span); end != nil {
				span = span[:end[0]]
			}
		}
		items = append(items, SplitItems(span)...)
	}

	slices.Sort(items)
	return slices.Compact(items)
}

// SplitItems splits a captured span into list items. Bulleted lines win;
// otherwise the span is split on periods and newlines.
func SplitItems(span string) []string {
	span = strings.TrimSpace(span)

	var (
		items    []string
		current  []string
		bulleted bool
	)
	flush := func() {
		if item := strings.TrimSpace(strings.Join(current, " ")); item != "" {
			items = append(items, item)
		}
		current = nil
	}

	for _, raw := range strings.Split(span, "\n") {
		line := strings.TrimSpace(raw)
		if rest, ok := cutBullet(line); ok {
			flush()
			bulleted = true
			current = []string{rest}
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if current != nil {
			current = append(current, line)
		}
	}
	flush()

	if bulleted {
		return items
	}

	items = items[:0]
	for _, part := range itemSeparator.Split(span, -1) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func cutBullet(line string) (string, bool) {
	for _, marker := range []string{"•", "-", "*"} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func ExtractRoleInfo(text string) RoleInfo {
	return RoleInfo{
		Title:           firstMatch(text, titlePatterns, 1),
		ExperienceLevel: firstMatch(text, experienceLevelPatterns, 1),
		Education:       firstMatch(text, educationPatterns, 0),
		Location:        firstMatch(text, locationPatterns, 1),
	}
}

func firstMatch(text string, patterns []*regexp.Regexp, group int) *string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[group])
			return &v
		}
	}
	return nil
}
