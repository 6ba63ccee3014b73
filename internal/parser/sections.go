// Package parser turns raw resume and job-description text into labelled
// sections and the structured fields the analyzers consume.
package parser

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultResumeSection = "UNKNOWN"
	DefaultJobSection    = "DESCRIPTION"
)

// ResumeSectionLabels is ordered by priority: the first label contained in a
// header line wins, so "WORK EXPERIENCE" lands under EXPERIENCE.
var ResumeSectionLabels = []string{
	"EDUCATION", "EXPERIENCE", "WORK EXPERIENCE", "EMPLOYMENT",
	"SKILLS", "TECHNICAL SKILLS", "PROJECTS", "PROJECT EXPERIENCE",
	"CERTIFICATIONS", "ACHIEVEMENTS", "PUBLICATIONS", "LANGUAGES",
	"INTERESTS", "SUMMARY", "OBJECTIVE", "PROFILE",
}

var JobSectionLabels = []string{
	"RESPONSIBILITIES", "REQUIREMENTS", "QUALIFICATIONS",
	"SKILLS", "EXPERIENCE", "EDUCATION", "ABOUT THE ROLE",
	"ABOUT THE COMPANY", "BENEFITS", "WHAT YOU'LL DO",
	"WHAT YOU'LL NEED", "WHO YOU ARE",
}

type Section struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

type ParsedDocument struct {
	RawText  string    `json:"raw_text"`
	Sections []Section `json:"sections"`
}

// Section returns the content stored under the exact label.
func (d *ParsedDocument) Section(label string) (string, bool) {
	for _, s := range d.Sections {
		if s.Label == label {
			return s.Content, true
		}
	}
	return "", false
}

// FindSection returns the first section whose label contains fragment,
// ignoring case.
func (d *ParsedDocument) FindSection(fragment string) (Section, bool) {
	fragment = strings.ToUpper(fragment)
	for _, s := range d.Sections {
		if strings.Contains(strings.ToUpper(s.Label), fragment) {
			return s, true
		}
	}
	return Section{}, false
}

func (d *ParsedDocument) Labels() []string {
	labels := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		labels[i] = s.Label
	}
	return labels
}

// Segment folds text line by line into ordered sections. The default section
// always comes first, even when empty. A header seen twice restarts its
// section in place.
func Segment(text string, labels []string, maxHeaderLen int, defaultLabel string) []Section {
	type acc struct {
		label string
		lines []string
	}

	sections := []acc{{label: defaultLabel}}
	index := map[string]int{defaultLabel: 0}
	current := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		label, ok := headerLabel(line, labels, maxHeaderLen)
		if !ok {
			sections[current].lines = append(sections[current].lines, line)
			continue
		}

		i, seen := index[label]
		if !seen {
			i = len(sections)
			index[label] = i
			sections = append(sections, acc{label: label})
		} else {
			sections[i].lines = nil
		}
		current = i
	}

	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = Section{Label: s.label, Content: strings.Join(s.lines, "\n")}
	}
	return out
}

func headerLabel(line string, labels []string, maxHeaderLen int) (string, bool) {
	if utf8.RuneCountInString(line) >= maxHeaderLen {
		return "", false
	}

	upper := strings.ToUpper(line)
	for _, label := range labels {
		if strings.Contains(upper, label) {
			return label, true
		}
	}
	return "", false
}
