package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"alfredoptarigan/resume-checker/internal/analyzer"
)

// Suggest turns the gaps into advice. The order of the returned lines is
// fixed: skills, preferred skills, keywords, education, experience, then the
// weakest section pair.
func Suggest(missing MissingElements, sections analyzer.SectionSimilarities, sectionThreshold float64) []string {
	suggestions := []string{}

	if len(missing.Skills.Required) > 0 {
		suggestions = append(suggestions,
			"Add the following required skills to your resume: "+head(missing.Skills.Required, 5))
	}
	if len(missing.Skills.Preferred) > 0 {
		suggestions = append(suggestions,
			"Consider adding these preferred skills: "+head(missing.Skills.Preferred, 3))
	}
	if len(missing.Keywords) > 0 {
		suggestions = append(suggestions,
			"Include these important keywords: "+head(missing.Keywords, 5))
	}

	if missing.Education != nil {
		suggestions = append(suggestions, fmt.Sprintf(
			"The job requires %s. Consider highlighting relevant education or certifications.",
			missing.Education.Required,
		))
	}

	if exp := missing.Experience; exp != nil && exp.RequiredYears != 0 && exp.CurrentYears != 0 {
		if exp.RequiredYears-int(exp.CurrentYears) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"The job requires %d years of experience, but your resume shows %s years. "+
					"Highlight relevant projects or additional experience to bridge this gap.",
				exp.RequiredYears, strconv.FormatFloat(exp.CurrentYears, 'f', -1, 64),
			))
		}
	}

	if lowest, ok := sections.Lowest(); ok && lowest.Similarity < sectionThreshold {
		suggestions = append(suggestions, fmt.Sprintf(
			"Your %s section could be better aligned with the job requirements. "+
				"Consider tailoring this section to match the job description more closely.",
			strings.ToLower(lowest.ResumeSection),
		))
	}

	return suggestions
}

// head joins the first n items and notes how many were left out.
func head(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + fmt.Sprintf(" and %d more", len(items)-n)
}
