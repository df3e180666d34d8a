package entries

import (
	"strings"

	"github.com/jonathan/jobtracker/internal/classify"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

// EducationDateWindow is how much leading body text is searched for a
// month-aware date range before falling back to a year range anywhere.
const EducationDateWindow = 250

// SplitEducation returns exactly one entry for an EDUCATION block. Blocks
// listing several degrees are not split further.
//
// School and degree are picked between the block heading and its section
// caption by keyword: institution words mark the school, degree names mark
// the degree. With no clear hint the heading is taken as the degree and the
// caption as the school.
func SplitEducation(block types.Block) []types.RawEducation {
	h := strings.TrimSpace(block.Heading)
	sh := strings.TrimSpace(block.SectionHeading)
	body := strings.TrimSpace(block.BodyText)

	schoolHint := func(s string) bool { return classify.SchoolRe.MatchString(s) }
	degreeHint := func(s string) bool { return classify.DegreeRe.MatchString(s) }

	var school, degree string
	switch {
	case schoolHint(sh):
		school = sh
	case schoolHint(h):
		school = h
	}

	switch {
	case degreeHint(h) && !degreeHint(sh):
		degree = h
	case degreeHint(sh) && !degreeHint(h):
		degree = sh
	case school == "":
		degree = h
		school = sh
	default:
		if school == h {
			degree = sh
		} else {
			degree = h
		}
	}

	dateRange := normalize.FindDateRange(normalize.Truncate(body, EducationDateWindow))
	if dateRange == "" {
		dateRange = normalize.FindYearRange(body)
	}

	return []types.RawEducation{{
		ID:        block.ID + "_edu1",
		Section:   types.LabelEducation,
		School:    strings.TrimSpace(school),
		Degree:    strings.TrimSpace(degree),
		DateRange: dateRange,
		BodyText:  body,
	}}
}
