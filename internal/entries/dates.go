package entries

import (
	"regexp"
	"strings"

	"github.com/jonathan/jobtracker/internal/normalize"
)

// DateRange is a parsed "start - end" span.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Current   bool   `json:"current"`
}

var (
	presentRe  = regexp.MustCompile(`(?i)\b(present|current)\b`)
	isoTokenRe = regexp.MustCompile(`\b(\d{4})-(\d{2})\b`)
	isoGuardRe = regexp.MustCompile(`^(\d{4})/(\d{2})$`)
	rangeSepRe = regexp.MustCompile(`(?i)\s*(?:-|–|—|\bto\b)\s*`)
)

// ParseDateRange turns text like "Jan 2020 - Present" or "2018 to 2019" into
// YYYY-MM start/end months. "present" or "current" anywhere marks the range
// current and forces a blank end date. YYYY-MM tokens survive the split on
// hyphens.
func ParseDateRange(s string) DateRange {
	var out DateRange
	txt := strings.TrimSpace(s)
	if txt == "" {
		return out
	}
	out.Current = presentRe.MatchString(txt)

	guarded := isoTokenRe.ReplaceAllString(txt, "$1/$2")
	var parts []string
	for _, p := range rangeSepRe.Split(guarded, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, isoGuardRe.ReplaceAllString(p, "$1-$2"))
	}

	if len(parts) >= 1 {
		out.StartDate = normalize.ParseMonthValue(parts[0])
	}
	if len(parts) >= 2 && !out.Current {
		out.EndDate = normalize.ParseMonthValue(parts[1])
	}
	return out
}

// IsPresentMarker reports whether text says the range is ongoing.
func IsPresentMarker(s string) bool {
	return presentRe.MatchString(s)
}
