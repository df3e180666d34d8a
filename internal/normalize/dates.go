package normalize

import (
	"regexp"
	"strings"
)

// MonthPattern matches abbreviated or full English month names.
const MonthPattern = `(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Sept|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var (
	isoMonthRe  = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	isoYearRe   = regexp.MustCompile(`^\d{4}$`)
	monthYearRe = regexp.MustCompile(`(?i)` + MonthPattern + `\s+([0-9]{4})`)
	anyYearRe   = regexp.MustCompile(`(?:19|20)\d{2}`)
	yearWordRe  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	dateRangeRe = regexp.MustCompile(
		`(?i)\b(?:` + MonthPattern + `\s+\d{4}|\d{4})\s*(?:-|–|—|to)\s*(?:` + MonthPattern + `\s+\d{4}|\d{4}|Present|Current)\b`,
	)
	yearRangeRe = regexp.MustCompile(`\b(?:19|20)\d{2}\s*(?:-|–|—|to)\s*(?:19|20)\d{2}\b`)
)

var monthNumbers = map[string]string{
	"jan": "01",
	"feb": "02",
	"mar": "03",
	"apr": "04",
	"may": "05",
	"jun": "06",
	"jul": "07",
	"aug": "08",
	"sep": "09",
	"oct": "10",
	"nov": "11",
	"dec": "12",
}

// IsoMonth accepts only YYYY-MM; anything else, including free text, yields "".
func IsoMonth(s string) string {
	t := strings.TrimSpace(s)
	if isoMonthRe.MatchString(t) {
		return t
	}
	return ""
}

// IsIsoMonth reports whether s is exactly YYYY-MM.
func IsIsoMonth(s string) bool {
	return isoMonthRe.MatchString(s)
}

// ParseMonthValue turns free-text dates into YYYY-MM. It accepts YYYY-MM,
// a bare year (January assumed), "<Month> YYYY", and finally any 19xx/20xx
// year found in the string. Returns "" when nothing matches.
func ParseMonthValue(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if m := isoMonthRe.FindStringSubmatch(t); m != nil {
		return m[1] + "-" + m[2]
	}
	if isoYearRe.MatchString(t) {
		return t + "-01"
	}
	if m := monthYearRe.FindStringSubmatch(t); m != nil {
		mm, ok := monthNumbers[strings.ToLower(m[1][:3])]
		if !ok {
			mm = "01"
		}
		return m[2] + "-" + mm
	}
	if y := anyYearRe.FindString(t); y != "" {
		return y + "-01"
	}
	return ""
}

// LooksLikeDateRange reports whether s contains a "<date> - <date|Present>" range.
func LooksLikeDateRange(s string) bool {
	return dateRangeRe.MatchString(s)
}

// FindDateRange returns the first date range in s, or "".
func FindDateRange(s string) string {
	return dateRangeRe.FindString(s)
}

// FindYearRange returns the first "YYYY - YYYY" range in s, or "".
func FindYearRange(s string) string {
	return yearRangeRe.FindString(s)
}

// HasYear reports whether s contains a standalone 19xx/20xx year.
func HasYear(s string) bool {
	return yearWordRe.MatchString(s)
}
