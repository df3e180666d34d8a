package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

// Rule weights. Every score a block can earn comes from one of these.
const (
	WeightSynonym             = 10
	WeightExperienceYear      = 3
	WeightExperienceBullets   = 3
	WeightExperienceCompany   = 2
	WeightExperienceDateOrAt  = 14
	WeightEducationBody       = 4
	WeightEducationDegree     = 8
	WeightEducationKeyword    = 18
	WeightSkillsLabelPrefix   = 4
	WeightSkillsCommaList     = 2
	WeightSummaryShortHeading = 2
	WeightSummaryBodyLength   = 2
	WeightSummaryHeading      = 12
	WeightBulleted            = 1

	// OverrideScore is reported when a wrapper heading decides the label outright.
	OverrideScore = 999
)

// Synonyms is the section-name dictionary, in scoring order. Ties between
// labels resolve to the earlier entry.
var Synonyms = []struct {
	Label   types.Label
	Phrases []string
}{
	{types.LabelExperience, []string{"experience", "professional experience", "work experience", "employment", "employment history", "work history"}},
	{types.LabelEducation, []string{"education", "academic", "education & training", "academic background"}},
	{types.LabelSkills, []string{"skills", "technical skills", "expertise", "technologies", "languages"}},
	{types.LabelSummary, []string{"summary", "profile", "professional summary", "about", "objective"}},
	{types.LabelProjects, []string{"projects", "personal projects", "selected projects", "project"}},
	{types.LabelCertifications, []string{"certifications", "licenses", "credential"}},
	{types.LabelAwards, []string{"awards", "honors", "recognition"}},
	{types.LabelPublications, []string{"publications", "papers", "articles"}},
	{types.LabelVolunteering, []string{"volunteer", "volunteering", "community"}},
}

// wrappers are headings that name a section outright. Checked in order.
var wrappers = []struct {
	label types.Label
	re    *regexp.Regexp
}{
	{types.LabelExperience, regexp.MustCompile(`(?i)(employment history|work history|experience)`)},
	{types.LabelEducation, regexp.MustCompile(`(?i)(education)`)},
	{types.LabelSkills, regexp.MustCompile(`(?i)(skills|technical skills)`)},
	{types.LabelSummary, regexp.MustCompile(`(?i)(professional summary|summary|profile|objective)`)},
}

var (
	sectionEducationRe = regexp.MustCompile(`(?i)education`)

	fourDigitRe    = regexp.MustCompile(`\b\d{4}\b`)
	companyWordRe  = regexp.MustCompile(`\b(company|inc|llc|ltd|co\.|corporation|consultant)\b`)
	eduBodyRe      = regexp.MustCompile(`(?i)\b(university|college|institute|school|bachelor'?s?|master'?s?|phd|doctorate|coursework)\b`)
	skillsPrefixRe = regexp.MustCompile(`(?i)\b(languages|tools|frameworks|technologies|skills|platforms)\s*:`)
	atHeadingRe    = regexp.MustCompile(`(?i)\s+at\s+.+`)
	relabelAtRe    = regexp.MustCompile(`(?i)\sat\s.+`)

	// SchoolRe matches institution words.
	SchoolRe = regexp.MustCompile(`(?i)\b(university|college|institute|school)\b`)
	// DegreeRe matches degree names and abbreviations.
	DegreeRe = regexp.MustCompile(`(?i)\b(bachelor'?s?|master'?s?|phd|doctorate|b\.s\.?|b\.a\.?|m\.s\.?|m\.a\.?|mba)\b`)
)

// features is the precomputed view of a block the rules look at.
type features struct {
	heading      string // trimmed
	headingLower string
	body         string
	bodyLower    string
	joined       string // heading + "\n" + body, trimmed
	bullets      int
}

func newFeatures(b types.Block) *features {
	h := strings.TrimSpace(b.Heading)
	return &features{
		heading:      h,
		headingLower: strings.ToLower(h),
		body:         b.BodyText,
		bodyLower:    strings.ToLower(b.BodyText),
		joined:       strings.TrimSpace(h + "\n" + b.BodyText),
		bullets:      b.BulletCount,
	}
}

type rule struct {
	name   string
	label  types.Label
	weight int
	match  func(f *features) bool
}

// rules is the full scoring table: one synonym rule per dictionary phrase
// followed by the content rules.
var rules = buildRules()

func buildRules() []rule {
	var out []rule
	for _, s := range Synonyms {
		for _, phrase := range s.Phrases {
			p := phrase
			out = append(out, rule{
				name:   "synonym:" + p,
				label:  s.Label,
				weight: WeightSynonym,
				match:  func(f *features) bool { return strings.Contains(f.headingLower, p) },
			})
		}
	}

	return append(out,
		rule{"experience:year", types.LabelExperience, WeightExperienceYear, func(f *features) bool {
			return fourDigitRe.MatchString(f.bodyLower)
		}},
		rule{"experience:bullets", types.LabelExperience, WeightExperienceBullets, func(f *features) bool {
			return f.bullets >= 2
		}},
		rule{"experience:company", types.LabelExperience, WeightExperienceCompany, func(f *features) bool {
			return companyWordRe.MatchString(f.bodyLower)
		}},
		rule{"education:body", types.LabelEducation, WeightEducationBody, func(f *features) bool {
			return eduBodyRe.MatchString(f.bodyLower)
		}},
		rule{"education:degree-heading", types.LabelEducation, WeightEducationDegree, func(f *features) bool {
			return DegreeRe.MatchString(f.headingLower)
		}},
		rule{"skills:label-prefix", types.LabelSkills, WeightSkillsLabelPrefix, func(f *features) bool {
			return skillsPrefixRe.MatchString(f.bodyLower)
		}},
		rule{"skills:comma-list", types.LabelSkills, WeightSkillsCommaList, func(f *features) bool {
			return strings.Count(f.body, ",") >= 3
		}},
		rule{"summary:short-heading", types.LabelSummary, WeightSummaryShortHeading, func(f *features) bool {
			n := utf8.RuneCountInString(f.heading)
			return n > 0 && n < 60
		}},
		rule{"summary:body-length", types.LabelSummary, WeightSummaryBodyLength, func(f *features) bool {
			n := utf8.RuneCountInString(f.body)
			return n > 80 && n < 600
		}},
		rule{"experience:bulleted", types.LabelExperience, WeightBulleted, func(f *features) bool {
			return f.bullets > 0
		}},
		rule{"projects:bulleted", types.LabelProjects, WeightBulleted, func(f *features) bool {
			return f.bullets > 0
		}},
		rule{"experience:date-or-at", types.LabelExperience, WeightExperienceDateOrAt, func(f *features) bool {
			return normalize.LooksLikeDateRange(f.joined) || atHeadingRe.MatchString(f.heading)
		}},
		rule{"education:keyword", types.LabelEducation, WeightEducationKeyword, func(f *features) bool {
			return SchoolRe.MatchString(f.joined) || DegreeRe.MatchString(f.joined)
		}},
		rule{"summary:heading", types.LabelSummary, WeightSummaryHeading, func(f *features) bool {
			return strings.Contains(f.headingLower, "summary") ||
				strings.Contains(f.headingLower, "profile") ||
				strings.Contains(f.headingLower, "objective")
		}},
	)
}
