// Package form builds, merges and validates the editable ResumeForm.
package form

import (
	"strings"

	"github.com/jonathan/jobtracker/internal/entries"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

// MaxSummaryLen caps the assembled summary, in characters.
const MaxSummaryLen = 1200

// Assemble maps a parsed skeleton and the extracted contact details onto a
// ResumeForm. The result is not yet normalized. Name is never inferred.
func Assemble(skel types.Skeleton, contact types.Contact) types.ResumeForm {
	f := types.NewResumeForm()
	f.Email = contact.Email
	f.Phone = contact.Phone

	var summaries []string
	for _, id := range skel.Groups[types.LabelSummary] {
		if b, ok := skel.BlockByID(id); ok {
			summaries = append(summaries, strings.TrimSpace(b.BodyText))
		}
	}
	if len(summaries) > 0 {
		f.Summary = normalize.Truncate(strings.Join(summaries, "\n\n"), MaxSummaryLen)
	}

	for _, e := range skel.Entries.Experience {
		dr := entries.ParseDateRange(e.DateRange)
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = strings.TrimSpace(e.EntryHeading)
		}
		f.Experiences = append(f.Experiences, types.ExperienceEntry{
			Title:       title,
			Company:     strings.TrimSpace(e.Company),
			Location:    strings.TrimSpace(e.Location),
			WorkMode:    e.WorkMode,
			StartDate:   dr.StartDate,
			EndDate:     dr.EndDate,
			Current:     dr.Current,
			Description: strings.TrimSpace(e.BodyText),
		})
	}

	for _, e := range skel.Entries.Education {
		dr := entries.ParseDateRange(e.DateRange)
		f.Education = append(f.Education, types.EducationEntry{
			School:      e.School,
			Degree:      e.Degree,
			StartDate:   dr.StartDate,
			EndDate:     dr.EndDate,
			Current:     dr.Current,
			Description: e.BodyText,
		})
	}

	if len(skel.Entries.Skills) > 0 {
		parts := make([]string, 0, len(skel.Entries.Skills))
		for _, s := range skel.Entries.Skills {
			parts = append(parts, s.BodyText)
		}
		f.Skills = normalize.ParseSkillsText(strings.Join(parts, ", "))
	}

	return f
}

// MergeImported overlays a freshly imported form on the form being edited.
// Contact details, summary, experiences and education are taken from the
// import only when it has them; skills always come from the import and the
// name is never replaced. The result is normalized.
func MergeImported(prior, imported types.ResumeForm) types.ResumeForm {
	out := prior.Clone()
	if imported.Email != "" {
		out.Email = imported.Email
	}
	if imported.Phone != "" {
		out.Phone = imported.Phone
	}
	if imported.Summary != "" {
		out.Summary = imported.Summary
	}
	if len(imported.Experiences) > 0 {
		out.Experiences = append([]types.ExperienceEntry(nil), imported.Experiences...)
	}
	if len(imported.Education) > 0 {
		out.Education = append([]types.EducationEntry(nil), imported.Education...)
	}
	if imported.Skills != nil {
		out.Skills = append([]string{}, imported.Skills...)
	}
	return normalize.ResumeForm(out)
}
