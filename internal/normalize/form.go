package normalize

import (
	"strings"

	"github.com/jonathan/jobtracker/internal/types"
)

// ResumeForm returns the canonical form of f. It is idempotent:
// ResumeForm(ResumeForm(f)) == ResumeForm(f).
func ResumeForm(f types.ResumeForm) types.ResumeForm {
	out := types.ResumeForm{
		Name:        Spaces(f.Name),
		Email:       Email(f.Email),
		Phone:       Phone(f.Phone),
		Summary:     Multiline(f.Summary),
		Skills:      ParseSkillsText(strings.Join(f.Skills, ", ")),
		Experiences: make([]types.ExperienceEntry, 0, len(f.Experiences)),
		Education:   make([]types.EducationEntry, 0, len(f.Education)),
	}

	for _, ex := range f.Experiences {
		out.Experiences = append(out.Experiences, Experience(ex))
	}
	for _, ed := range f.Education {
		out.Education = append(out.Education, Education(ed))
	}
	return out
}

// Experience normalizes a single experience entry.
func Experience(ex types.ExperienceEntry) types.ExperienceEntry {
	endDate := IsoMonth(ex.EndDate)
	if ex.Current {
		endDate = ""
	}
	return types.ExperienceEntry{
		Title:       Spaces(ex.Title),
		Company:     Spaces(ex.Company),
		Location:    Spaces(ex.Location),
		WorkMode:    Spaces(ex.WorkMode),
		StartDate:   IsoMonth(ex.StartDate),
		EndDate:     endDate,
		Current:     ex.Current,
		Description: Multiline(ex.Description),
	}
}

// Education normalizes a single education entry.
func Education(ed types.EducationEntry) types.EducationEntry {
	endDate := IsoMonth(ed.EndDate)
	if ed.Current {
		endDate = ""
	}
	return types.EducationEntry{
		School:      Spaces(ed.School),
		Degree:      Spaces(ed.Degree),
		Location:    Spaces(ed.Location),
		StartDate:   IsoMonth(ed.StartDate),
		EndDate:     endDate,
		Current:     ed.Current,
		Description: Multiline(ed.Description),
	}
}
