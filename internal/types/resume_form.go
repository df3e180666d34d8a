// Package types provides type definitions for structured data used throughout the resume import pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeForm is the canonical, user-editable résumé. JSON names match the
// persistence service contract.
type ResumeForm struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Summary     string            `json:"summary"`
	Skills      []string          `json:"skills"`
	Experiences []ExperienceEntry `json:"experiences"`
	Education   []EducationEntry  `json:"education"`
}

// ExperienceEntry is a single job record. Current implies an empty EndDate.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	WorkMode    string `json:"workMode,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationEntry is a single school/degree record. Current implies an empty EndDate.
type EducationEntry struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Contact holds the contact details found near the top of a document.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewResumeForm returns an empty form with non-nil slices.
func NewResumeForm() ResumeForm {
	return ResumeForm{
		Skills:      []string{},
		Experiences: []ExperienceEntry{},
		Education:   []EducationEntry{},
	}
}

// Clone returns a deep copy of the form.
func (f ResumeForm) Clone() ResumeForm {
	out := f
	if f.Skills != nil {
		out.Skills = append(make([]string, 0, len(f.Skills)), f.Skills...)
	}
	if f.Experiences != nil {
		out.Experiences = append(make([]ExperienceEntry, 0, len(f.Experiences)), f.Experiences...)
	}
	if f.Education != nil {
		out.Education = append(make([]EducationEntry, 0, len(f.Education)), f.Education...)
	}
	return out
}
