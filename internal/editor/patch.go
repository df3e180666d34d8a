package editor

import "github.com/jonathan/jobtracker/internal/types"

// ExperiencePatch holds the experience fields to change. Nil fields are left
// alone.
type ExperiencePatch struct {
	Title       *string
	Company     *string
	Location    *string
	WorkMode    *string
	StartDate   *string
	EndDate     *string
	Current     *bool
	Description *string
}

func (p ExperiencePatch) apply(ex *types.ExperienceEntry) {
	setString(&ex.Title, p.Title)
	setString(&ex.Company, p.Company)
	setString(&ex.Location, p.Location)
	setString(&ex.WorkMode, p.WorkMode)
	setString(&ex.StartDate, p.StartDate)
	setString(&ex.EndDate, p.EndDate)
	setString(&ex.Description, p.Description)
	if p.Current != nil {
		ex.Current = *p.Current
	}
}

// fields returns the form field names the patch touches.
func (p ExperiencePatch) fields() []string {
	var out []string
	out = appendField(out, "title", p.Title != nil)
	out = appendField(out, "company", p.Company != nil)
	out = appendField(out, "location", p.Location != nil)
	out = appendField(out, "workMode", p.WorkMode != nil)
	out = appendField(out, "startDate", p.StartDate != nil)
	out = appendField(out, "endDate", p.EndDate != nil)
	out = appendField(out, "current", p.Current != nil)
	return appendField(out, "description", p.Description != nil)
}

// EducationPatch holds the education fields to change.
type EducationPatch struct {
	School      *string
	Degree      *string
	Location    *string
	StartDate   *string
	EndDate     *string
	Current     *bool
	Description *string
}

func (p EducationPatch) apply(ed *types.EducationEntry) {
	setString(&ed.School, p.School)
	setString(&ed.Degree, p.Degree)
	setString(&ed.Location, p.Location)
	setString(&ed.StartDate, p.StartDate)
	setString(&ed.EndDate, p.EndDate)
	setString(&ed.Description, p.Description)
	if p.Current != nil {
		ed.Current = *p.Current
	}
}

func (p EducationPatch) fields() []string {
	var out []string
	out = appendField(out, "school", p.School != nil)
	out = appendField(out, "degree", p.Degree != nil)
	out = appendField(out, "location", p.Location != nil)
	out = appendField(out, "startDate", p.StartDate != nil)
	out = appendField(out, "endDate", p.EndDate != nil)
	out = appendField(out, "current", p.Current != nil)
	return appendField(out, "description", p.Description != nil)
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func appendField(fields []string, name string, touched bool) []string {
	if touched {
		return append(fields, name)
	}
	return fields
}
