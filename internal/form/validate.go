package form

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/jobtracker/internal/contact"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate returns every rule violation in f, in a fixed order. Messages
// follow the "Experience N: field ..." / "Education N: field ..." convention
// that the field-lookup helpers in this package rely on. A nil form yields
// "Missing form".
func Validate(f *types.ResumeForm) []string {
	if f == nil {
		return []string{"Missing form"}
	}
	errs := []string{}

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "Name is required")
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		errs = append(errs, "Email is required")
	case !emailRe.MatchString(email):
		errs = append(errs, "Email is invalid")
	}

	phone := strings.TrimSpace(f.Phone)
	switch {
	case phone == "":
		errs = append(errs, "Phone is required")
	case !contact.IsPhone(phone):
		errs = append(errs, "Phone is invalid")
	}

	if len(f.Experiences) == 0 && len(f.Education) == 0 {
		errs = append(errs, "Add at least one Experience or Education entry")
	}

	for _, s := range f.Skills {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, "Skills contains invalid entries")
			break
		}
	}

	for i, ex := range f.Experiences {
		p := fmt.Sprintf("Experience %d: ", i+1)
		if strings.TrimSpace(ex.Title) == "" {
			errs = append(errs, p+"title is required")
		}
		if strings.TrimSpace(ex.Company) == "" {
			errs = append(errs, p+"company is required")
		}
		if strings.TrimSpace(ex.StartDate) == "" {
			errs = append(errs, p+"start date is required")
		}
		errs = append(errs, dateErrors(p, ex.StartDate, ex.EndDate, ex.Current)...)
	}

	for i, ed := range f.Education {
		p := fmt.Sprintf("Education %d: ", i+1)
		if strings.TrimSpace(ed.School) == "" {
			errs = append(errs, p+"school is required")
		}
		if strings.TrimSpace(ed.Degree) == "" {
			errs = append(errs, p+"degree is required")
		}
		errs = append(errs, dateErrors(p, ed.StartDate, ed.EndDate, ed.Current)...)
	}

	return errs
}

func dateErrors(prefix, start, end string, current bool) []string {
	var errs []string
	if start != "" && !normalize.IsIsoMonth(start) {
		errs = append(errs, prefix+"start date must be YYYY-MM")
	}
	if current && end != "" {
		errs = append(errs, prefix+"end date must be blank when current")
	}
	if end != "" && !normalize.IsIsoMonth(end) {
		errs = append(errs, prefix+"end date must be YYYY-MM")
	}
	return errs
}
