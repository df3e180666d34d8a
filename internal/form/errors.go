package form

import (
	"fmt"
	"regexp"
	"strings"
)

var upperRe = regexp.MustCompile(`([A-Z])`)

// FieldToken maps a form field name to the words used for it in validation
// messages: startDate becomes "start date", other camelCase names are split
// on capitals and lowercased.
func FieldToken(field string) string {
	switch field {
	case "startDate":
		return "start date"
	case "endDate":
		return "end date"
	}
	return strings.ToLower(upperRe.ReplaceAllString(field, " $1"))
}

// TopFieldHasError reports whether any message mentions key.
func TopFieldHasError(errs []string, key string) bool {
	low := strings.ToLower(key)
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e), low) {
			return true
		}
	}
	return false
}

// ExperienceFieldHasError reports whether the idx'th (zero-based) experience
// entry has an error for field.
func ExperienceFieldHasError(errs []string, idx int, field string) bool {
	return hasEntryError(errs, "experience", idx, field)
}

// EducationFieldHasError reports whether the idx'th (zero-based) education
// entry has an error for field.
func EducationFieldHasError(errs []string, idx int, field string) bool {
	return hasEntryError(errs, "education", idx, field)
}

func hasEntryError(errs []string, section string, idx int, field string) bool {
	needle := entryNeedle(section, idx, field)
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e), needle) {
			return true
		}
	}
	return false
}

func entryNeedle(section string, idx int, field string) string {
	return fmt.Sprintf("%s %d: %s", section, idx+1, FieldToken(field))
}

// ClearKeywords drops every message mentioning one of keys. The input slice
// is not modified.
func ClearKeywords(errs []string, keys ...string) []string {
	if len(keys) == 0 {
		return errs
	}
	return filter(errs, func(low string) bool {
		for _, k := range keys {
			if strings.Contains(low, strings.ToLower(k)) {
				return true
			}
		}
		return false
	})
}

// ClearExperienceFields drops the messages of the given fields of the idx'th
// experience entry.
func ClearExperienceFields(errs []string, idx int, fields ...string) []string {
	return clearEntryFields(errs, "experience", idx, fields)
}

// ClearEducationFields drops the messages of the given fields of the idx'th
// education entry.
func ClearEducationFields(errs []string, idx int, fields ...string) []string {
	return clearEntryFields(errs, "education", idx, fields)
}

func clearEntryFields(errs []string, section string, idx int, fields []string) []string {
	if len(fields) == 0 {
		return errs
	}
	return filter(errs, func(low string) bool {
		for _, f := range fields {
			if strings.Contains(low, entryNeedle(section, idx, f)) {
				return true
			}
		}
		return false
	})
}

func filter(errs []string, drop func(low string) bool) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		if !drop(strings.ToLower(e)) {
			out = append(out, e)
		}
	}
	return out
}
