// Package contact extracts email and phone details from the top of a document.
package contact

import (
	"regexp"

	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

const (
	// Window is how many leading characters of the document are searched.
	Window = 1200
	// PhonePattern is a loose phone-number digit run, shared with form validation.
	PhonePattern = `\+?\d[\d\-\s().]{6,}\d`
)

var (
	emailRe = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)
	phoneRe = regexp.MustCompile(PhonePattern)
)

// Extract returns the first email and phone number found in the first Window
// characters of text. Missing values are empty strings.
func Extract(text string) types.Contact {
	top := normalize.Truncate(text, Window)
	return types.Contact{
		Email: emailRe.FindString(top),
		Phone: phoneRe.FindString(top),
	}
}

// IsPhone reports whether s contains a loose phone-number digit run.
func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}
