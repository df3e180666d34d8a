package conversion

import (
	"github.com/microcosm-cc/bluemonday"
)

// AllowedTags is the element allow-list applied to converter output.
var AllowedTags = []string{
	"p", "div", "span",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li",
	"strong", "em", "b", "i", "u", "br",
	"table", "thead", "tbody", "tr", "td", "th",
}

// AllowedAttrs is the attribute allow-list applied to converter output.
var AllowedAttrs = []string{"href", "src", "alt"}

// Sanitizer strips everything outside the allow-lists from converter output,
// including scripts, styles and event-handler attributes.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the import sanitizer policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(AllowedTags...)
	p.AllowAttrs(AllowedAttrs...).Globally()
	p.AllowStandardURLs()
	return &Sanitizer{policy: p}
}

// Sanitize returns safe HTML.
func (s *Sanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
