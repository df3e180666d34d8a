// Package entries splits classified EXPERIENCE and EDUCATION blocks into
// individual job and education records.
package entries

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/jobtracker/internal/dom"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

var (
	jobAtRe        = regexp.MustCompile(`\s+at\s+`)
	jobModeRe      = regexp.MustCompile(`(?i)\b(remote|hybrid|onsite)\b`)
	modeParenRe    = regexp.MustCompile(`(?i)\((remote|hybrid|onsite)\)`)
	trailingModeRe = regexp.MustCompile(`(?i)\s*\((remote|hybrid|onsite)\)\s*$`)
	atSplitRe      = regexp.MustCompile(`(?i)\s+at\s+`)
	dashSplitRe    = regexp.MustCompile(`\s+[–—\-|]\s+`)
)

// Header is a job header line broken into its parts.
type Header struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	WorkMode string `json:"workMode"`
}

// ParseHeaderLine splits "Title at Company, City (Remote)" style lines. A
// parenthesized work mode is read first. Without " at ", a dash or pipe
// separates title from company; failing that the whole line is the title.
func ParseHeaderLine(line string) Header {
	var out Header
	s := strings.TrimSpace(line)

	if m := modeParenRe.FindStringSubmatch(s); m != nil {
		out.WorkMode = m[1]
	}

	if parts := atSplitRe.Split(s, -1); len(parts) >= 2 {
		out.Title = strings.TrimSpace(parts[0])
		rhs := strings.TrimSpace(strings.Join(parts[1:], " at "))
		rhs = strings.TrimSpace(trailingModeRe.ReplaceAllString(rhs, ""))
		commaParts := splitNonEmpty(rhs, ",")
		if len(commaParts) >= 2 {
			out.Company = commaParts[0]
			out.Location = strings.Join(commaParts[1:], ", ")
		} else {
			out.Company = rhs
		}
		return out
	}

	var dashParts []string
	for _, p := range dashSplitRe.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			dashParts = append(dashParts, p)
		}
	}
	if len(dashParts) >= 2 {
		out.Title = dashParts[0]
		out.Company = strings.Join(dashParts[1:], " - ")
	} else {
		out.Title = s
	}
	return out
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isJobHeader reports whether n is a <p>/<div> whose first bold run names a
// role ("... at ...") or a work mode.
func isJobHeader(n *dom.Node) bool {
	return jobHeaderLine(n) != ""
}

func jobHeaderLine(n *dom.Node) string {
	if !n.Matches("p", "div") {
		return ""
	}
	strong := n.First("strong", "b")
	if strong == nil {
		return ""
	}
	t := normalize.Spaces(strong.Text())
	if t == "" {
		return ""
	}
	if jobAtRe.MatchString(strings.ToLower(t)) || jobModeRe.MatchString(t) {
		return t
	}
	return ""
}

func isDateLine(n *dom.Node) bool {
	if !n.Matches("p", "div") {
		return false
	}
	t := normalize.Spaces(n.Text())
	if t == "" {
		return false
	}
	return normalize.LooksLikeDateRange(t) || (normalize.HasYear(t) && IsPresentMarker(t))
}

// SplitExperience walks the body of an EXPERIENCE block and returns one entry
// per job header. The node right after a header is taken as its date line
// when it looks like one; everything up to the next header is the
// description. Content before the first header is ignored, and entries with
// neither a title nor a description are dropped.
func SplitExperience(block types.Block) []types.RawExperience {
	if block.BodyHTML == "" {
		return nil
	}
	root, err := dom.Fragment(block.BodyHTML)
	if err != nil {
		return nil
	}
	children := root.Children()

	var found []types.RawExperience
	for i := 0; i < len(children); {
		headerLine := jobHeaderLine(children[i])
		if headerLine == "" {
			i++
			continue
		}

		j := i + 1
		dateLine := ""
		if j < len(children) && isDateLine(children[j]) {
			dateLine = normalize.Spaces(children[j].Text())
			j++
		}

		start := j
		for j < len(children) && !isJobHeader(children[j]) {
			j++
		}

		h := ParseHeaderLine(headerLine)
		location := h.Location
		if location == "" {
			location = h.WorkMode
		}
		found = append(found, types.RawExperience{
			ID:           fmt.Sprintf("%s_job%d", block.ID, len(found)+1),
			Section:      types.LabelExperience,
			EntryHeading: headerLine,
			Title:        h.Title,
			Company:      h.Company,
			Location:     location,
			WorkMode:     h.WorkMode,
			DateRange:    dateLine,
			BodyText:     strings.TrimSpace(dom.JoinText(children[start:j])),
		})
		i = j
	}

	out := make([]types.RawExperience, 0, len(found))
	for _, e := range found {
		if e.BodyText != "" || e.Title != "" {
			out = append(out, e)
		}
	}
	return out
}
