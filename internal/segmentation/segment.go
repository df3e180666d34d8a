// Package segmentation groups the top-level nodes of a converted document
// into heading+body blocks.
package segmentation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobtracker/internal/classify"
	"github.com/jonathan/jobtracker/internal/dom"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

const (
	// MaxStyledHeadingLen is the longest paragraph still considered a styled heading.
	MaxStyledHeadingLen = 60
	// MinBoldRatio is the share of bold text that makes a short paragraph a heading.
	MinBoldRatio = 0.7
	// MaxCapsHeadingWords caps the word count of an all-caps heading.
	MaxCapsHeadingWords = 6
	// DedupeWindow is how much normalized body text takes part in the dedupe key.
	DedupeWindow = 1200

	// HeaderBlockID identifies the synthetic contact/title block.
	HeaderBlockID = "b_header"
	// HeaderScore is the fixed score of the synthetic header block.
	HeaderScore = 100
)

var (
	liRe          = regexp.MustCompile(`(?i)<li[\s>]`)
	entryAtRe     = regexp.MustCompile(`\s+at\s+`)
	workModeRe    = regexp.MustCompile(`\b(remote|hybrid|onsite)\b`)
	nonLetterRe   = regexp.MustCompile(`[^A-Za-z]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

type pending struct {
	heading      string
	headingLevel *int
	body         []*dom.Node
}

// Segment walks the children of root and returns blocks in document order.
// IDs b1..bn are assigned before heading-only blocks are folded into their
// successor's SectionHeading, so folded IDs leave gaps.
func Segment(root *dom.Node) []types.Block {
	var raw []*pending
	var current *pending

	for _, n := range root.Children() {
		text := strings.TrimSpace(n.Text())
		isHeading := n.Matches(headingTags...) || LooksLikeHeadingByStyle(n)
		if isHeading && !LooksLikeEntryHeader(text) {
			if current != nil {
				raw = append(raw, current)
			}
			current = &pending{heading: text, headingLevel: headingLevel(n)}
			continue
		}
		if current == nil {
			current = &pending{}
		}
		current.body = append(current.body, n)
	}
	if current != nil {
		raw = append(raw, current)
	}

	blocks := make([]types.Block, 0, len(raw))
	for i, p := range raw {
		bodyHTML := dom.Join(p.body)
		blocks = append(blocks, types.Block{
			ID:           fmt.Sprintf("b%d", i+1),
			Heading:      p.heading,
			HeadingLevel: p.headingLevel,
			BodyHTML:     bodyHTML,
			BodyText:     dom.JoinText(p.body),
			BulletCount:  CountBullets(bodyHTML),
		})
	}
	return mergeWrappers(blocks)
}

// mergeWrappers drops every block with an empty body that has a successor,
// carrying its heading onto the successor as SectionHeading.
func mergeWrappers(blocks []types.Block) []types.Block {
	out := make([]types.Block, 0, len(blocks))
	for i := range blocks {
		cur := blocks[i]
		if strings.TrimSpace(cur.BodyText) == "" && i+1 < len(blocks) {
			if cur.Heading != "" {
				blocks[i+1].SectionHeading = cur.Heading
			}
			continue
		}
		out = append(out, cur)
	}
	return out
}

// SynthesizeHeader folds every block before the first recognizable section
// into one HEADER block. A block is recognizable when its heading or
// SectionHeading contains a section synonym. Without such a block the input
// is returned unchanged.
func SynthesizeHeader(blocks []types.Block) []types.Block {
	first := -1
	for i, b := range blocks {
		if classify.IsSectionHeadingText(b.SectionHeading) || classify.IsSectionHeadingText(b.Heading) {
			first = i
			break
		}
	}
	if first <= 0 {
		return blocks
	}

	htmlParts := make([]string, 0, first)
	textParts := make([]string, 0, first)
	for _, b := range blocks[:first] {
		htmlParts = append(htmlParts, b.BodyHTML)
		textParts = append(textParts, b.BodyText)
	}
	bodyHTML := strings.Join(htmlParts, "")

	out := make([]types.Block, 0, len(blocks)-first+1)
	out = append(out, types.Block{
		ID:          HeaderBlockID,
		BodyHTML:    bodyHTML,
		BodyText:    strings.Join(textParts, "\n"),
		BulletCount: CountBullets(bodyHTML),
		Label:       types.LabelHeader,
		Score:       HeaderScore,
		Confidence:  1,
	})
	return append(out, blocks[first:]...)
}

// Dedupe keeps the first of any blocks sharing a heading and the first
// DedupeWindow characters of normalized body text. Repeated page headers and
// footers collapse this way.
func Dedupe(blocks []types.Block) []types.Block {
	seen := make(map[string]bool, len(blocks))
	out := make([]types.Block, 0, len(blocks))
	for _, b := range blocks {
		key := strings.ToLower(strings.TrimSpace(b.Heading)) + "::" +
			normalize.Truncate(normalize.Spaces(b.BodyText), DedupeWindow)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}

// Group maps each label to the IDs of its blocks, in order. Unlabeled blocks
// are grouped under OTHER.
func Group(blocks []types.Block) map[types.Label][]string {
	groups := make(map[types.Label][]string)
	for _, b := range blocks {
		label := b.Label
		if label == "" {
			label = types.LabelOther
		}
		groups[label] = append(groups[label], b.ID)
	}
	return groups
}

// CountBullets counts <li> elements in an HTML string.
func CountBullets(html string) int {
	return len(liRe.FindAllStringIndex(html, -1))
}

// LooksLikeHeadingByStyle reports whether a short <p> or <div> reads as a
// section title: mostly bold, or all caps in a few words.
func LooksLikeHeadingByStyle(n *dom.Node) bool {
	if !n.Matches("p", "div") {
		return false
	}
	txt := strings.TrimSpace(n.Text())
	if txt == "" || utf8.RuneCountInString(txt) > MaxStyledHeadingLen {
		return false
	}

	letters := nonLetterRe.ReplaceAllString(txt, "")
	allCaps := len(letters) >= 3 && letters == strings.ToUpper(letters)

	var bold []string
	for _, s := range n.FindAll("strong", "b") {
		bold = append(bold, strings.TrimSpace(s.Text()))
	}
	boldLen := utf8.RuneCountInString(whitespaceRun.ReplaceAllString(strings.Join(bold, " "), ""))
	totalLen := utf8.RuneCountInString(whitespaceRun.ReplaceAllString(txt, ""))
	ratio := 0.0
	if totalLen > 0 {
		ratio = float64(boldLen) / float64(totalLen)
	}

	return ratio >= MinBoldRatio || (allCaps && len(strings.Fields(txt)) <= MaxCapsHeadingWords)
}

// LooksLikeEntryHeader reports whether text reads like a job line ("Title at
// Company", a date range, or a work mode next to a comma-separated location)
// rather than a section title.
func LooksLikeEntryHeader(text string) bool {
	t := strings.ToLower(text)
	if t == "" {
		return false
	}
	if entryAtRe.MatchString(t) {
		return true
	}
	if normalize.LooksLikeDateRange(text) {
		return true
	}
	return workModeRe.MatchString(t) && strings.Contains(t, ",")
}

func headingLevel(n *dom.Node) *int {
	if !n.Matches(headingTags...) {
		return nil
	}
	level := int(n.Tag()[1] - '0')
	return &level
}
