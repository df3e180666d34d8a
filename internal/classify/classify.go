// Package classify labels segmented blocks as résumé sections using a table
// of weighted heuristics.
package classify

import (
	"sort"
	"strings"

	"github.com/jonathan/jobtracker/internal/types"
)

// Result is the outcome of classifying one block. Confidence is
// informational; nothing downstream gates on it.
type Result struct {
	Label      types.Label
	Score      int
	Confidence float64
}

// Score is the total a single label earned.
type Score struct {
	Label types.Label
	Score int
}

// Scores evaluates every rule against b and returns per-label totals in
// dictionary order.
func Scores(b types.Block) []Score {
	f := newFeatures(b)
	totals := make(map[types.Label]int, len(Synonyms))
	for _, r := range rules {
		if r.match(f) {
			totals[r.label] += r.weight
		}
	}
	out := make([]Score, 0, len(Synonyms))
	for _, s := range Synonyms {
		out = append(out, Score{Label: s.Label, Score: totals[s.Label]})
	}
	return out
}

// Classify assigns a label to b. A wrapper heading or an education section
// caption decides outright; otherwise the highest-scoring label wins, with
// ties going to the earlier dictionary label, and OTHER when nothing scores.
func Classify(b types.Block) Result {
	if label, ok := WrapperLabel(b.Heading); ok {
		return Result{Label: label, Score: OverrideScore, Confidence: 1}
	}
	if sectionEducationRe.MatchString(b.SectionHeading) {
		return Result{Label: types.LabelEducation, Score: OverrideScore, Confidence: 1}
	}

	scores := Scores(b)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	best := scores[0]
	second := scores[1]
	label := best.Label
	if best.Score <= 0 {
		label = types.LabelOther
	}
	return Result{
		Label:      label,
		Score:      best.Score,
		Confidence: Confidence(best.Score, second.Score),
	}
}

// WrapperLabel reports the label of a heading that names a main section.
func WrapperLabel(heading string) (types.Label, bool) {
	h := strings.TrimSpace(heading)
	if h == "" {
		return "", false
	}
	for _, w := range wrappers {
		if w.re.MatchString(h) {
			return w.label, true
		}
	}
	return "", false
}

// Confidence maps the winning score and its margin over the runner-up to a
// coarse 0..1 value.
func Confidence(best, second int) float64 {
	margin := best - second
	switch {
	case best >= 16 && margin >= 6:
		return 0.9
	case best >= 12 && margin >= 4:
		return 0.75
	case best >= 8 && margin >= 2:
		return 0.6
	default:
		return 0.45
	}
}

// Relabel applies the post-classification correction: an EDUCATION block
// whose body reads like a bulleted job ("... at ...", two or more bullets)
// becomes EXPERIENCE.
func Relabel(b types.Block) types.Label {
	if b.Label == types.LabelEducation && relabelAtRe.MatchString(b.BodyText) && b.BulletCount >= 2 {
		return types.LabelExperience
	}
	return b.Label
}

// Apply classifies b and applies the relabel pass, returning the updated block.
func Apply(b types.Block) types.Block {
	r := Classify(b)
	b.Label = r.Label
	b.Score = r.Score
	b.Confidence = r.Confidence
	b.Label = Relabel(b)
	return b
}

// IsSectionHeadingText reports whether text contains any dictionary synonym.
func IsSectionHeadingText(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, s := range Synonyms {
		for _, p := range s.Phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}
