package segmentation

import (
	"testing"

	"github.com/jonathan/jobtracker/internal/dom"
	"github.com/jonathan/jobtracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `<p>Jane Doe</p><p>jane@example.com</p>` +
	`<h2>Experience</h2>` +
	`<p><strong>Engineer at Acme</strong></p><p>2020 - 2022</p><ul><li>Built</li><li>Shipped</li></ul>` +
	`<h2>Skills</h2><p>Go, SQL</p>`

func segmentHTML(t *testing.T, html string) []types.Block {
	t.Helper()
	root, err := dom.Parse(html)
	require.NoError(t, err)
	return Segment(root)
}

func TestSegment(t *testing.T) {
	blocks := segmentHTML(t, sampleResume)
	require.Len(t, blocks, 3)

	lead := blocks[0]
	assert.Equal(t, "b1", lead.ID)
	assert.Equal(t, "", lead.Heading)
	assert.Nil(t, lead.HeadingLevel)
	assert.Equal(t, "<p>Jane Doe</p><p>jane@example.com</p>", lead.BodyHTML)
	assert.Equal(t, "Jane Doe\njane@example.com\n", lead.BodyText)

	exp := blocks[1]
	assert.Equal(t, "b2", exp.ID)
	assert.Equal(t, "Experience", exp.Heading)
	require.NotNil(t, exp.HeadingLevel)
	assert.Equal(t, 2, *exp.HeadingLevel)
	assert.Equal(t, 2, exp.BulletCount)
	assert.Equal(t, "Engineer at Acme\n2020 - 2022\nBuilt\nShipped\n", exp.BodyText)
	assert.Contains(t, exp.BodyHTML, "<strong>Engineer at Acme</strong>", "bold job lines stay in the body")

	assert.Equal(t, "Skills", blocks[2].Heading)
	assert.Equal(t, "Go, SQL\n", blocks[2].BodyText)
}

func TestSegment_FoldsEmptyWrapperHeadings(t *testing.T) {
	blocks := segmentHTML(t, `<h1>EXPERIENCE</h1><h2>Engineer</h2><p>Did things</p><h2>Trailing</h2>`)
	require.Len(t, blocks, 2)

	assert.Equal(t, "b2", blocks[0].ID)
	assert.Equal(t, "Engineer", blocks[0].Heading)
	assert.Equal(t, "EXPERIENCE", blocks[0].SectionHeading)

	// The last block is kept even with an empty body.
	assert.Equal(t, "b3", blocks[1].ID)
	assert.Equal(t, "", blocks[1].BodyText)
}

func TestSegment_EmptyDocument(t *testing.T) {
	assert.Empty(t, segmentHTML(t, ""))
}

func TestSynthesizeHeader(t *testing.T) {
	blocks := SynthesizeHeader(segmentHTML(t, sampleResume))
	require.Len(t, blocks, 3)

	header := blocks[0]
	assert.Equal(t, HeaderBlockID, header.ID)
	assert.Equal(t, types.LabelHeader, header.Label)
	assert.Equal(t, HeaderScore, header.Score)
	assert.Equal(t, 1.0, header.Confidence)
	assert.Equal(t, "<p>Jane Doe</p><p>jane@example.com</p>", header.BodyHTML)
	assert.Equal(t, "Jane Doe\njane@example.com\n", header.BodyText)
	assert.Equal(t, "b2", blocks[1].ID)
}

func TestSynthesizeHeader_UsesSectionHeading(t *testing.T) {
	blocks := []types.Block{
		{ID: "b1", BodyText: "Jane"},
		{ID: "b2", BodyText: "Phone"},
		{ID: "b4", Heading: "Acme", SectionHeading: "Employment", BodyText: "x"},
	}
	got := SynthesizeHeader(blocks)
	require.Len(t, got, 2)
	assert.Equal(t, "Jane\nPhone", got[0].BodyText)
	assert.Equal(t, "b4", got[1].ID)
}

func TestSynthesizeHeader_NoSynonymLeavesBlocksAlone(t *testing.T) {
	blocks := []types.Block{
		{ID: "b1", Heading: "Jane Doe", BodyText: "x"},
		{ID: "b2", Heading: "Things I Like", BodyText: "y"},
	}
	assert.Equal(t, blocks, SynthesizeHeader(blocks))
}

func TestSynthesizeHeader_FirstBlockIsSection(t *testing.T) {
	blocks := []types.Block{{ID: "b1", Heading: "Summary", BodyText: "x"}}
	assert.Equal(t, blocks, SynthesizeHeader(blocks))
}

func TestDedupe(t *testing.T) {
	blocks := []types.Block{
		{ID: "b1", Heading: " Footer ", BodyText: "Page  1"},
		{ID: "b2", Heading: "Skills", BodyText: "Go"},
		{ID: "b3", Heading: "footer", BodyText: "Page 1\n"},
		{ID: "b4", Heading: "Skills", BodyText: "Rust"},
	}
	got := Dedupe(blocks)
	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b1", "b2", "b4"}, ids)
}

func TestGroup(t *testing.T) {
	groups := Group([]types.Block{
		{ID: "b_header", Label: types.LabelHeader},
		{ID: "b2", Label: types.LabelExperience},
		{ID: "b3", Label: types.LabelExperience},
		{ID: "b4"},
	})
	assert.Equal(t, map[types.Label][]string{
		types.LabelHeader:     {"b_header"},
		types.LabelExperience: {"b2", "b3"},
		types.LabelOther:      {"b4"},
	}, groups)
}

func TestCountBullets(t *testing.T) {
	assert.Equal(t, 2, CountBullets(`<ul><li>a</li><LI class="x">b</LI></ul><link>`))
	assert.Equal(t, 0, CountBullets(""))
}

func TestLooksLikeHeadingByStyle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected bool
	}{
		{"Bold paragraph", "<p><strong>Technical Skills</strong></p>", true},
		{"All caps short", "<p>PROFESSIONAL EXPERIENCE</p>", true},
		{"All caps div", "<div>EDUCATION &amp; TRAINING</div>", true},
		{"Plain name", "<p>Jane Doe</p>", false},
		{"Heading element is not styled text", "<h2>Skills</h2>", false},
		{"Too many caps words", "<p>THIS IS A VERY LONG ALL CAPS LINE OF TEXT</p>", false},
		{"Mostly plain text", "<p><b>Go</b> developer with many years</p>", false},
		{"Too few letters", "<div>AB</div>", false},
		{"Too long", "<p><b>A bold paragraph that runs on well past the sixty character limit</b></p>", false},
		{"List item", "<li><b>Go</b></li>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := dom.Fragment(tt.html)
			require.NoError(t, err)
			children := frag.Children()
			require.NotEmpty(t, children)
			assert.Equal(t, tt.expected, LooksLikeHeadingByStyle(children[0]))
		})
	}
}

func TestLooksLikeEntryHeader(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"Engineer at Acme", true},
		{"Jan 2020 - Present", true},
		{"2018 to 2020", true},
		{"Remote, USA", true},
		{"Remote", false},
		{"Skills", false},
		{"Attack Surface", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeEntryHeader(tt.text))
		})
	}
}
