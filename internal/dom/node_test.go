package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ChildrenSkipBlankText(t *testing.T) {
	root, err := Parse("<h1>Experience</h1>\n  <p>Body</p>\n<ul><li>a</li></ul>")
	require.NoError(t, err)

	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "h1", children[0].Tag())
	assert.Equal(t, "p", children[1].Tag())
	assert.Equal(t, "ul", children[2].Tag())
}

func TestNode_TextSeparatesBlocks(t *testing.T) {
	root, err := Parse("<p>Engineer at Acme</p><p>2020 - 2022</p><ul><li>Built <strong>APIs</strong></li><li>Led team</li></ul>")
	require.NoError(t, err)

	assert.Equal(t, "Engineer at Acme\n2020 - 2022\nBuilt APIs\nLed team\n", root.Text())
}

func TestNode_TextInlineStaysOnLine(t *testing.T) {
	frag, err := Fragment("<p><strong>Jane</strong> <em>Doe</em><br>Seattle</p>")
	require.NoError(t, err)
	assert.Equal(t, "div", frag.Tag())
	assert.Equal(t, "Jane Doe\nSeattle\n", frag.Text())
}

func TestNode_MatchesAndFind(t *testing.T) {
	frag, err := Fragment("<p><b>Lead</b> and <strong>nested <b>bold</b></strong></p>text")
	require.NoError(t, err)

	children := frag.Children()
	require.Len(t, children, 2)
	assert.True(t, children[0].Matches("p", "div"))
	assert.False(t, children[0].Matches("li"))
	assert.True(t, children[1].IsText())
	assert.False(t, children[1].Matches("p"))
	assert.Equal(t, "", children[1].Tag())

	bolds := children[0].FindAll("strong", "b")
	require.Len(t, bolds, 3)
	assert.Equal(t, "Lead", bolds[0].Text())
	assert.Equal(t, "nested bold", bolds[1].Text())
	assert.Equal(t, "bold", bolds[2].Text())

	first := children[0].First("strong", "b")
	require.NotNil(t, first)
	assert.Equal(t, "Lead", first.Text())
	assert.Nil(t, children[0].First("li"))
}

func TestNode_HTMLRendering(t *testing.T) {
	frag, err := Fragment(`<p>A &amp; B</p><ul><li>x</li></ul>`)
	require.NoError(t, err)

	children := frag.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "<p>A &amp; B</p>", children[0].OuterHTML())
	assert.Equal(t, "<li>x</li>", children[1].InnerHTML())
	assert.Equal(t, "<p>A &amp; B</p><ul><li>x</li></ul>", Join(children))
	assert.Equal(t, "A & B\nx\n", JoinText(children))
}
