package entries

import (
	"testing"

	"github.com/jonathan/jobtracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		input    string
		expected DateRange
	}{
		{"Jan 2020 - Present", DateRange{StartDate: "2020-01", Current: true}},
		{"March 2018 – June 2020", DateRange{StartDate: "2018-03", EndDate: "2020-06"}},
		{"2016 to 2019", DateRange{StartDate: "2016-01", EndDate: "2019-01"}},
		{"October 2019 — current", DateRange{StartDate: "2019-10", Current: true}},
		{"2020-01 - 2021-03", DateRange{StartDate: "2020-01", EndDate: "2021-03"}},
		{"Sept 2015", DateRange{StartDate: "2015-09"}},
		{"Present", DateRange{Current: true}},
		{"", DateRange{}},
		{"n/a", DateRange{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDateRange(tt.input))
		})
	}
}

func TestParseHeaderLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Header
	}{
		{
			name:     "Title at company",
			input:    "Senior Engineer at Acme",
			expected: Header{Title: "Senior Engineer", Company: "Acme"},
		},
		{
			name:     "Company with location and mode",
			input:    "Engineer at Acme Corp, Seattle, WA (Remote)",
			expected: Header{Title: "Engineer", Company: "Acme Corp", Location: "Seattle, WA", WorkMode: "Remote"},
		},
		{
			name:     "Repeated at is rejoined",
			input:    "Engineer AT Look at Me Inc",
			expected: Header{Title: "Engineer", Company: "Look at Me Inc"},
		},
		{
			name:     "Dash separator",
			input:    "Data Analyst – Globex | Chicago",
			expected: Header{Title: "Data Analyst", Company: "Globex - Chicago"},
		},
		{
			name:     "Mode only",
			input:    "Contractor (Hybrid)",
			expected: Header{Title: "Contractor (Hybrid)", WorkMode: "Hybrid"},
		},
		{
			name:     "Hyphenated words are not separators",
			input:    "Full-Stack Developer",
			expected: Header{Title: "Full-Stack Developer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseHeaderLine(tt.input))
		})
	}
}

func TestSplitExperience_TwoJobs(t *testing.T) {
	block := types.Block{
		ID:      "b2",
		Heading: "Work Experience",
		BodyHTML: `<p><strong>Senior Engineer at Acme</strong></p><p>Jan 2020 - Present</p>` +
			`<ul><li>Led platform team</li><li>Cut latency 40%</li></ul>` +
			`<p><strong>Engineer at Globex, Chicago</strong></p><p>2017 - 2019</p>` +
			`<p>Built billing pipeline</p>`,
	}

	got := SplitExperience(block)
	require.Len(t, got, 2)

	assert.Equal(t, types.RawExperience{
		ID:           "b2_job1",
		Section:      types.LabelExperience,
		EntryHeading: "Senior Engineer at Acme",
		Title:        "Senior Engineer",
		Company:      "Acme",
		DateRange:    "Jan 2020 - Present",
		BodyText:     "Led platform team\nCut latency 40%",
	}, got[0])

	assert.Equal(t, "b2_job2", got[1].ID)
	assert.Equal(t, "Engineer", got[1].Title)
	assert.Equal(t, "Globex", got[1].Company)
	assert.Equal(t, "Chicago", got[1].Location)
	assert.Equal(t, "2017 - 2019", got[1].DateRange)
	assert.Equal(t, "Built billing pipeline", got[1].BodyText)
}

func TestSplitExperience_DateLineOptional(t *testing.T) {
	block := types.Block{
		ID:       "b3",
		BodyHTML: `<p>Intro text is ignored</p><p><b>Consultant (Remote)</b></p><p>Advised clients</p>`,
	}
	got := SplitExperience(block)
	require.Len(t, got, 1)
	assert.Equal(t, "Consultant (Remote)", got[0].Title)
	assert.Equal(t, "Remote", got[0].WorkMode)
	assert.Equal(t, "Remote", got[0].Location, "work mode stands in for a missing location")
	assert.Equal(t, "", got[0].DateRange)
	assert.Equal(t, "Advised clients", got[0].BodyText)
}

func TestSplitExperience_YearAndPresentDateLine(t *testing.T) {
	block := types.Block{
		ID:       "b4",
		BodyHTML: `<p><strong>Lead at Initech</strong></p><p>Since 2021, current role</p><p>Runs things</p>`,
	}
	got := SplitExperience(block)
	require.Len(t, got, 1)
	assert.Equal(t, "Since 2021, current role", got[0].DateRange)
	assert.Equal(t, "Runs things", got[0].BodyText)
}

func TestSplitExperience_NoHeaders(t *testing.T) {
	assert.Empty(t, SplitExperience(types.Block{ID: "b1", BodyHTML: "<p>Just prose about work</p>"}))
	assert.Empty(t, SplitExperience(types.Block{ID: "b1"}))
}

func TestSplitEducation(t *testing.T) {
	tests := []struct {
		name           string
		block          types.Block
		expectedSchool string
		expectedDegree string
		expectedRange  string
	}{
		{
			name:           "Degree heading under school caption",
			block:          types.Block{ID: "b5", Heading: "B.S. Computer Science", SectionHeading: "State University", BodyText: "Sept 2012 - May 2016\nDean's list"},
			expectedSchool: "State University",
			expectedDegree: "B.S. Computer Science",
			expectedRange:  "Sept 2012 - May 2016",
		},
		{
			name:           "School heading under degree caption",
			block:          types.Block{ID: "b5", Heading: "Tech Institute", SectionHeading: "Master's in Data Science", BodyText: "2018 - 2020"},
			expectedSchool: "Tech Institute",
			expectedDegree: "Master's in Data Science",
			expectedRange:  "2018 - 2020",
		},
		{
			name:           "No hints: heading is degree, caption is school",
			block:          types.Block{ID: "b5", Heading: "Computer Science", SectionHeading: "Education"},
			expectedSchool: "Education",
			expectedDegree: "Computer Science",
		},
		{
			name:           "School heading without caption",
			block:          types.Block{ID: "b5", Heading: "City College", BodyText: "Coursework in mathematics"},
			expectedSchool: "City College",
			expectedDegree: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEducation(tt.block)
			require.Len(t, got, 1)
			assert.Equal(t, "b5_edu1", got[0].ID)
			assert.Equal(t, types.LabelEducation, got[0].Section)
			assert.Equal(t, tt.expectedSchool, got[0].School)
			assert.Equal(t, tt.expectedDegree, got[0].Degree)
			assert.Equal(t, tt.expectedRange, got[0].DateRange)
		})
	}
}

func TestSplitEducation_YearRangeFallback(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "filler text "
	}
	got := SplitEducation(types.Block{ID: "b6", Heading: "University of Somewhere", BodyText: long + "attended 2001-2005"})
	require.Len(t, got, 1)
	assert.Equal(t, "2001-2005", got[0].DateRange)
}

func TestSplit(t *testing.T) {
	blocks := []types.Block{
		{ID: "b_header", Label: types.LabelHeader, BodyText: "Jane"},
		{ID: "b2", Label: types.LabelExperience, BodyHTML: `<p><b>Dev at Acme</b></p><p>Coded</p>`},
		{ID: "b3", Label: types.LabelEducation, Heading: "State University"},
		{ID: "b4", Label: types.LabelSkills, Heading: "Skills", BodyText: "Go, SQL"},
	}
	got := Split(blocks)
	require.Len(t, got.Experience, 1)
	require.Len(t, got.Education, 1)
	require.Len(t, got.Skills, 1)
	assert.Equal(t, "b2_job1", got.Experience[0].ID)
	assert.Equal(t, "b3_edu1", got.Education[0].ID)
	assert.Equal(t, types.RawSkills{ID: "b4_skills1", Section: types.LabelSkills, Heading: "Skills", BodyText: "Go, SQL"}, got.Skills[0])

	empty := Split(nil)
	assert.NotNil(t, empty.Experience)
	assert.NotNil(t, empty.Education)
	assert.NotNil(t, empty.Skills)
}
