package types

// Label is the section category assigned to a block.
type Label string

// Block labels. HEADER is only produced by header synthesis; OTHER when no
// label scores above zero.
const (
	LabelExperience     Label = "EXPERIENCE"
	LabelEducation      Label = "EDUCATION"
	LabelSkills         Label = "SKILLS"
	LabelSummary        Label = "SUMMARY"
	LabelProjects       Label = "PROJECTS"
	LabelCertifications Label = "CERTIFICATIONS"
	LabelAwards         Label = "AWARDS"
	LabelPublications   Label = "PUBLICATIONS"
	LabelVolunteering   Label = "VOLUNTEERING"
	LabelOther          Label = "OTHER"
	LabelHeader         Label = "HEADER"
)

// Block is a contiguous heading+body unit of the converted document.
// BodyText is the flattened text of BodyHTML and BulletCount counts its <li>
// elements.
type Block struct {
	ID             string  `json:"id"`
	Heading        string  `json:"heading"`
	HeadingLevel   *int    `json:"headingLevel"`
	BodyHTML       string  `json:"bodyHtml"`
	BodyText       string  `json:"bodyText"`
	BulletCount    int     `json:"bulletCount"`
	Label          Label   `json:"label"`
	Score          int     `json:"score"`
	Confidence     float64 `json:"confidence"`
	SectionHeading string  `json:"sectionHeading,omitempty"`
}

// RawExperience is a job entry as split out of an EXPERIENCE block, before
// date parsing and form assembly.
type RawExperience struct {
	ID           string `json:"id"`
	Section      Label  `json:"section"`
	EntryHeading string `json:"entryHeading"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	WorkMode     string `json:"workMode"`
	DateRange    string `json:"dateRange"`
	BodyText     string `json:"bodyText"`
}

// RawEducation is the single education entry of an EDUCATION block.
type RawEducation struct {
	ID        string `json:"id"`
	Section   Label  `json:"section"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	DateRange string `json:"dateRange"`
	BodyText  string `json:"bodyText"`
}

// RawSkills carries the body text of a SKILLS block.
type RawSkills struct {
	ID       string `json:"id"`
	Section  Label  `json:"section"`
	Heading  string `json:"heading"`
	BodyText string `json:"bodyText"`
}

// Entries groups the split entries by section.
type Entries struct {
	Experience []RawExperience `json:"EXPERIENCE"`
	Education  []RawEducation  `json:"EDUCATION"`
	Skills     []RawSkills     `json:"SKILLS"`
}

// Skeleton is the debug view of a parsed document: classified blocks, block
// IDs grouped by label, contact details and split entries.
type Skeleton struct {
	Blocks  []Block            `json:"blocks"`
	Groups  map[Label][]string `json:"groups"`
	Contact Contact            `json:"contact"`
	Entries Entries            `json:"entries"`
}

// BlockByID returns the block with the given ID.
func (s *Skeleton) BlockByID(id string) (Block, bool) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// ParseResult is the output of a document import.
type ParseResult struct {
	ResumeForm    ResumeForm `json:"resumeForm"`
	DebugSkeleton Skeleton   `json:"debugSkeleton"`
	RawHTML       string     `json:"rawHtml"`
	PlainText     string     `json:"plainText"`
	Parser        string     `json:"parser,omitempty"`
}
