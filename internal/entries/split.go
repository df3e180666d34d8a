package entries

import "github.com/jonathan/jobtracker/internal/types"

// Split collects the entries of every EXPERIENCE, EDUCATION and SKILLS block
// in order.
func Split(blocks []types.Block) types.Entries {
	out := types.Entries{
		Experience: []types.RawExperience{},
		Education:  []types.RawEducation{},
		Skills:     []types.RawSkills{},
	}
	for _, b := range blocks {
		switch b.Label {
		case types.LabelExperience:
			out.Experience = append(out.Experience, SplitExperience(b)...)
		case types.LabelEducation:
			out.Education = append(out.Education, SplitEducation(b)...)
		case types.LabelSkills:
			out.Skills = append(out.Skills, types.RawSkills{
				ID:       b.ID + "_skills1",
				Section:  types.LabelSkills,
				Heading:  b.Heading,
				BodyText: b.BodyText,
			})
		}
	}
	return out
}
