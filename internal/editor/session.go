// Package editor holds the editable résumé state of one user: the canonical
// form, its validation errors, the last import and the persisted résumé it
// was loaded from.
package editor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/jobtracker/internal/form"
	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/resumeclient"
	"github.com/jonathan/jobtracker/internal/types"
)

// Status messages shown to the user.
const (
	MsgParsing        = "Parsing..."
	MsgParseFailed    = "Failed to parse file"
	MsgSaving         = "Saving..."
	MsgSavedVersion   = "Saved new version to backend"
	MsgCreatedResume  = "Created resume and initial version"
	MsgSaveFailed     = "Failed to save to backend"
	MsgLoadFailed     = "Failed to load resume"
	maxReportedErrors = 5
)

// Top-level form fields accepted by UpdateTopField.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldSummary = "summary"
)

// Parser imports a document into a form.
type Parser interface {
	Parse(ctx context.Context, fileName string, data []byte) (*types.ParseResult, error)
}

// Client persists and loads résumés.
type Client interface {
	CreateResume(ctx context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error)
	AppendVersion(ctx context.Context, v types.ResumeVersion) (*types.StoredVersion, error)
	FetchLatest(ctx context.Context, userID string) (*types.CanonicalResume, error)
}

// ValidationError blocks a save. Messages holds every validation message.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Session is the single owner of a résumé form while it is edited. It is not
// safe for concurrent use: results of background work are handed back to the
// owner, which applies them through the generation guard.
type Session struct {
	UserID   string
	Form     types.ResumeForm
	Errors   []string
	Message  string
	FileName string
	// Import is the last successful import, kept for the version's importMeta.
	Import *types.ParseResult
	// Current is the persisted résumé the form was loaded from or saved to.
	Current *types.CanonicalResume

	generation uint64
	invalid    bool
	now        func() time.Time
}

// New creates a session with an empty form.
func New(userID string) *Session {
	return &Session{
		UserID: userID,
		Form:   types.NewResumeForm(),
		Errors: []string{},
		now:    time.Now,
	}
}

// BeginImport starts an import of fileName and returns its generation. Any
// import started earlier becomes stale.
func (s *Session) BeginImport(fileName string) uint64 {
	s.generation++
	s.FileName = fileName
	s.Message = MsgParsing
	return s.generation
}

// ApplyImport applies the outcome of the import started as gen. It reports
// false and changes nothing when the import is stale or the session was
// invalidated. A failed import leaves the form untouched.
func (s *Session) ApplyImport(gen uint64, res *types.ParseResult, err error) bool {
	if s.invalid || gen != s.generation {
		return false
	}
	if err != nil || res == nil {
		s.Message = MsgParseFailed
		return true
	}
	s.Form = form.MergeImported(s.Form, res.ResumeForm)
	s.Import = res
	s.Message = fmt.Sprintf("Parsed locally — experiences %d, education %d",
		len(s.Form.Experiences), len(s.Form.Education))
	return true
}

// Import parses data with p and applies the result.
func (s *Session) Import(ctx context.Context, p Parser, fileName string, data []byte) error {
	gen := s.BeginImport(fileName)
	res, err := p.Parse(ctx, fileName, data)
	if err != nil {
		log.Printf("[editor] failed to parse %s: %v", fileName, err)
	}
	s.ApplyImport(gen, res, err)
	return err
}

// Invalidate marks the session as no longer displayed. Pending imports are
// discarded when they finish.
func (s *Session) Invalidate() {
	s.invalid = true
}

// Relevant reports whether results may still be applied.
func (s *Session) Relevant() bool {
	return !s.invalid
}

// UpdateTopField sets one of name, email, phone or summary and clears the
// errors mentioning it.
func (s *Session) UpdateTopField(key, value string) error {
	switch key {
	case FieldName:
		s.Form.Name = value
	case FieldEmail:
		s.Form.Email = value
	case FieldPhone:
		s.Form.Phone = value
	case FieldSummary:
		s.Form.Summary = value
	default:
		return fmt.Errorf("unknown form field %q", key)
	}
	s.Errors = form.ClearKeywords(s.Errors, key)
	return nil
}

// UpdateSkillsText replaces the skills with the parsed list.
func (s *Session) UpdateSkillsText(text string) {
	s.Form.Skills = normalize.ParseSkillsText(text)
	s.Errors = form.ClearKeywords(s.Errors, "skills")
}

// SkillsText is the comma separated view of the skills.
func (s *Session) SkillsText() string {
	return strings.Join(s.Form.Skills, ", ")
}

// UpdateExperience applies patch to the idx'th experience entry and clears the
// errors of the patched fields. Out of range indexes are ignored.
func (s *Session) UpdateExperience(idx int, patch ExperiencePatch) {
	if idx < 0 || idx >= len(s.Form.Experiences) {
		return
	}
	s.Form.Experiences = append([]types.ExperienceEntry(nil), s.Form.Experiences...)
	patch.apply(&s.Form.Experiences[idx])
	s.Errors = form.ClearExperienceFields(s.Errors, idx, patch.fields()...)
}

// AddExperience appends an empty experience entry.
func (s *Session) AddExperience() {
	s.Form.Experiences = append(s.Form.Experiences, types.ExperienceEntry{})
}

// RemoveExperience drops the idx'th experience entry.
func (s *Session) RemoveExperience(idx int) {
	if idx < 0 || idx >= len(s.Form.Experiences) {
		return
	}
	out := make([]types.ExperienceEntry, 0, len(s.Form.Experiences)-1)
	out = append(out, s.Form.Experiences[:idx]...)
	s.Form.Experiences = append(out, s.Form.Experiences[idx+1:]...)
}

// UpdateEducation applies patch to the idx'th education entry and clears the
// errors of the patched fields.
func (s *Session) UpdateEducation(idx int, patch EducationPatch) {
	if idx < 0 || idx >= len(s.Form.Education) {
		return
	}
	s.Form.Education = append([]types.EducationEntry(nil), s.Form.Education...)
	patch.apply(&s.Form.Education[idx])
	s.Errors = form.ClearEducationFields(s.Errors, idx, patch.fields()...)
}

// AddEducation appends an empty education entry.
func (s *Session) AddEducation() {
	s.Form.Education = append(s.Form.Education, types.EducationEntry{})
}

// RemoveEducation drops the idx'th education entry.
func (s *Session) RemoveEducation(idx int) {
	if idx < 0 || idx >= len(s.Form.Education) {
		return
	}
	out := make([]types.EducationEntry, 0, len(s.Form.Education)-1)
	out = append(out, s.Form.Education[:idx]...)
	s.Form.Education = append(out, s.Form.Education[idx+1:]...)
}

// Validate normalizes the form, validates it and stores the errors.
func (s *Session) Validate() []string {
	normalized := normalize.ResumeForm(s.Form)
	s.Errors = form.Validate(&normalized)
	return s.Errors
}

// Save normalizes and validates the form, then stores it as a new version of
// the current résumé, creating the résumé first when there is none. On any
// failure the form is kept as it is. When the session is invalidated while a
// request is in flight, its outcome is returned but not applied.
func (s *Session) Save(ctx context.Context, c Client) error {
	normalized := normalize.ResumeForm(s.Form)
	if errs := form.Validate(&normalized); len(errs) > 0 {
		s.Errors = errs
		shown := errs
		if len(shown) > maxReportedErrors {
			shown = shown[:maxReportedErrors]
		}
		s.Message = "Please fix: " + strings.Join(shown, "; ")
		return &ValidationError{Messages: errs}
	}
	s.Form = normalized
	base := s.baseVersion(normalized)

	s.Message = MsgSaving
	if s.Current != nil && s.Current.ResumeID != "" {
		v := base
		v.ResumeID = s.Current.ResumeID
		if _, err := c.AppendVersion(ctx, v); err != nil {
			if s.Relevant() {
				s.Message = MsgSaveFailed
			}
			return err
		}
		if !s.Relevant() {
			return nil
		}
		s.Current.ResumeForm = normalized.Clone()
		s.Errors = []string{}
		s.Message = MsgSavedVersion
		return nil
	}

	initial := base
	created, err := c.CreateResume(ctx, types.CreateResumeRequest{
		UserID:         s.UserID,
		Title:          resumeclient.DefaultTitle,
		MakeActive:     true,
		InitialVersion: &initial,
	})
	if err != nil {
		if s.Relevant() {
			s.Message = MsgSaveFailed
		}
		return err
	}

	v := base
	v.ResumeID = created.ResumeID
	if _, err := c.AppendVersion(ctx, v); err != nil {
		log.Printf("[editor] failed to create version after resume creation: %v", err)
	}
	if !s.Relevant() {
		return nil
	}
	s.Current = &types.CanonicalResume{ResumeID: created.ResumeID, ResumeForm: normalized.Clone()}
	s.Errors = []string{}
	s.Message = MsgCreatedResume
	return nil
}

func (s *Session) baseVersion(f types.ResumeForm) types.ResumeVersion {
	now := s.now().UTC()
	parser := ""
	if s.Import != nil {
		parser = s.Import.Parser
	}
	v := types.ResumeVersion{
		UserID:     s.UserID,
		SourceType: types.SourceForm,
		ResumeForm: f,
		Meta: types.VersionMeta{
			SchemaVersion:        types.SchemaVersion,
			CreatedAt:            now,
			UpdatedAt:            now,
			Parser:               parser,
			ParserVersion:        importer.ParserVersion,
			NormalizationVersion: types.NormalizationVersion,
		},
		CreatedAt: now,
	}
	if s.FileName != "" {
		v.SourceType = types.SourceDocxImport
		v.FileName = s.FileName
		meta := &types.ImportMeta{Parser: parser, ParserVersion: importer.ParserVersion}
		if s.Import != nil {
			skel := s.Import.DebugSkeleton
			meta.HTML = s.Import.RawHTML
			meta.PlainText = s.Import.PlainText
			meta.ResumeJSON = &skel
		}
		v.ImportMeta = meta
	}
	return v
}

// Load replaces the form with the latest saved résumé of userID. It reports
// whether one was found; when none is, the form is left as it is. Nothing is
// applied when the session was invalidated during the fetch.
func (s *Session) Load(ctx context.Context, c Client, userID string) (bool, error) {
	s.UserID = userID
	latest, err := c.FetchLatest(ctx, userID)
	if !s.Relevant() {
		return false, err
	}
	if err != nil {
		s.Message = MsgLoadFailed
		return false, err
	}
	s.Current = latest
	if latest == nil {
		return false, nil
	}
	s.Form = normalize.ResumeForm(latest.ResumeForm)
	s.Errors = []string{}
	return true, nil
}

// Cancel reverts the form to the persisted résumé, if there is one.
func (s *Session) Cancel() {
	if s.Current == nil {
		return
	}
	s.Form = normalize.ResumeForm(s.Current.ResumeForm)
	s.Errors = []string{}
}
