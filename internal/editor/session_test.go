package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/jobtracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	created     []types.CreateResumeRequest
	versions    []types.ResumeVersion
	latest      *types.CanonicalResume
	createErr   error
	appendErr   error
	fetchErr    error
	createdID   string
	fetchedUser string

	// during runs while a request is in flight.
	during func()
}

func (f *fakeClient) inFlight() {
	if f.during != nil {
		f.during()
	}
}

func (f *fakeClient) CreateResume(_ context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error) {
	f.inFlight()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &types.CreatedResume{ResumeID: f.createdID, UserID: req.UserID, Title: req.Title}, nil
}

func (f *fakeClient) AppendVersion(_ context.Context, v types.ResumeVersion) (*types.StoredVersion, error) {
	f.inFlight()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.versions = append(f.versions, v)
	return &types.StoredVersion{VersionID: "v", ResumeID: v.ResumeID, VersionNumber: len(f.versions)}, nil
}

func (f *fakeClient) FetchLatest(_ context.Context, userID string) (*types.CanonicalResume, error) {
	f.fetchedUser = userID
	f.inFlight()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.latest, nil
}

type fakeParser struct {
	result *types.ParseResult
	err    error
}

func (p fakeParser) Parse(_ context.Context, _ string, _ []byte) (*types.ParseResult, error) {
	return p.result, p.err
}

func validForm() types.ResumeForm {
	return types.ResumeForm{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Phone:  "+1 555 123 4567",
		Skills: []string{"Go"},
		Experiences: []types.ExperienceEntry{
			{Title: "Engineer", Company: "Acme", StartDate: "2020-01", Current: true},
		},
		Education: []types.EducationEntry{},
	}
}

func importResult() *types.ParseResult {
	return &types.ParseResult{
		ResumeForm: types.ResumeForm{
			Email:  "parsed@example.com",
			Skills: []string{"Go", "SQL"},
			Experiences: []types.ExperienceEntry{
				{Title: "Engineer", Company: "Acme", StartDate: "2020-01"},
				{Title: "Intern", Company: "Beta", StartDate: "2019-06"},
			},
			Education: []types.EducationEntry{},
		},
		RawHTML:   "<p>Jane</p>",
		PlainText: "Jane\n",
		Parser:    "docx",
	}
}

func fixedSession(userID string) *Session {
	s := New(userID)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestNew(t *testing.T) {
	s := New("u1")
	assert.Equal(t, "u1", s.UserID)
	assert.NotNil(t, s.Form.Experiences)
	assert.Empty(t, s.Errors)
	assert.True(t, s.Relevant())
}

func TestApplyImport_MergesIntoForm(t *testing.T) {
	s := New("u1")
	s.Form.Name = "Jane Doe"

	gen := s.BeginImport("resume.docx")
	assert.Equal(t, MsgParsing, s.Message)
	assert.Equal(t, "resume.docx", s.FileName)

	applied := s.ApplyImport(gen, importResult(), nil)
	require.True(t, applied)
	assert.Equal(t, "Jane Doe", s.Form.Name, "imports never replace the name")
	assert.Equal(t, "parsed@example.com", s.Form.Email)
	assert.Len(t, s.Form.Experiences, 2)
	assert.Equal(t, "Parsed locally — experiences 2, education 0", s.Message)
	assert.NotNil(t, s.Import)
}

func TestApplyImport_StaleGenerationDiscarded(t *testing.T) {
	s := New("u1")
	first := s.BeginImport("old.docx")
	second := s.BeginImport("new.docx")

	assert.False(t, s.ApplyImport(first, importResult(), nil))
	assert.Empty(t, s.Form.Experiences)
	assert.Nil(t, s.Import)

	assert.True(t, s.ApplyImport(second, importResult(), nil))
	assert.Len(t, s.Form.Experiences, 2)
}

func TestApplyImport_DiscardedAfterInvalidate(t *testing.T) {
	s := New("u1")
	gen := s.BeginImport("resume.docx")
	s.Invalidate()

	assert.False(t, s.Relevant())
	assert.False(t, s.ApplyImport(gen, importResult(), nil))
	assert.Empty(t, s.Form.Experiences)
}

func TestApplyImport_FailureKeepsForm(t *testing.T) {
	s := New("u1")
	s.Form = validForm()

	gen := s.BeginImport("broken.docx")
	assert.True(t, s.ApplyImport(gen, nil, errors.New("corrupt")))
	assert.Equal(t, MsgParseFailed, s.Message)
	assert.Equal(t, validForm(), s.Form)
	assert.Nil(t, s.Import)
}

func TestImport(t *testing.T) {
	s := New("u1")
	err := s.Import(context.Background(), fakeParser{result: importResult()}, "resume.docx", []byte("x"))
	require.NoError(t, err)
	assert.Len(t, s.Form.Experiences, 2)

	err = s.Import(context.Background(), fakeParser{err: errors.New("boom")}, "bad.docx", nil)
	require.Error(t, err)
	assert.Equal(t, MsgParseFailed, s.Message)
	assert.Len(t, s.Form.Experiences, 2)
}

func TestUpdateTopField_ClearsOnlyMatchingErrors(t *testing.T) {
	s := New("u1")
	s.Errors = []string{"Name is required", "Email is required", "Experience 1: title is required"}

	require.NoError(t, s.UpdateTopField(FieldName, "Jane"))
	assert.Equal(t, "Jane", s.Form.Name)
	assert.Equal(t, []string{"Email is required", "Experience 1: title is required"}, s.Errors)

	assert.Error(t, s.UpdateTopField("title", "x"))
}

func TestUpdateExperience(t *testing.T) {
	s := New("u1")
	s.AddExperience()
	s.AddExperience()
	s.Errors = []string{
		"Experience 1: title is required",
		"Experience 1: start date is required",
		"Experience 2: title is required",
	}

	s.UpdateExperience(0, ExperiencePatch{Title: String("Engineer"), StartDate: String("2020-01")})
	assert.Equal(t, "Engineer", s.Form.Experiences[0].Title)
	assert.Equal(t, "2020-01", s.Form.Experiences[0].StartDate)
	assert.Equal(t, []string{"Experience 2: title is required"}, s.Errors)

	s.UpdateExperience(5, ExperiencePatch{Title: String("ignored")})
	assert.Len(t, s.Form.Experiences, 2)

	s.UpdateExperience(1, ExperiencePatch{Current: Bool(true)})
	assert.True(t, s.Form.Experiences[1].Current)
	assert.Equal(t, []string{"Experience 2: title is required"}, s.Errors)
}

func TestRemoveExperience(t *testing.T) {
	s := New("u1")
	s.Form.Experiences = []types.ExperienceEntry{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	s.RemoveExperience(1)
	require.Len(t, s.Form.Experiences, 2)
	assert.Equal(t, "A", s.Form.Experiences[0].Title)
	assert.Equal(t, "C", s.Form.Experiences[1].Title)

	s.RemoveExperience(-1)
	assert.Len(t, s.Form.Experiences, 2)
}

func TestEducationOperations(t *testing.T) {
	s := New("u1")
	s.AddEducation()
	s.Errors = []string{"Education 1: school is required", "Education 1: degree is required"}

	s.UpdateEducation(0, EducationPatch{School: String("State University")})
	assert.Equal(t, "State University", s.Form.Education[0].School)
	assert.Equal(t, []string{"Education 1: degree is required"}, s.Errors)

	s.RemoveEducation(0)
	assert.Empty(t, s.Form.Education)
}

func TestUpdateSkillsText(t *testing.T) {
	s := New("u1")
	s.Errors = []string{"Skills contains invalid entries", "Name is required"}

	s.UpdateSkillsText("Go, go; SQL\nDocker")
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, s.Form.Skills)
	assert.Equal(t, "Go, SQL, Docker", s.SkillsText())
	assert.Equal(t, []string{"Name is required"}, s.Errors)
}

func TestValidate(t *testing.T) {
	s := New("u1")
	s.Form = validForm()
	assert.Empty(t, s.Validate())

	s.Form.Name = ""
	assert.Equal(t, []string{"Name is required"}, s.Validate())
}

func TestSave_ValidationBlocksSave(t *testing.T) {
	s := New("u1")
	c := &fakeClient{}

	err := s.Save(context.Background(), c)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, s.Errors, vErr.Messages)
	assert.Equal(t, "Please fix: Name is required; Email is required; Phone is required; Add at least one Experience or Education entry", s.Message)
	assert.Empty(t, c.created)
	assert.Empty(t, c.versions)
}

func TestSave_MessageShowsFirstFiveErrors(t *testing.T) {
	s := New("u1")
	s.Form.Experiences = []types.ExperienceEntry{{}, {}}
	c := &fakeClient{}

	require.Error(t, s.Save(context.Background(), c))
	assert.Greater(t, len(s.Errors), 5)
	assert.Equal(t, "Please fix: Name is required; Email is required; Phone is required; Experience 1: title is required; Experience 1: company is required", s.Message)
}

func TestSave_CreatesResumeWhenNoneExists(t *testing.T) {
	s := fixedSession("u1")
	s.Form = validForm()
	s.Form.Name = "  Jane   Doe "
	c := &fakeClient{createdID: "r1"}

	require.NoError(t, s.Save(context.Background(), c))
	assert.Equal(t, MsgCreatedResume, s.Message)
	assert.Equal(t, "Jane Doe", s.Form.Name, "the saved form is the normalized one")

	require.Len(t, c.created, 1)
	req := c.created[0]
	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, "Default Resume", req.Title)
	assert.True(t, req.MakeActive)
	require.NotNil(t, req.InitialVersion)
	assert.Equal(t, types.SourceForm, req.InitialVersion.SourceType)
	assert.Nil(t, req.InitialVersion.ImportMeta)
	assert.Equal(t, 1, req.InitialVersion.Meta.SchemaVersion)
	assert.Equal(t, 1, req.InitialVersion.Meta.NormalizationVersion)

	require.Len(t, c.versions, 1)
	assert.Equal(t, "r1", c.versions[0].ResumeID)
	require.NotNil(t, s.Current)
	assert.Equal(t, "r1", s.Current.ResumeID)
}

func TestSave_AppendsVersionToKnownResume(t *testing.T) {
	s := fixedSession("u1")
	s.Current = &types.CanonicalResume{ResumeID: "r7", ResumeForm: validForm()}
	s.Form = validForm()
	s.Form.Summary = "Updated"
	s.Errors = []string{"stale"}
	c := &fakeClient{}

	require.NoError(t, s.Save(context.Background(), c))
	assert.Equal(t, MsgSavedVersion, s.Message)
	assert.Empty(t, s.Errors)
	assert.Empty(t, c.created)
	require.Len(t, c.versions, 1)
	assert.Equal(t, "r7", c.versions[0].ResumeID)
	assert.Equal(t, "Updated", s.Current.ResumeForm.Summary)
}

func TestSave_ImportedVersionCarriesImportMeta(t *testing.T) {
	s := fixedSession("u1")
	s.Current = &types.CanonicalResume{ResumeID: "r1"}
	s.Form = validForm()
	gen := s.BeginImport("resume.docx")
	require.True(t, s.ApplyImport(gen, importResult(), nil))
	c := &fakeClient{}

	require.NoError(t, s.Save(context.Background(), c))
	require.Len(t, c.versions, 1)
	v := c.versions[0]
	assert.Equal(t, types.SourceDocxImport, v.SourceType)
	assert.Equal(t, "resume.docx", v.FileName)
	require.NotNil(t, v.ImportMeta)
	assert.Equal(t, "<p>Jane</p>", v.ImportMeta.HTML)
	assert.Equal(t, "docx", v.ImportMeta.Parser)
	assert.NotNil(t, v.ImportMeta.ResumeJSON)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), v.CreatedAt)
}

func TestSave_PersistenceFailureKeepsForm(t *testing.T) {
	s := New("u1")
	s.Form = validForm()
	c := &fakeClient{createErr: errors.New("connection refused")}

	require.Error(t, s.Save(context.Background(), c))
	assert.Equal(t, MsgSaveFailed, s.Message)
	assert.Equal(t, "Jane Doe", s.Form.Name)
	assert.Nil(t, s.Current)
}

func TestSave_VersionFailureAfterCreateIsNotFatal(t *testing.T) {
	s := New("u1")
	s.Form = validForm()
	c := &fakeClient{createdID: "r1", appendErr: errors.New("server error")}

	require.NoError(t, s.Save(context.Background(), c))
	assert.Equal(t, MsgCreatedResume, s.Message)
}

func TestLoadAndCancel(t *testing.T) {
	saved := validForm()
	saved.Name = "  Saved   Name "
	c := &fakeClient{latest: &types.CanonicalResume{ResumeID: "r1", ResumeForm: saved}}
	s := New("")

	found, err := s.Load(context.Background(), c, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u1", c.fetchedUser)
	assert.Equal(t, "Saved Name", s.Form.Name)

	require.NoError(t, s.UpdateTopField(FieldName, "Edited"))
	s.Cancel()
	assert.Equal(t, "Saved Name", s.Form.Name)
}

func TestLoad_NothingSaved(t *testing.T) {
	s := New("u1")
	s.Form.Name = "Draft"

	found, err := s.Load(context.Background(), &fakeClient{}, "u1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "Draft", s.Form.Name)

	s.Cancel()
	assert.Equal(t, "Draft", s.Form.Name)
}

func TestLoad_Failure(t *testing.T) {
	s := New("u1")
	_, err := s.Load(context.Background(), &fakeClient{fetchErr: errors.New("down")}, "u1")
	require.Error(t, err)
	assert.Equal(t, MsgLoadFailed, s.Message)
}

func TestSave_InvalidatedDuringRequest(t *testing.T) {
	tests := []struct {
		name      string
		current   *types.CanonicalResume
		createErr error
		appendErr error
		wantErr   bool
	}{
		{name: "append succeeds", current: &types.CanonicalResume{ResumeID: "r7", ResumeForm: validForm()}},
		{name: "append fails", current: &types.CanonicalResume{ResumeID: "r7", ResumeForm: validForm()}, appendErr: errors.New("down"), wantErr: true},
		{name: "create succeeds"},
		{name: "create fails", createErr: errors.New("down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fixedSession("u1")
			s.Current = tt.current
			s.Form = validForm()
			s.Form.Summary = "Edited"
			s.Errors = []string{"stale"}
			c := &fakeClient{createdID: "r1", createErr: tt.createErr, appendErr: tt.appendErr, during: s.Invalidate}

			err := s.Save(context.Background(), c)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, MsgSaving, s.Message)
			assert.Equal(t, []string{"stale"}, s.Errors)
			if tt.current == nil {
				assert.Nil(t, s.Current)
			} else {
				assert.Empty(t, s.Current.ResumeForm.Summary)
			}
		})
	}
}

func TestLoad_InvalidatedDuringFetch(t *testing.T) {
	t.Run("result discarded", func(t *testing.T) {
		s := New("u1")
		s.Form.Name = "Draft"
		c := &fakeClient{latest: &types.CanonicalResume{ResumeID: "r1", ResumeForm: validForm()}, during: s.Invalidate}

		found, err := s.Load(context.Background(), c, "u1")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, "Draft", s.Form.Name)
		assert.Nil(t, s.Current)
	})

	t.Run("failure not reported", func(t *testing.T) {
		s := New("u1")
		c := &fakeClient{fetchErr: errors.New("down"), during: s.Invalidate}

		_, err := s.Load(context.Background(), c, "u1")
		require.Error(t, err)
		assert.Empty(t, s.Message)
	})
}
