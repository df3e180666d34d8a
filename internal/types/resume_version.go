package types

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Source types recorded on a saved version.
const (
	SourceDocxImport = "docx_import"
	SourceForm       = "form"
)

// Schema and normalization versions stamped on every saved version.
const (
	SchemaVersion        = 1
	NormalizationVersion = 1
)

// ImportMeta keeps the raw import artifacts alongside a saved version.
type ImportMeta struct {
	HTML          string    `json:"html,omitempty"`
	PlainText     string    `json:"plainText,omitempty"`
	ResumeJSON    *Skeleton `json:"resumeJson,omitempty"`
	Parser        string    `json:"parser"`
	ParserVersion string    `json:"parserVersion"`
}

// VersionMeta describes how a version was produced.
type VersionMeta struct {
	SchemaVersion        int       `json:"schemaVersion"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	Parser               string    `json:"parser"`
	ParserVersion        string    `json:"parserVersion"`
	NormalizationVersion int       `json:"normalizationVersion"`
}

// ResumeVersion is the body of POST /api/resume/version and the
// initialVersion of POST /api/resume.
type ResumeVersion struct {
	ResumeID   string      `json:"resumeId,omitempty"`
	UserID     string      `json:"userId,omitempty"`
	SourceType string      `json:"sourceType" validate:"required,oneof=docx_import form"`
	FileName   string      `json:"fileName,omitempty"`
	ResumeForm ResumeForm  `json:"resumeForm"`
	ImportMeta *ImportMeta `json:"importMeta,omitempty"`
	Meta       VersionMeta `json:"meta"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// CreateResumeRequest is the body of POST /api/resume.
type CreateResumeRequest struct {
	UserID         string         `json:"userId" validate:"required"`
	Title          string         `json:"title" validate:"required,max=200"`
	MakeActive     bool           `json:"makeActive"`
	InitialVersion *ResumeVersion `json:"initialVersion,omitempty"`
}

// CreatedResume is the response of POST /api/resume.
type CreatedResume struct {
	ResumeID  string    `json:"resumeId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredVersion is the response of POST /api/resume/version.
type StoredVersion struct {
	VersionID     string    `json:"versionId"`
	ResumeID      string    `json:"resumeId"`
	VersionNumber int       `json:"versionNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LatestResume is the response of GET /api/resume/user/:id.
type LatestResume struct {
	ResumeID       string         `json:"resumeId"`
	UserID         string         `json:"userId"`
	Title          string         `json:"title"`
	CurrentVersion *ResumeVersion `json:"currentVersion,omitempty"`
}

// CanonicalResume is the single shape every fetched payload is reduced to.
type CanonicalResume struct {
	ResumeID   string     `json:"resumeId,omitempty"`
	ResumeForm ResumeForm `json:"resumeForm"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ResumeVersion using the validator. A version sent on
// its own must name its résumé.
func (v *ResumeVersion) Validate() error {
	validate := validator.New()
	if err := validate.Struct(v); err != nil {
		return err
	}
	if v.ResumeID == "" {
		return errors.New("resumeId is required")
	}
	return nil
}
