// Package schemas embeds the JSON Schema documents of the persisted résumé
// payloads.
package schemas

import "embed"

// Schema file names.
const (
	ResumeForm    = "resume_form.schema.json"
	ResumeVersion = "resume_version.schema.json"
)

// FS holds every *.schema.json file of this directory.
//
//go:embed *.schema.json
var FS embed.FS
