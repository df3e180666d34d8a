package resumeclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

// envelope covers the response shapes the persistence service has used for a
// stored résumé.
type envelope struct {
	ID             string            `json:"id"`
	ResumeID       string            `json:"resumeId"`
	ResumeForm     *storedForm `json:"resumeForm"`
	Resume         *envelope   `json:"resume"`
	CurrentVersion *envelope   `json:"currentVersion"`
}

// storedForm is a form as the persistence service returns it. Older records
// keep skills as free text instead of a list.
type storedForm types.ResumeForm

func (f *storedForm) UnmarshalJSON(data []byte) error {
	type plain types.ResumeForm
	aux := struct {
		*plain
		Skills json.RawMessage `json:"skills"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Skills)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		f.Skills = nil
	case raw[0] == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		f.Skills = normalize.ParseSkillsText(text)
	default:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		f.Skills = list
	}
	return nil
}

// formProbe is decoded loosely to decide whether a bare object is a form.
type formProbe struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Experiences []json.RawMessage `json:"experiences"`
	Education   []json.RawMessage `json:"education"`
	Skills      json.RawMessage   `json:"skills"`
}

// NormalizePayload reduces any accepted persistence response shape to one
// canonical résumé. It returns nil when the payload holds no form. The form is
// normalized before it is returned.
func NormalizePayload(body []byte) (*types.CanonicalResume, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	// Unwrap {"data": ...}.
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if body[0] == '{' {
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		if len(bytes.TrimSpace(wrapper.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(wrapper.Data), []byte("null")) {
			body = bytes.TrimSpace(wrapper.Data)
		}
	}

	if body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		if len(items) == 0 {
			return nil, nil
		}
		body = bytes.TrimSpace(items[0])
	}

	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	switch {
	case env.ResumeForm != nil:
		return canonical(firstNonEmpty(env.ResumeID, env.ID), env.ResumeForm), nil
	case env.Resume != nil && env.Resume.ResumeForm != nil:
		id := firstNonEmpty(env.Resume.ResumeID, env.ResumeID, env.ID)
		return canonical(id, env.Resume.ResumeForm), nil
	case env.CurrentVersion != nil && env.CurrentVersion.ResumeForm != nil:
		return canonical(firstNonEmpty(env.ResumeID, env.ID), env.CurrentVersion.ResumeForm), nil
	}

	var probe formProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, nil
	}
	if !looksLikeForm(probe) {
		return nil, nil
	}
	var form storedForm
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, fmt.Errorf("failed to decode form: %w", err)
	}
	return canonical("", &form), nil
}

func looksLikeForm(p formProbe) bool {
	if p.Name != "" || p.Email != "" || len(p.Experiences) > 0 || len(p.Education) > 0 {
		return true
	}
	return len(p.Skills) > 0 && p.Skills[0] == '['
}

func canonical(resumeID string, f *storedForm) *types.CanonicalResume {
	return &types.CanonicalResume{ResumeID: resumeID, ResumeForm: normalize.ResumeForm(types.ResumeForm(*f))}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
