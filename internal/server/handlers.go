package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/jobtracker/internal/form"
	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/types"
)

// ParseResponse is the response of POST /api/parse: the import result and the
// save-rule violations of its form.
type ParseResponse struct {
	*types.ParseResult
	Errors []string `json:"errors"`
}

// ValidateResponse is the response of POST /api/validate
type ValidateResponse struct {
	ResumeForm types.ResumeForm `json:"resumeForm"`
	Errors     []string         `json:"errors"`
	Valid      bool             `json:"valid"`
}

// handleParse imports the multipart "file" upload.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		s.failure(w, "parse", err)
		return
	}

	result, err := s.pipeline.Parse(r.Context(), name, data)
	if err != nil {
		s.failure(w, "parse", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ParseResponse{
		ParseResult: result,
		Errors:      s.pipeline.Validate(&result.ResumeForm),
	})
}

// handleParseStream imports the upload and streams each pipeline step via SSE
func (s *Server) handleParseStream(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		s.failure(w, "parse", err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	p := s.pipeline.WithProgress(func(ev importer.ProgressEvent) {
		if err := sse.WriteEvent("progress", ev); err != nil {
			log.Printf("[server] failed to write progress event: %v", err)
		}
	})
	result, err := p.Parse(r.Context(), name, data)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(name, "completed", ParseResponse{
		ParseResult: result,
		Errors:      p.Validate(&result.ResumeForm),
	})
}

// handleValidate normalizes a posted form and reports its violations.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var f types.ResumeForm
	if err := s.decodeJSON(w, r, &f); err != nil {
		s.failure(w, "validate", err)
		return
	}

	f = normalize.ResumeForm(f)
	errs := form.Validate(&f)
	s.jsonResponse(w, http.StatusOK, ValidateResponse{
		ResumeForm: f,
		Errors:     errs,
		Valid:      len(errs) == 0,
	})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req types.CreateResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, "create resume", err)
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, "create resume", err)
		return
	}
	if req.InitialVersion != nil {
		req.InitialVersion.ResumeForm = normalize.ResumeForm(req.InitialVersion.ResumeForm)
	}

	created, err := s.store.CreateResume(r.Context(), req)
	if err != nil {
		s.failure(w, "create resume", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleAddVersion(w http.ResponseWriter, r *http.Request) {
	var v types.ResumeVersion
	if err := s.decodeJSON(w, r, &v); err != nil {
		s.failure(w, "add version", err)
		return
	}
	if err := v.Validate(); err != nil {
		s.failure(w, "add version", &ErrValidation{Field: "version", Message: err.Error()})
		return
	}
	v.ResumeForm = normalize.ResumeForm(v.ResumeForm)

	stored, err := s.store.AddVersion(r.Context(), v)
	if err != nil {
		s.failure(w, "add version", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, stored)
}

func (s *Server) handleLatestForUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("id"))
	if userID == "" {
		s.errorResponse(w, http.StatusBadRequest, "User ID is required")
		return
	}

	latest, err := s.store.LatestForUser(r.Context(), userID)
	if err != nil {
		s.failure(w, "fetch resume", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, latest)
}

// readUpload returns the name and contents of the multipart "file" field.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return "", nil, &ErrRequestBody{Message: "expected a multipart upload", Cause: err}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, &ErrValidation{Field: "file", Message: "is required"}
		}
		return "", nil, &ErrRequestBody{Message: "unreadable file", Cause: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, &ErrRequestBody{Message: "unreadable file", Cause: err}
	}
	if len(data) == 0 {
		return "", nil, &ErrValidation{Field: "file", Message: "is empty"}
	}
	return header.Filename, data, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrRequestBody{Message: "malformed JSON", Cause: err}
	}
	return nil
}
