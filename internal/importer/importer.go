// Package importer runs the document import pipeline: conversion,
// sanitization, segmentation, classification, entry splitting and form
// assembly.
package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/jobtracker/internal/classify"
	"github.com/jonathan/jobtracker/internal/contact"
	"github.com/jonathan/jobtracker/internal/conversion"
	"github.com/jonathan/jobtracker/internal/dom"
	"github.com/jonathan/jobtracker/internal/entries"
	"github.com/jonathan/jobtracker/internal/form"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/segmentation"
	"github.com/jonathan/jobtracker/internal/types"
)

// ParserVersion is recorded with every imported version.
const ParserVersion = "1.0.0"

// Pipeline steps reported through ProgressCallback.
const (
	StepConvert  = "convert"
	StepSegment  = "segment"
	StepClassify = "classify"
	StepSplit    = "split"
	StepAssemble = "assemble"
)

// ParseError is returned when a document cannot be imported. Its message is
// safe to show to users; Cause carries the detail.
type ParseError struct {
	FileName string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse file %q: %v", e.FileName, e.Cause)
	}
	return fmt.Sprintf("failed to parse file %q", e.FileName)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ProgressEvent describes a finished pipeline step.
type ProgressEvent struct {
	FileName string `json:"file_name"`
	Step     string `json:"step"`
	Message  string `json:"message"`
}

// ProgressCallback is called after each pipeline step.
type ProgressCallback func(event ProgressEvent)

// ConverterFunc picks a converter for a file.
type ConverterFunc func(fileName string, data []byte) (conversion.Converter, error)

// Options configures a Pipeline.
type Options struct {
	// Converters overrides converter selection; defaults to conversion.ForFile.
	Converters ConverterFunc
	OnProgress ProgressCallback
	Verbose    bool
}

// Pipeline turns document bytes into a ResumeForm. It holds no per-document
// state and is safe for concurrent use.
type Pipeline struct {
	converters ConverterFunc
	sanitizer  *conversion.Sanitizer
	onProgress ProgressCallback
	verbose    bool
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	converters := opts.Converters
	if converters == nil {
		converters = conversion.ForFile
	}
	return &Pipeline{
		converters: converters,
		sanitizer:  conversion.NewSanitizer(),
		onProgress: opts.OnProgress,
		verbose:    opts.Verbose,
	}
}

// WithProgress returns a copy of p that reports steps to cb.
func (p *Pipeline) WithProgress(cb ProgressCallback) *Pipeline {
	cp := *p
	cp.onProgress = cb
	return &cp
}

// Parse imports one document. Any failure is a *ParseError and nothing is
// partially returned.
func (p *Pipeline) Parse(ctx context.Context, fileName string, data []byte) (*types.ParseResult, error) {
	conv, err := p.converters(fileName, data)
	if err != nil {
		return nil, &ParseError{FileName: fileName, Cause: err}
	}
	raw, err := conv.Convert(ctx, data)
	if err != nil {
		return nil, &ParseError{FileName: fileName, Cause: err}
	}
	clean := p.sanitizer.Sanitize(raw)
	p.emit(fileName, StepConvert, fmt.Sprintf("converted with %s (%d bytes of HTML)", conv.Name(), len(clean)))

	root, err := dom.Parse(clean)
	if err != nil {
		return nil, &ParseError{FileName: fileName, Cause: err}
	}
	plainText := root.Text()
	found := contact.Extract(plainText)

	blocks := segmentation.SynthesizeHeader(segmentation.Segment(root))
	p.emit(fileName, StepSegment, fmt.Sprintf("%d blocks", len(blocks)))

	for i, b := range blocks {
		if b.Label == types.LabelHeader {
			continue
		}
		blocks[i] = classify.Apply(b)
	}
	blocks = segmentation.Dedupe(blocks)
	groups := segmentation.Group(blocks)
	p.emit(fileName, StepClassify, fmt.Sprintf("%d labels", len(groups)))

	skel := types.Skeleton{
		Blocks:  blocks,
		Groups:  groups,
		Contact: found,
		Entries: entries.Split(blocks),
	}
	p.emit(fileName, StepSplit, fmt.Sprintf("%d experience, %d education, %d skills entries",
		len(skel.Entries.Experience), len(skel.Entries.Education), len(skel.Entries.Skills)))

	resume := normalize.ResumeForm(form.Assemble(skel, found))
	p.emit(fileName, StepAssemble, fmt.Sprintf("experiences %d, education %d", len(resume.Experiences), len(resume.Education)))

	if p.verbose {
		log.Printf("[import] %s: %d blocks, %d experiences, %d education, %d skills",
			fileName, len(blocks), len(resume.Experiences), len(resume.Education), len(resume.Skills))
	}

	return &types.ParseResult{
		ResumeForm:    resume,
		DebugSkeleton: skel,
		RawHTML:       clean,
		PlainText:     plainText,
		Parser:        conv.Name(),
	}, nil
}

// Validate checks a form against the save rules.
func (p *Pipeline) Validate(f *types.ResumeForm) []string {
	return form.Validate(f)
}

func (p *Pipeline) emit(fileName, step, message string) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{FileName: fileName, Step: step, Message: message})
	}
}
