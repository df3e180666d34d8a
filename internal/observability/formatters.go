// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jobtracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func more(sb *strings.Builder, total int, noun string) {
	if total > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more %s\n", total-maxItemsToShow, noun))
	}
}

// PrintBlocks outputs the classified blocks of a document with their scores.
func (p *Printer) PrintBlocks(fileName string, blocks []types.Block) {
	if len(blocks) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:   %s\n", fileName))
	sb.WriteString(fmt.Sprintf("Blocks: %d\n\n", len(blocks)))

	for _, b := range blocks {
		heading := b.Heading
		if heading == "" {
			heading = "(no heading)"
		}
		sb.WriteString(fmt.Sprintf("%-14s %3d  %.2f  %s\n", b.Label, b.Score, b.Confidence, heading))
	}

	p.printBox("DOCUMENT BLOCKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEntries outputs the entries split out of the experience, education and
// skills sections.
func (p *Printer) PrintEntries(entries types.Entries) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(entries.Experience)))
	for i, e := range entries.Experience {
		if i == maxItemsToShow {
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s | %s | %s\n", e.Title, e.Company, e.DateRange))
	}
	more(&sb, len(entries.Experience), "entries")

	sb.WriteString(fmt.Sprintf("\nEducation (%d):\n", len(entries.Education)))
	for i, e := range entries.Education {
		if i == maxItemsToShow {
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s | %s\n", e.School, e.DateRange))
	}
	more(&sb, len(entries.Education), "entries")

	sb.WriteString(fmt.Sprintf("\nSkills sections: %d", len(entries.Skills)))

	p.printBox("SPLIT ENTRIES", sb.String())
}

// PrintForm outputs a human-readable summary of an assembled form.
func (p *Printer) PrintForm(f *types.ResumeForm) {
	if f == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:    %s\n", f.Name))
	sb.WriteString(fmt.Sprintf("Email:   %s\n", f.Email))
	sb.WriteString(fmt.Sprintf("Phone:   %s\n", f.Phone))
	if f.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", strings.ReplaceAll(f.Summary, "\n", " ")))
	}
	sb.WriteString("\n")

	if len(f.Experiences) > 0 {
		sb.WriteString("Experiences:\n")
		for i, ex := range f.Experiences {
			if i == maxItemsToShow {
				break
			}
			end := ex.EndDate
			if ex.Current {
				end = "present"
			}
			sb.WriteString(fmt.Sprintf("  • %s @ %s (%s – %s)\n", ex.Title, ex.Company, ex.StartDate, end))
		}
		more(&sb, len(f.Experiences), "experiences")
		sb.WriteString("\n")
	}

	if len(f.Education) > 0 {
		sb.WriteString("Education:\n")
		for i, ed := range f.Education {
			if i == maxItemsToShow {
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", ed.School, ed.Degree))
		}
		more(&sb, len(f.Education), "entries")
		sb.WriteString("\n")
	}

	if len(f.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:  %s\n", strings.Join(f.Skills, ", ")))
	}

	p.printBox("RESUME FORM", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the save-rule violations of a form.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(errs []string) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ FORM IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(errs)))
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", e))
	}

	p.printBox("VALIDATION ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}
