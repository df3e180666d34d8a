package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/conversion"
	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/observability"
	"github.com/jonathan/jobtracker/internal/types"
)

// Output formats of the parse command.
const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse résumé documents into résumé forms",
	Long: `Parse one or more .docx or .pdf résumés. By default each result is printed
as JSON with the form, the debug skeleton and the validation errors; with
--format markdown the cleaned document is printed as Markdown instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseOutDir  string
	parseFormat  string
	parseWorkers int
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "", "Directory to write one output file per input (default: stdout)")
	parseCmd.Flags().StringVar(&parseFormat, "format", formatJSON, "Output format: json or markdown")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "Documents parsed in parallel (default: max_batch_workers)")
	rootCmd.AddCommand(parseCmd)
}

// parseOutput is one file's JSON output.
type parseOutput struct {
	FileName string `json:"fileName"`
	*types.ParseResult
	Errors []string `json:"errors"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseFormat != formatJSON && parseFormat != formatMarkdown {
		return fmt.Errorf("invalid --format %q: must be json or markdown", parseFormat)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workers := parseWorkers
	if workers <= 0 {
		workers = cfg.MaxBatchWorkers
	}

	files := make([]importer.File, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, importer.File{Name: filepath.Base(path), Data: data})
	}

	if parseOutDir != "" {
		if err := os.MkdirAll(parseOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	p := importer.New(importer.Options{Verbose: cfg.Verbose})
	results, err := p.ParseBatch(cmd.Context(), files, workers)
	if err != nil {
		return err
	}

	outNames := outputNames(files)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	printer := observability.NewPrinter(stderr)
	renderer := conversion.NewMarkdownRenderer()
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(stderr, "✗ %v\n", r.Err)
			continue
		}
		errs := p.Validate(&r.Result.ResumeForm)
		if cfg.Verbose {
			printer.PrintBlocks(r.FileName, r.Result.DebugSkeleton.Blocks)
			printer.PrintEntries(r.Result.DebugSkeleton.Entries)
			printer.PrintForm(&r.Result.ResumeForm)
			printer.PrintValidation(errs)
		}

		body, ext, err := renderParse(renderer, r, errs)
		if err != nil {
			return err
		}
		if err := writeParse(stdout, r.FileName, outNames[i]+ext, body); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
	}
	return nil
}

func renderParse(renderer *conversion.MarkdownRenderer, r importer.BatchResult, errs []string) ([]byte, string, error) {
	if parseFormat == formatMarkdown {
		md, err := renderer.Render(r.Result.RawHTML)
		if err != nil {
			return nil, "", err
		}
		return []byte(md), ".md", nil
	}
	body, err := json.MarshalIndent(parseOutput{FileName: r.FileName, ParseResult: r.Result, Errors: errs}, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(body, '\n'), ".json", nil
}

// outputNames returns the output file stem of each input. Inputs sharing a
// base name get a numeric suffix: resume, resume-2, resume-3.
func outputNames(files []importer.File) []string {
	names := make([]string, len(files))
	used := make(map[string]bool, len(files))
	for i, f := range files {
		stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		name := stem
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func writeParse(stdout io.Writer, fileName, outName string, body []byte) error {
	if parseOutDir == "" {
		_, err := stdout.Write(body)
		return err
	}
	out := filepath.Join(parseOutDir, outName)
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ %s → %s\n", fileName, out)
	return nil
}
