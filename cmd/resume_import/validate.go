package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/form"
	"github.com/jonathan/jobtracker/internal/normalize"
	"github.com/jonathan/jobtracker/internal/observability"
	"github.com/jonathan/jobtracker/internal/schemas"
	"github.com/jonathan/jobtracker/internal/types"
	schemafiles "github.com/jonathan/jobtracker/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a résumé form JSON file",
	Long: `Validate a résumé form JSON file against the form schema and the save rules.
The form is normalized before the save rules are checked.`,
	RunE: runValidate,
}

var (
	validateJSONPath   string
	validateSchemaPath string
)

func init() {
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to the résumé form JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to a JSON schema file (default: built-in form schema)")
	_ = validateCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(validateJSONPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", validateJSONPath, err)
	}

	// Schema check: a --schema path may be given relative to the repo root.
	if validateSchemaPath != "" {
		schemaPath := schemas.ResolveSchemaPath(validateSchemaPath)
		if schemaPath == "" {
			schemaPath = validateSchemaPath
		}
		err = schemas.ValidateJSON(schemaPath, validateJSONPath)
	} else {
		err = schemas.Validate(schemafiles.ResumeForm, data)
	}
	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			printErrors(out, validationErr.Messages())
			return fmt.Errorf("%s does not match the schema", validateJSONPath)
		}
		return err
	}

	// Save rules

	var f types.ResumeForm
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", validateJSONPath, err)
	}
	f = normalize.ResumeForm(f)
	errs := form.Validate(&f)

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintValidation(errs)
	}
	if len(errs) > 0 {
		printErrors(out, errs)
		return fmt.Errorf("%d validation errors", len(errs))
	}

	_, _ = fmt.Fprintln(out, "Validation passed")
	return nil
}

func printErrors(out io.Writer, errs []string) {
	_, _ = fmt.Fprintln(out, "Validation failed:")
	for _, e := range errs {
		_, _ = fmt.Fprintf(out, "  - %s\n", e)
	}
}
