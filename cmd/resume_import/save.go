package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/editor"
	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/observability"
)

var saveCmd = &cobra.Command{
	Use:   "save FILE",
	Short: "Parse a résumé and save it as a new version",
	Long: `Parse a .docx or .pdf résumé, merge it into the user's latest saved résumé
and save the result as a new version. A résumé is created when the user has
none. Nothing is saved when the merged form fails validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var (
	saveUserID string
	saveName   string
	savePhone  string
)

func init() {
	saveCmd.Flags().StringVar(&saveUserID, "user", "", "User ID (default: user_id from the config)")
	saveCmd.Flags().StringVar(&saveName, "name", "", "Candidate name; names are never read from documents")
	saveCmd.Flags().StringVar(&savePhone, "phone", "", "Phone number overriding the parsed one")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	userID := saveUserID
	if userID == "" {
		userID = cfg.UserID
	}
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	sess := editor.New(userID)
	found, err := sess.Load(ctx, client, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", sess.Message, err)
	}
	if found {
		_, _ = fmt.Fprintf(out, "Loaded résumé %s\n", sess.Current.ResumeID)
	}

	p := importer.New(importer.Options{Verbose: cfg.Verbose})
	if err := sess.Import(ctx, p, filepath.Base(args[0]), data); err != nil {
		return fmt.Errorf("%s: %w", sess.Message, err)
	}
	_, _ = fmt.Fprintln(out, sess.Message)

	if saveName != "" {
		if err := sess.UpdateTopField(editor.FieldName, saveName); err != nil {
			return err
		}
	}
	if savePhone != "" {
		if err := sess.UpdateTopField(editor.FieldPhone, savePhone); err != nil {
			return err
		}
	}

	if err := sess.Save(ctx, client); err != nil {
		var validationErr *editor.ValidationError
		if errors.As(err, &validationErr) {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintValidation(validationErr.Messages)
			return errors.New(sess.Message)
		}
		return fmt.Errorf("%s: %w", sess.Message, err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintForm(&sess.Form)
	}
	_, _ = fmt.Fprintf(out, "%s (résumé %s)\n", sess.Message, sess.Current.ResumeID)
	return nil
}
