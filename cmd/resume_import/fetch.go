package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/observability"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print the latest saved résumé form of a user",
	RunE:  runFetch,
}

var fetchUserID string

func init() {
	fetchCmd.Flags().StringVar(&fetchUserID, "user", "", "User ID (default: user_id from the config)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	userID := fetchUserID
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

	latest, err := client.FetchLatest(cmd.Context(), userID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if latest == nil {
		_, _ = fmt.Fprintf(out, "No résumé found for user %s\n", userID)
		return nil
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintForm(&latest.ResumeForm)
	}
	body, err := json.MarshalIndent(latest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(out, string(body))
	return nil
}
