// Package main provides the resume_import command: import résumé documents
// into structured forms, validate them and push them to the résumé service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/config"
	"github.com/jonathan/jobtracker/internal/resumeclient"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "resume_import",
	Short:         "Import résumé documents into structured forms",
	Long:          "resume_import converts .docx and .pdf résumés into structured résumé forms, validates them and stores them as versions in the résumé service.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline details")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, fills gaps from the environment and
// the defaults, and validates the result.
func loadConfig() (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(config.Defaults())
	if verbose {
		merged.Verbose = true
	}
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func newClient(cfg config.Config) (*resumeclient.Client, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL is required (set RESUME_API_BASE or api_base_url in the config file)")
	}
	return resumeclient.New(resumeclient.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.AuthToken,
		Timeout: cfg.Timeout(),
	})
}
