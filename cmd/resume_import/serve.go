package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/importer"
	"github.com/jonathan/jobtracker/internal/server"
	"github.com/jonathan/jobtracker/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the résumé API server",
	Long:  `Start an HTTP server that parses uploaded résumés and stores résumé versions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: config port or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	st, err := store.Open(cmd.Context(), cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if pg, ok := st.(*store.PostgresStore); ok {
		applied, err := pg.Migrate(cmd.Context())
		if err != nil {
			st.Close()
			return err
		}
		log.Printf("[store] applied %d migrations", len(applied))
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		APIToken:       cfg.AuthToken,
	}, st, importer.New(importer.Options{Verbose: cfg.Verbose}))

	return srv.Start()
}
