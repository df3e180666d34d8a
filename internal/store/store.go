// Package store persists résumés and their versions in PostgreSQL or SQLite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/jonathan/jobtracker/internal/schemas"
	"github.com/jonathan/jobtracker/internal/types"
	schemafiles "github.com/jonathan/jobtracker/schemas"
)

// Supported drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// Store persists résumés and their versions.
type Store interface {
	// CreateResume creates a résumé and, when given, its first version.
	CreateResume(ctx context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error)
	// AddVersion appends a version to an existing résumé.
	AddVersion(ctx context.Context, v types.ResumeVersion) (*types.StoredVersion, error)
	// LatestForUser returns the active (or most recently updated) résumé of a
	// user with its newest version.
	LatestForUser(ctx context.Context, userID string) (*types.LatestResume, error)
	Close()
}

// NotFoundError is returned when a résumé does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Error represents a failed storage operation.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Open connects to the database for driver and returns the matching Store.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres, "postgres":
		return OpenPostgres(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate applies the embedded migrations for driver to db.
func Migrate(ctx context.Context, db *sql.DB, driver string) ([]string, error) {
	var dialect goose.Dialect
	var dir string
	switch driver {
	case DriverPostgres, "postgres":
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	fsys, err := fs.Sub(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Path)
	}
	return applied, nil
}

// encodeVersion validates a version against the version schema and returns
// its JSON payload.
func encodeVersion(v types.ResumeVersion) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version: %w", err)
	}
	if err := schemas.Validate(schemafiles.ResumeVersion, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func decodeVersion(payload []byte) (*types.ResumeVersion, error) {
	var v types.ResumeVersion
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal version: %w", err)
	}
	return &v, nil
}

func checkCreate(req types.CreateResumeRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("userId is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
