package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/jobtracker/internal/types"
)

// SQLiteStore is a Store backed by an SQLite file (or ":memory:").
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens path, applies the standard pragmas and runs the
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=10000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := Migrate(ctx, db, DriverSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// CreateResume creates a résumé and its optional initial version.
func (s *SQLiteStore) CreateResume(ctx context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error) {
	if err := checkCreate(req); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	ts := s.now()

	var payload []byte
	var initial types.ResumeVersion
	if req.InitialVersion != nil {
		initial = *req.InitialVersion
		initial.ResumeID = id
		if initial.UserID == "" {
			initial.UserID = req.UserID
		}
		var err error
		if payload, err = encodeVersion(initial); err != nil {
			return nil, err
		}
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if req.MakeActive {
			if _, err := tx.ExecContext(ctx,
				`UPDATE resumes SET is_active = 0 WHERE user_id = ? AND is_active = 1`,
				req.UserID,
			); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resumes (id, user_id, title, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, req.UserID, req.Title, req.MakeActive, formatTime(ts), formatTime(ts),
		); err != nil {
			return err
		}
		if payload == nil {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resume_versions (id, resume_id, version_number, source_type, file_name, payload, created_at)
			 VALUES (?, ?, 1, ?, NULLIF(?, ''), ?, ?)`,
			uuid.NewString(), id, initial.SourceType, initial.FileName, string(payload), formatTime(ts),
		)
		return err
	})
	if err != nil {
		return nil, &Error{Op: "create resume", Cause: err}
	}

	return &types.CreatedResume{
		ResumeID:  id,
		UserID:    req.UserID,
		Title:     req.Title,
		IsActive:  req.MakeActive,
		CreatedAt: ts,
	}, nil
}

// AddVersion appends a version with the next version number.
func (s *SQLiteStore) AddVersion(ctx context.Context, v types.ResumeVersion) (*types.StoredVersion, error) {
	payload, err := encodeVersion(v)
	if err != nil {
		return nil, err
	}
	ts := s.now()
	stored := &types.StoredVersion{VersionID: uuid.NewString(), ResumeID: v.ResumeID, CreatedAt: ts}

	errMissing := &NotFoundError{Resource: "resume", ID: v.ResumeID}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM resumes WHERE id = ?`, v.ResumeID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return errMissing
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM resume_versions WHERE resume_id = ?`,
			v.ResumeID,
		).Scan(&stored.VersionNumber); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO resume_versions (id, resume_id, version_number, source_type, file_name, payload, created_at)
			 VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?)`,
			stored.VersionID, v.ResumeID, stored.VersionNumber, v.SourceType, v.FileName, string(payload), formatTime(ts),
		); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE resumes SET updated_at = ? WHERE id = ?`, formatTime(ts), v.ResumeID)
		return err
	})
	if errors.Is(err, errMissing) {
		return nil, errMissing
	}
	if err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}
	return stored, nil
}

// LatestForUser returns the user's active résumé, or the most recently
// updated one, with its newest version.
func (s *SQLiteStore) LatestForUser(ctx context.Context, userID string) (*types.LatestResume, error) {
	latest := &types.LatestResume{}
	var payload sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT r.id, r.user_id, r.title,
		        (SELECT v.payload FROM resume_versions v
		         WHERE v.resume_id = r.id
		         ORDER BY v.version_number DESC
		         LIMIT 1)
		 FROM resumes r
		 WHERE r.user_id = ?
		 ORDER BY r.is_active DESC, r.updated_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&latest.ResumeID, &latest.UserID, &latest.Title, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "resume for user", ID: userID}
	}
	if err != nil {
		return nil, &Error{Op: "latest for user", Cause: err}
	}

	if payload.Valid {
		if latest.CurrentVersion, err = decodeVersion([]byte(payload.String)); err != nil {
			return nil, &Error{Op: "latest for user", Cause: err}
		}
	}
	return latest, nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// formatTime renders timestamps so they sort lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

var _ Store = (*SQLiteStore)(nil)
