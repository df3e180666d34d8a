package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jonathan/jobtracker/internal/types"
)

// PostgresStore is a Store backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the PostgreSQL migrations through the pool.
func (s *PostgresStore) Migrate(ctx context.Context) ([]string, error) {
	db := stdlib.OpenDBFromPool(s.pool)
	defer func() { _ = db.Close() }()
	return Migrate(ctx, db, DriverPostgres)
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateResume creates a résumé and its optional initial version in one
// transaction. MakeActive deactivates the user's other résumés.
func (s *PostgresStore) CreateResume(ctx context.Context, req types.CreateResumeRequest) (*types.CreatedResume, error) {
	if err := checkCreate(req); err != nil {
		return nil, err
	}
	id := uuid.New()

	var payload []byte
	var initial types.ResumeVersion
	if req.InitialVersion != nil {
		initial = *req.InitialVersion
		initial.ResumeID = id.String()
		if initial.UserID == "" {
			initial.UserID = req.UserID
		}
		var err error
		if payload, err = encodeVersion(initial); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &Error{Op: "create resume", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if req.MakeActive {
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_active = FALSE WHERE user_id = $1 AND is_active`,
			req.UserID,
		); err != nil {
			return nil, &Error{Op: "create resume", Cause: err}
		}
	}

	created := &types.CreatedResume{
		ResumeID: id.String(),
		UserID:   req.UserID,
		Title:    req.Title,
		IsActive: req.MakeActive,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO resumes (id, user_id, title, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		id, req.UserID, req.Title, req.MakeActive,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, &Error{Op: "create resume", Cause: err}
	}

	if payload != nil {
		if _, err := tx.Exec(ctx,
			`INSERT INTO resume_versions (id, resume_id, version_number, source_type, file_name, payload)
			 VALUES ($1, $2, 1, $3, NULLIF($4, ''), $5)`,
			uuid.New(), id, initial.SourceType, initial.FileName, payload,
		); err != nil {
			return nil, &Error{Op: "create resume", Cause: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &Error{Op: "create resume", Cause: err}
	}
	return created, nil
}

// AddVersion appends a version with the next version number.
func (s *PostgresStore) AddVersion(ctx context.Context, v types.ResumeVersion) (*types.StoredVersion, error) {
	resumeID, err := uuid.Parse(v.ResumeID)
	if err != nil {
		return nil, &NotFoundError{Resource: "resume", ID: v.ResumeID}
	}
	payload, err := encodeVersion(v)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the résumé row so concurrent saves get distinct version numbers.
	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM resumes WHERE id = $1 FOR UPDATE`, resumeID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Resource: "resume", ID: v.ResumeID}
	}
	if err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}

	versionID := uuid.New()
	stored := &types.StoredVersion{VersionID: versionID.String(), ResumeID: v.ResumeID}
	err = tx.QueryRow(ctx,
		`INSERT INTO resume_versions (id, resume_id, version_number, source_type, file_name, payload)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(version_number), 0) + 1 FROM resume_versions WHERE resume_id = $2),
		         $3, NULLIF($4, ''), $5)
		 RETURNING version_number, created_at`,
		versionID, resumeID, v.SourceType, v.FileName, payload,
	).Scan(&stored.VersionNumber, &stored.CreatedAt)
	if err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}

	if _, err := tx.Exec(ctx, `UPDATE resumes SET updated_at = NOW() WHERE id = $1`, resumeID); err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &Error{Op: "add version", Cause: err}
	}
	return stored, nil
}

// LatestForUser returns the user's active résumé, or the most recently
// updated one, with its newest version.
func (s *PostgresStore) LatestForUser(ctx context.Context, userID string) (*types.LatestResume, error) {
	latest := &types.LatestResume{}
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT r.id::text, r.user_id, r.title, v.payload
		 FROM resumes r
		 LEFT JOIN LATERAL (
		     SELECT payload FROM resume_versions
		     WHERE resume_id = r.id
		     ORDER BY version_number DESC
		     LIMIT 1
		 ) v ON TRUE
		 WHERE r.user_id = $1
		 ORDER BY r.is_active DESC, r.updated_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&latest.ResumeID, &latest.UserID, &latest.Title, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Resource: "resume for user", ID: userID}
	}
	if err != nil {
		return nil, &Error{Op: "latest for user", Cause: err}
	}

	if payload != nil {
		if latest.CurrentVersion, err = decodeVersion(payload); err != nil {
			return nil, &Error{Op: "latest for user", Cause: err}
		}
	}
	return latest, nil
}

var _ Store = (*PostgresStore)(nil)
