package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"emanifest/internal/manifest"
	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
)

// Postgres persists manifests as JSONB documents with the status, tracking
// number, and revision extracted into columns for indexing and concurrency
// control. The document column is authoritative; the columns are derived on
// every write.
type Postgres struct {
	db *sql.DB
}

// Schema creates the manifests table. Applied by integration tests and by
// deployments that do not run a migration tool.
const Schema = `
CREATE TABLE IF NOT EXISTS manifests (
	id              UUID PRIMARY KEY,
	tracking_number TEXT UNIQUE,
	status          TEXT NOT NULL,
	revision        INTEGER NOT NULL,
	document        JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
)`

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func (s *Postgres) Create(ctx context.Context, m *manifest.Manifest) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	query := `
		INSERT INTO manifests (id, tracking_number, status, revision, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		m.ID.String(), nullable(m.TrackingNumber), string(m.Status), m.Revision,
		doc, m.CreatedDate, m.UpdatedDate)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert manifest: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id domain.ManifestID) (*manifest.Manifest, error) {
	return s.getWhere(ctx, "id = $1", id.String())
}

func (s *Postgres) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*manifest.Manifest, error) {
	return s.getWhere(ctx, "tracking_number = $1", trackingNumber)
}

func (s *Postgres) getWhere(ctx context.Context, clause string, arg any) (*manifest.Manifest, error) {
	var doc []byte
	query := "SELECT document FROM manifests WHERE " + clause
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select manifest: %w", err)
	}
	var m manifest.Manifest
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

func (s *Postgres) Update(ctx context.Context, m *manifest.Manifest) error {
	next := m.Clone()
	next.Revision = m.Revision + 1
	doc, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	query := `
		UPDATE manifests
		SET tracking_number = $1, status = $2, revision = $3, document = $4, updated_at = $5
		WHERE id = $6 AND revision = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		nullable(next.TrackingNumber), string(next.Status), next.Revision,
		doc, next.UpdatedDate, next.ID.String(), m.Revision)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update manifest: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update manifest: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or someone else won the revision race.
		var exists bool
		checkErr := s.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM manifests WHERE id = $1)", m.ID.String()).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("update manifest: %w", checkErr)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	m.Revision = next.Revision
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]manifest.MtnDetails, error) {
	query := `
		SELECT COALESCE(tracking_number, ''), status
		FROM manifests
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}
	defer rows.Close()

	var details []manifest.MtnDetails
	for rows.Next() {
		var d manifest.MtnDetails
		var status string
		if err := rows.Scan(&d.ManifestTrackingNumber, &status); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		d.Status = manifest.Status(status)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list manifests: %w", err)
	}
	return details, nil
}

// nullable maps an empty tracking number to SQL NULL so the unique index
// ignores unassigned manifests.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
