package sitedir

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"emanifest/pkg/domain"
	"emanifest/pkg/platform/sentinel"
)

// PostgresStore persists sites as JSONB documents keyed by EPA ID.
type PostgresStore struct {
	db *sql.DB
}

// Schema creates the sites table. Applied by integration tests and by
// deployments that do not run a migration tool.
const Schema = `
CREATE TABLE IF NOT EXISTS sites (
	epa_site_id TEXT PRIMARY KEY,
	site_type   TEXT NOT NULL,
	document    JSONB NOT NULL
)`

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id domain.EPASiteID) (*Site, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT document FROM sites WHERE epa_site_id = $1", id.String()).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select site: %w", err)
	}
	var site Site
	if err := json.Unmarshal(doc, &site); err != nil {
		return nil, fmt.Errorf("unmarshal site: %w", err)
	}
	return &site, nil
}

func (s *PostgresStore) Put(ctx context.Context, site *Site) error {
	doc, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("marshal site: %w", err)
	}
	query := `
		INSERT INTO sites (epa_site_id, site_type, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (epa_site_id) DO UPDATE SET site_type = $2, document = $3
	`
	if _, err := s.db.ExecContext(ctx, query, site.EPASiteID.String(), string(site.SiteType), doc); err != nil {
		return fmt.Errorf("upsert site: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Site, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT document FROM sites ORDER BY epa_site_id")
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan site row: %w", err)
		}
		var site Site
		if err := json.Unmarshal(doc, &site); err != nil {
			return nil, fmt.Errorf("unmarshal site: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}
