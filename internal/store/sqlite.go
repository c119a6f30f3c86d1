package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/grazeland/paddock-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS paddocks (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	area_ha    REAL NOT NULL DEFAULT 0,
	boundary   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_paddocks_name ON paddocks(name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreatePaddocks(ctx context.Context, paddocks []model.Paddock) error {
	if len(paddocks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, p := range paddocks {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO paddocks (id, name, area_ha, boundary, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.Name, p.AreaHa, p.BoundaryGeoJSON, now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert paddock %q", p.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit paddocks")
}

func (s *SQLiteStore) ListPaddocks(ctx context.Context) ([]model.Paddock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, area_ha, boundary, created_at, updated_at FROM paddocks ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list paddocks")
	}
	defer rows.Close()

	var paddocks []model.Paddock
	for rows.Next() {
		var p model.Paddock
		if err := rows.Scan(&p.ID, &p.Name, &p.AreaHa, &p.BoundaryGeoJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan paddock")
		}
		paddocks = append(paddocks, p)
	}
	return paddocks, eris.Wrap(rows.Err(), "sqlite: iterate paddocks")
}

func (s *SQLiteStore) GetPaddock(ctx context.Context, id string) (*model.Paddock, error) {
	var p model.Paddock
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, area_ha, boundary, created_at, updated_at FROM paddocks WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.AreaHa, &p.BoundaryGeoJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrapf(ErrNotFound, "id %s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get paddock %s", id)
	}
	return &p, nil
}

func (s *SQLiteStore) DeletePaddock(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM paddocks WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete paddock %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}
