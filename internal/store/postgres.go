package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/grazeland/paddock-cli/internal/db"
	"github.com/grazeland/paddock-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS paddocks (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL UNIQUE,
	area_ha    DOUBLE PRECISION NOT NULL DEFAULT 0,
	boundary   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_paddocks_name ON paddocks(name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreatePaddocks(ctx context.Context, paddocks []model.Paddock) error {
	if len(paddocks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	for _, p := range paddocks {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO paddocks (id, name, area_ha, boundary, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			id, p.Name, p.AreaHa, p.BoundaryGeoJSON, now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert paddock %q", p.Name)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit paddocks")
}

func (s *PostgresStore) ListPaddocks(ctx context.Context) ([]model.Paddock, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, area_ha, boundary, created_at, updated_at FROM paddocks ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list paddocks")
	}
	defer rows.Close()

	var paddocks []model.Paddock
	for rows.Next() {
		var p model.Paddock
		if err := rows.Scan(&p.ID, &p.Name, &p.AreaHa, &p.BoundaryGeoJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan paddock")
		}
		paddocks = append(paddocks, p)
	}
	return paddocks, eris.Wrap(rows.Err(), "postgres: iterate paddocks")
}

func (s *PostgresStore) GetPaddock(ctx context.Context, id string) (*model.Paddock, error) {
	var p model.Paddock
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, area_ha, boundary, created_at, updated_at FROM paddocks WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.AreaHa, &p.BoundaryGeoJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "id %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get paddock %s", id)
	}
	return &p, nil
}

func (s *PostgresStore) DeletePaddock(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM paddocks WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete paddock %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}
