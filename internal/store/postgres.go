package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ritter-digital/leads-cli/internal/db"
	"github.com/ritter-digital/leads-cli/internal/model"
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

// leadColumns is the select list shared by every lead query. Nullable text
// columns are coalesced so rows scan into plain strings.
const leadColumns = `id, COALESCE(email, ''), verified_email, COALESCE(phone, ''), verified_phone,
	COALESCE(company_name, ''), COALESCE(company_website, ''), verified_website,
	COALESCE(address, ''), COALESCE(state, ''), COALESCE(country, ''),
	COALESCE(activity, ''), COALESCE(category, ''), COALESCE(description, ''),
	data_quality_score, created_at, updated_at, last_contacted_at`

// preparedStatements lists the fixed catalog queries to prepare on each new
// connection. Search SQL is assembled dynamically and is not prepared.
var preparedStatements = map[string]string{
	"list_categories": `SELECT category, COUNT(*) FROM leads WHERE category IS NOT NULL AND category <> '' GROUP BY category ORDER BY COUNT(*) DESC, category`,
	"list_states":     `SELECT state, COALESCE(country, ''), COUNT(*) FROM leads WHERE state IS NOT NULL AND state <> '' GROUP BY state, country ORDER BY COUNT(*) DESC, state`,
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

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

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

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                 TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email              TEXT,
	verified_email     BOOLEAN NOT NULL DEFAULT false,
	phone              TEXT,
	verified_phone     BOOLEAN NOT NULL DEFAULT false,
	company_name       TEXT,
	company_website    TEXT,
	verified_website   BOOLEAN NOT NULL DEFAULT false,
	address            TEXT,
	state              TEXT,
	country            TEXT,
	activity           TEXT,
	category           TEXT,
	description        TEXT,
	data_quality_score INTEGER NOT NULL DEFAULT 1 CHECK (data_quality_score BETWEEN 1 AND 5),
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_contacted_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_leads_category ON leads(category);
CREATE INDEX IF NOT EXISTS idx_leads_state ON leads(state);
CREATE INDEX IF NOT EXISTS idx_leads_quality ON leads(data_quality_score DESC, updated_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

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

func (s *PostgresStore) SearchLeads(ctx context.Context, q LeadQuery) ([]model.StoreLead, error) {
	sql, args := buildLeadSQL(q)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search leads")
	}
	defer rows.Close()

	var leads []model.StoreLead
	for rows.Next() {
		var l model.StoreLead
		if err := rows.Scan(
			&l.ID, &l.Email, &l.VerifiedEmail, &l.Phone, &l.VerifiedPhone,
			&l.CompanyName, &l.CompanyWebsite, &l.VerifiedWebsite,
			&l.Address, &l.State, &l.Country,
			&l.Activity, &l.Category, &l.Description,
			&l.DataQualityScore, &l.CreatedAt, &l.UpdatedAt, &l.LastContactedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}
	return leads, nil
}

// buildLeadSQL assembles the WHERE clause for a query description using
// numbered placeholders.
func buildLeadSQL(q LeadQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Categories) > 0 {
		conds = append(conds, "category = ANY("+arg(q.Categories)+")")
	}
	if len(q.States) > 0 {
		conds = append(conds, "state = ANY("+arg(q.States)+")")
	}
	if q.RequireWebsite {
		conds = append(conds, "company_website IS NOT NULL AND company_website <> ''")
	}
	if q.RequireEmail {
		conds = append(conds, "email IS NOT NULL AND email <> '' AND verified_email = true")
	}
	if q.RequirePhone {
		conds = append(conds, "phone IS NOT NULL AND phone <> '' AND verified_phone = true")
	}
	conds = append(conds, "data_quality_score >= "+arg(q.MinQuality))

	sql := "SELECT " + leadColumns + " FROM leads WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY data_quality_score DESC, updated_at DESC LIMIT " + arg(q.Limit)

	return sql, args
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.pool.Query(ctx, preparedStatements["list_categories"])
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list categories")
	}
	defer rows.Close()

	var cats []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, eris.Wrap(err, "postgres: scan category")
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate categories")
	}
	return cats, nil
}

func (s *PostgresStore) ListStates(ctx context.Context) ([]StateCount, error) {
	rows, err := s.pool.Query(ctx, preparedStatements["list_states"])
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list states")
	}
	defer rows.Close()

	var states []StateCount
	for rows.Next() {
		var st StateCount
		if err := rows.Scan(&st.State, &st.Country, &st.Total); err != nil {
			return nil, eris.Wrap(err, "postgres: scan state")
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate states")
	}
	return states, nil
}
