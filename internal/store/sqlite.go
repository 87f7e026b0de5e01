package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ritter-digital/leads-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local
// development and tests.
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
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                 TEXT PRIMARY KEY,
	email              TEXT,
	verified_email     INTEGER NOT NULL DEFAULT 0,
	phone              TEXT,
	verified_phone     INTEGER NOT NULL DEFAULT 0,
	company_name       TEXT,
	company_website    TEXT,
	verified_website   INTEGER NOT NULL DEFAULT 0,
	address            TEXT,
	state              TEXT,
	country            TEXT,
	activity           TEXT,
	category           TEXT,
	description        TEXT,
	data_quality_score INTEGER NOT NULL DEFAULT 1 CHECK (data_quality_score BETWEEN 1 AND 5),
	created_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	last_contacted_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_leads_category ON leads(category);
CREATE INDEX IF NOT EXISTS idx_leads_state ON leads(state);
CREATE INDEX IF NOT EXISTS idx_leads_quality ON leads(data_quality_score DESC, updated_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return eris.Wrap(s.db.Close(), "sqlite: close")
}

func (s *SQLiteStore) SearchLeads(ctx context.Context, q LeadQuery) ([]model.StoreLead, error) {
	var (
		conds []string
		args  []any
	)

	if len(q.Categories) > 0 {
		conds = append(conds, "category IN ("+placeholders(len(q.Categories))+")")
		for _, c := range q.Categories {
			args = append(args, c)
		}
	}
	if len(q.States) > 0 {
		conds = append(conds, "state IN ("+placeholders(len(q.States))+")")
		for _, st := range q.States {
			args = append(args, st)
		}
	}
	if q.RequireWebsite {
		conds = append(conds, "company_website IS NOT NULL AND company_website <> ''")
	}
	if q.RequireEmail {
		conds = append(conds, "email IS NOT NULL AND email <> '' AND verified_email = 1")
	}
	if q.RequirePhone {
		conds = append(conds, "phone IS NOT NULL AND phone <> '' AND verified_phone = 1")
	}
	conds = append(conds, "data_quality_score >= ?")
	args = append(args, q.MinQuality, q.Limit)

	query := `SELECT id, COALESCE(email, ''), verified_email, COALESCE(phone, ''), verified_phone,
		COALESCE(company_name, ''), COALESCE(company_website, ''), verified_website,
		COALESCE(address, ''), COALESCE(state, ''), COALESCE(country, ''),
		COALESCE(activity, ''), COALESCE(category, ''), COALESCE(description, ''),
		data_quality_score, created_at, updated_at, last_contacted_at
	FROM leads WHERE ` + strings.Join(conds, " AND ") +
		" ORDER BY data_quality_score DESC, updated_at DESC LIMIT ?"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search leads")
	}
	defer rows.Close()

	var leads []model.StoreLead
	for rows.Next() {
		var (
			l           model.StoreLead
			contactedAt sql.NullTime
		)
		if err := rows.Scan(
			&l.ID, &l.Email, &l.VerifiedEmail, &l.Phone, &l.VerifiedPhone,
			&l.CompanyName, &l.CompanyWebsite, &l.VerifiedWebsite,
			&l.Address, &l.State, &l.Country,
			&l.Activity, &l.Category, &l.Description,
			&l.DataQualityScore, &l.CreatedAt, &l.UpdatedAt, &contactedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		if contactedAt.Valid {
			t := contactedAt.Time
			l.LastContactedAt = &t
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}
	return leads, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM leads WHERE category IS NOT NULL AND category <> '' GROUP BY category ORDER BY COUNT(*) DESC, category`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list categories")
	}
	defer rows.Close()

	var cats []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan category")
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate categories")
	}
	return cats, nil
}

func (s *SQLiteStore) ListStates(ctx context.Context) ([]StateCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state, COALESCE(country, ''), COUNT(*) FROM leads WHERE state IS NOT NULL AND state <> '' GROUP BY state, country ORDER BY COUNT(*) DESC, state`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list states")
	}
	defer rows.Close()

	var states []StateCount
	for rows.Next() {
		var st StateCount
		if err := rows.Scan(&st.State, &st.Country, &st.Total); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan state")
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate states")
	}
	return states, nil
}

// InsertLead writes one lead row. It is not part of the Store interface —
// ingestion happens elsewhere — but the seed command and tests need a way
// to populate local databases.
func (s *SQLiteStore) InsertLead(ctx context.Context, l model.StoreLead) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO leads (
		id, email, verified_email, phone, verified_phone,
		company_name, company_website, verified_website,
		address, state, country, activity, category, description,
		data_quality_score, created_at, updated_at, last_contacted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Email, l.VerifiedEmail, l.Phone, l.VerifiedPhone,
		l.CompanyName, l.CompanyWebsite, l.VerifiedWebsite,
		l.Address, l.State, l.Country, l.Activity, l.Category, l.Description,
		l.DataQualityScore, l.CreatedAt, l.UpdatedAt, l.LastContactedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert lead")
	}
	return l.ID, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
