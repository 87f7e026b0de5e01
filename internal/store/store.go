package store

import (
	"context"

	"github.com/ritter-digital/leads-cli/internal/model"
)

// LeadQuery is a pure description of one lead query: inclusion filters,
// requirement flags, a minimum quality floor, and a row cap. The search
// engine builds an ordered list of these and tries them in turn.
type LeadQuery struct {
	Categories     []string `json:"categories,omitempty"`
	States         []string `json:"states,omitempty"`
	RequireWebsite bool     `json:"require_website,omitempty"`
	RequireEmail   bool     `json:"require_email,omitempty"`
	RequirePhone   bool     `json:"require_phone,omitempty"`
	MinQuality     int      `json:"min_quality"`
	Limit          int      `json:"limit"`
}

// Filtered reports whether the query narrows the lead set beyond the
// quality floor.
func (q LeadQuery) Filtered() bool {
	return len(q.Categories) > 0 || len(q.States) > 0 ||
		q.RequireWebsite || q.RequireEmail || q.RequirePhone
}

// CategoryCount is one row of the category catalog.
type CategoryCount struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}

// StateCount is one row of the state catalog.
type StateCount struct {
	State   string `json:"state"`
	Country string `json:"country"`
	Total   int    `json:"total"`
}

// Store is the read interface over the lead store. Leads are written by an
// external ingestion process; this side only queries.
type Store interface {
	// SearchLeads executes one query description and returns matching raw
	// rows ordered by quality then recency.
	SearchLeads(ctx context.Context, q LeadQuery) ([]model.StoreLead, error)

	// ListCategories returns the distinct non-empty categories present in
	// the store with their lead counts. Refreshed on every call.
	ListCategories(ctx context.Context) ([]CategoryCount, error)

	// ListStates returns the distinct non-empty states with country and
	// lead counts. Refreshed on every call.
	ListStates(ctx context.Context) ([]StateCount, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
