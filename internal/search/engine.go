// Package search implements the lead query engine: tag resolution through
// the mappers, then an ordered cascade of progressively relaxed query
// strategies until one yields rows.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/ritter-digital/leads-cli/internal/mapper"
	"github.com/ritter-digital/leads-cli/internal/model"
	"github.com/ritter-digital/leads-cli/internal/store"
)

// Strategy names, in cascade order.
const (
	StrategyPrimary      = "primary"
	StrategyCategoryOnly = "category_only"
	StrategyFloor        = "floor"
)

// Limits holds the quality floors and row caps for each cascade tier.
type Limits struct {
	PrimaryMinQuality  int `yaml:"primary_min_quality" mapstructure:"primary_min_quality"`
	PrimaryLimit       int `yaml:"primary_limit" mapstructure:"primary_limit"`
	FallbackMinQuality int `yaml:"fallback_min_quality" mapstructure:"fallback_min_quality"`
	FallbackLimit      int `yaml:"fallback_limit" mapstructure:"fallback_limit"`
	FloorMinQuality    int `yaml:"floor_min_quality" mapstructure:"floor_min_quality"`
	FloorLimit         int `yaml:"floor_limit" mapstructure:"floor_limit"`
}

// DefaultLimits returns the production cascade tuning.
func DefaultLimits() Limits {
	return Limits{
		PrimaryMinQuality:  3,
		PrimaryLimit:       500,
		FallbackMinQuality: 2,
		FallbackLimit:      200,
		FloorMinQuality:    4,
		FloorLimit:         50,
	}
}

// Result is the outcome of one search invocation.
type Result struct {
	Leads []model.Lead `json:"leads"`

	// Broadened is true when the rows came from a fallback strategy, i.e.
	// they may not satisfy every filter the user asked for. The UI must
	// surface this.
	Broadened bool `json:"broadened"`

	// Strategy names the cascade tier that produced the rows.
	Strategy string `json:"strategy"`
}

// Engine executes searches against the lead store.
type Engine struct {
	store  store.Store
	mapper *mapper.Mapper
	limits Limits
}

// New creates an Engine with the given cascade limits.
func New(st store.Store, m *mapper.Mapper, limits Limits) *Engine {
	return &Engine{store: st, mapper: m, limits: limits}
}

// Search resolves the filters and runs the strategy cascade. Zero matching
// leads is not an error; only store-level failures return one, always as a
// *QueryError.
func (e *Engine) Search(ctx context.Context, filters model.SearchFilters) (*Result, error) {
	var categories, states []string
	if len(filters.ClientTypes) > 0 {
		categories = e.mapper.MapClientTypes(ctx, filters.ClientTypes)
	}
	if filters.HasLocationFilter() {
		states = e.mapper.MapLocations(ctx, filters.Locations)
	}

	strategies := e.buildCascade(filters, categories, states)

	for i, s := range strategies {
		rows, err := e.store.SearchLeads(ctx, s.query)
		if err != nil {
			return nil, &QueryError{Strategy: s.name, Err: err}
		}
		if len(rows) == 0 {
			continue
		}

		leads := make([]model.Lead, len(rows))
		for j, raw := range rows {
			leads[j] = model.AdaptLead(raw)
		}

		if i > 0 {
			zap.L().Info("search: broadened results",
				zap.String("strategy", s.name),
				zap.Int("leads", len(leads)),
			)
		}
		return &Result{Leads: leads, Broadened: i > 0, Strategy: s.name}, nil
	}

	return &Result{Leads: []model.Lead{}, Strategy: StrategyPrimary}, nil
}

type strategy struct {
	name  string
	query store.LeadQuery
}

// buildCascade assembles the ordered strategy list:
//  1. primary: every resolved filter, standard quality floor;
//  2. category-only: tried when the primary applied filters and both
//     dimensions resolved, with a lowered quality floor;
//  3. floor: unfiltered high-quality rows, so the dashboard never
//     dead-ends on an over-narrow search.
func (e *Engine) buildCascade(filters model.SearchFilters, categories, states []string) []strategy {
	primary := store.LeadQuery{
		Categories:     categories,
		States:         states,
		RequireWebsite: filters.RequireWebsite,
		RequireEmail:   filters.RequireEmail,
		RequirePhone:   filters.RequirePhone,
		MinQuality:     e.limits.PrimaryMinQuality,
		Limit:          e.limits.PrimaryLimit,
	}

	cascade := []strategy{{name: StrategyPrimary, query: primary}}

	if primary.Filtered() && len(categories) > 0 && len(states) > 0 {
		cascade = append(cascade, strategy{
			name: StrategyCategoryOnly,
			query: store.LeadQuery{
				Categories: categories,
				MinQuality: e.limits.FallbackMinQuality,
				Limit:      e.limits.FallbackLimit,
			},
		})
	}

	cascade = append(cascade, strategy{
		name: StrategyFloor,
		query: store.LeadQuery{
			MinQuality: e.limits.FloorMinQuality,
			Limit:      e.limits.FloorLimit,
		},
	})

	return cascade
}
