// Package mapper resolves user-facing search tags to the literal category
// and state values present in the lead store, via keyword-substring
// heuristics over the store catalogs.
package mapper

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ritter-digital/leads-cli/internal/model"
	"github.com/ritter-digital/leads-cli/internal/store"
)

// PlaceholderState is the reserved state value meaning "no state recorded".
// It never appears in mapped output even when a tag matches it.
const PlaceholderState = "Sin determinar"

// Catalogs is the slice of the store the mappers read.
type Catalogs interface {
	ListCategories(ctx context.Context) ([]store.CategoryCount, error)
	ListStates(ctx context.Context) ([]store.StateCount, error)
}

// Mapper resolves client-type and location tags against the live catalogs.
// A catalog read failure degrades to an empty resolution (logged), never a
// hard error: the search proceeds without that filter dimension.
type Mapper struct {
	catalogs Catalogs
	tables   *Tables
}

// New creates a Mapper. A nil tables falls back to DefaultTables.
func New(catalogs Catalogs, tables *Tables) *Mapper {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Mapper{catalogs: catalogs, tables: tables}
}

// MapClientTypes resolves client-type tags to the literal category strings
// currently present in the store. Empty input returns nil without touching
// the store. The result preserves first-match order and has no duplicates.
func (m *Mapper) MapClientTypes(ctx context.Context, clientTypes []string) []string {
	if len(clientTypes) == 0 {
		return nil
	}

	catalog, err := m.catalogs.ListCategories(ctx)
	if err != nil {
		zap.L().Warn("mapper: category catalog unavailable, skipping category filter", zap.Error(err))
		return nil
	}

	var (
		matched []string
		seen    = make(map[string]bool)
	)
	for _, tag := range clientTypes {
		keywords := m.tables.ClientTypes[Fold(tag)]
		if len(keywords) == 0 {
			keywords = []string{Fold(tag)}
		}

		for _, entry := range catalog {
			if entry.Total == 0 || seen[entry.Category] {
				continue
			}
			if categoryMatches(entry.Category, keywords) {
				matched = append(matched, entry.Category)
				seen[entry.Category] = true
			}
		}
	}
	return matched
}

// categoryMatches reports whether any keyword hits the folded category
// string or its first token. The first-token comparison is bidirectional so
// a short keyword like "solar" matches "Solares" and a long keyword like
// "instalaciones" matches the token "instalacion".
func categoryMatches(category string, keywords []string) bool {
	folded := Fold(category)
	token := folded
	if i := strings.IndexByte(folded, ' '); i >= 0 {
		token = folded[:i]
	}

	for _, kw := range keywords {
		kw = Fold(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(folded, kw) || strings.Contains(kw, token) {
			return true
		}
	}
	return false
}

// MapLocations resolves location tags to literal state strings. The "all"
// sentinel contributes nothing and is skipped; the placeholder state value
// is excluded from the output even if a tag matches it.
func (m *Mapper) MapLocations(ctx context.Context, locations []string) []string {
	if len(locations) == 0 {
		return nil
	}

	catalog, err := m.catalogs.ListStates(ctx)
	if err != nil {
		zap.L().Warn("mapper: state catalog unavailable, skipping location filter", zap.Error(err))
		return nil
	}

	placeholder := Fold(PlaceholderState)

	var (
		matched []string
		seen    = make(map[string]bool)
	)
	for _, tag := range locations {
		folded := Fold(tag)
		if folded == Fold(model.LocationAll) {
			continue
		}

		candidates := append([]string{folded}, m.tables.LocationAliases[folded]...)
		for _, entry := range catalog {
			if seen[entry.State] || Fold(entry.State) == placeholder {
				continue
			}
			if stateMatches(entry, candidates) {
				matched = append(matched, entry.State)
				seen[entry.State] = true
			}
		}
	}
	return matched
}

// stateMatches reports whether any candidate name hits a catalog row: tag
// within state, state within tag, or tag within country.
func stateMatches(entry store.StateCount, candidates []string) bool {
	state := Fold(entry.State)
	country := Fold(entry.Country)

	for _, c := range candidates {
		c = Fold(c)
		if c == "" {
			continue
		}
		if strings.Contains(state, c) || strings.Contains(c, state) || strings.Contains(country, c) {
			return true
		}
	}
	return false
}
