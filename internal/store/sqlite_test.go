package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritter-digital/leads-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func insertLead(t *testing.T, s *SQLiteStore, l model.StoreLead) string {
	t.Helper()
	id, err := s.InsertLead(context.Background(), l)
	require.NoError(t, err)
	return id
}

func TestSQLiteStore_QualityThresholds(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	insertLead(t, s, model.StoreLead{CompanyName: "Quality2", Category: "Solar", DataQualityScore: 2})
	insertLead(t, s, model.StoreLead{CompanyName: "Quality3", Category: "Solar", DataQualityScore: 3})

	// Score 3 passes the primary >= 3 floor; score 2 does not.
	leads, err := s.SearchLeads(ctx, LeadQuery{MinQuality: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Quality3", leads[0].CompanyName)

	// The lowered >= 2 fallback floor includes both.
	leads, err = s.SearchLeads(ctx, LeadQuery{MinQuality: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestSQLiteStore_FiltersAndOrdering(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	insertLead(t, s, model.StoreLead{
		CompanyName: "Fotovoltaica Madrid", Category: "Instalación Fotovoltaica",
		State: "Madrid", DataQualityScore: 4,
	})
	insertLead(t, s, model.StoreLead{
		CompanyName: "Fotovoltaica Sevilla", Category: "Instalación Fotovoltaica",
		State: "Sevilla", DataQualityScore: 5,
	})
	insertLead(t, s, model.StoreLead{
		CompanyName: "Restaurante Madrid", Category: "Restaurante",
		State: "Madrid", DataQualityScore: 5,
	})

	leads, err := s.SearchLeads(ctx, LeadQuery{
		Categories: []string{"Instalación Fotovoltaica"},
		MinQuality: 3,
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	// Ordered by quality descending.
	assert.Equal(t, "Fotovoltaica Sevilla", leads[0].CompanyName)
	assert.Equal(t, "Fotovoltaica Madrid", leads[1].CompanyName)

	leads, err = s.SearchLeads(ctx, LeadQuery{
		Categories: []string{"Instalación Fotovoltaica"},
		States:     []string{"Madrid"},
		MinQuality: 3,
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Fotovoltaica Madrid", leads[0].CompanyName)
}

func TestSQLiteStore_RequirementFlags(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	insertLead(t, s, model.StoreLead{
		CompanyName: "Complete", Category: "Solar",
		Email: "a@x.es", VerifiedEmail: true,
		Phone: "+34 600", VerifiedPhone: true,
		CompanyWebsite: "https://x.es", DataQualityScore: 5,
	})
	insertLead(t, s, model.StoreLead{
		CompanyName: "UnverifiedEmail", Category: "Solar",
		Email: "b@x.es", VerifiedEmail: false, DataQualityScore: 5,
	})
	insertLead(t, s, model.StoreLead{
		CompanyName: "NoWebsite", Category: "Solar",
		Email: "c@x.es", VerifiedEmail: true, DataQualityScore: 5,
	})

	leads, err := s.SearchLeads(ctx, LeadQuery{RequireEmail: true, MinQuality: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, leads, 2, "verified-email filter excludes the unverified row")

	leads, err = s.SearchLeads(ctx, LeadQuery{RequireWebsite: true, MinQuality: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Complete", leads[0].CompanyName)

	leads, err = s.SearchLeads(ctx, LeadQuery{RequirePhone: true, MinQuality: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Complete", leads[0].CompanyName)
}

func TestSQLiteStore_LimitCapsRows(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertLead(t, s, model.StoreLead{CompanyName: "Lead", Category: "Solar", DataQualityScore: 4})
	}

	leads, err := s.SearchLeads(ctx, LeadQuery{MinQuality: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, leads, 3)
}

func TestSQLiteStore_Catalogs(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	insertLead(t, s, model.StoreLead{Category: "Solar", State: "Madrid", Country: "España", DataQualityScore: 3})
	insertLead(t, s, model.StoreLead{Category: "Solar", State: "Madrid", Country: "España", DataQualityScore: 3})
	insertLead(t, s, model.StoreLead{Category: "Restaurante", State: "Sevilla", Country: "España", DataQualityScore: 3})
	insertLead(t, s, model.StoreLead{Category: "", State: "", DataQualityScore: 3})

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2, "empty categories are excluded")
	assert.Equal(t, CategoryCount{Category: "Solar", Total: 2}, cats[0])
	assert.Equal(t, CategoryCount{Category: "Restaurante", Total: 1}, cats[1])

	states, err := s.ListStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, StateCount{State: "Madrid", Country: "España", Total: 2}, states[0])
}

func TestSQLiteStore_LastContactedRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	contacted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	insertLead(t, s, model.StoreLead{
		CompanyName: "Contacted", Category: "Solar",
		DataQualityScore: 3, LastContactedAt: &contacted,
	})
	insertLead(t, s, model.StoreLead{CompanyName: "Fresh", Category: "Solar", DataQualityScore: 3})

	leads, err := s.SearchLeads(ctx, LeadQuery{MinQuality: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	byName := map[string]model.StoreLead{}
	for _, l := range leads {
		byName[l.CompanyName] = l
	}
	require.NotNil(t, byName["Contacted"].LastContactedAt)
	assert.True(t, byName["Contacted"].LastContactedAt.Equal(contacted))
	assert.Nil(t, byName["Fresh"].LastContactedAt)
}
