package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdaptLead_ConfidenceScaling(t *testing.T) {
	for score := 1; score <= 5; score++ {
		lead := AdaptLead(StoreLead{DataQualityScore: score})
		assert.Equal(t, score*20, lead.Confidence, "score %d", score)
	}
}

func TestAdaptLead_Location(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		country string
		want    string
	}{
		{"both", "Madrid", "España", "Madrid, España"},
		{"state only", "Madrid", "", "Madrid"},
		{"country only", "", "España", "España"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := AdaptLead(StoreLead{State: tt.state, Country: tt.country})
			assert.Equal(t, tt.want, lead.Location)
		})
	}
}

func TestAdaptLead_Defaults(t *testing.T) {
	lead := AdaptLead(StoreLead{})

	assert.Equal(t, UnknownCompanyName, lead.CompanyName)
	assert.False(t, lead.HasWebsite)
	assert.Empty(t, lead.Email)
	assert.Nil(t, lead.LastContactedAt)
}

func TestAdaptLead_FullRecord(t *testing.T) {
	contacted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := StoreLead{
		ID:               "lead-1",
		Email:            "info@acme.es",
		VerifiedEmail:    true,
		Phone:            "+34 600000000",
		VerifiedPhone:    true,
		CompanyName:      "Acme S.L.",
		CompanyWebsite:   "https://acme.es",
		VerifiedWebsite:  true,
		State:            "Madrid",
		Country:          "España",
		Category:         "Instalación Fotovoltaica",
		DataQualityScore: 5,
		LastContactedAt:  &contacted,
	}

	lead := AdaptLead(raw)

	assert.Equal(t, "Acme S.L.", lead.CompanyName)
	assert.True(t, lead.HasWebsite)
	assert.Equal(t, "https://acme.es", lead.Website)
	assert.Equal(t, 100, lead.Confidence)
	assert.Equal(t, "Madrid, España", lead.Location)
	assert.Equal(t, &contacted, lead.LastContactedAt)
}

func TestSearchFilters_HasLocationFilter(t *testing.T) {
	assert.False(t, SearchFilters{}.HasLocationFilter())
	assert.False(t, SearchFilters{Locations: []string{"all"}}.HasLocationFilter())
	assert.False(t, SearchFilters{Locations: []string{"All"}}.HasLocationFilter())
	assert.True(t, SearchFilters{Locations: []string{"all", "Madrid"}}.HasLocationFilter())
	assert.True(t, SearchFilters{Locations: []string{"Madrid"}}.HasLocationFilter())
}
