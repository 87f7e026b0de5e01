package model

import (
	"strings"
	"time"
)

// LocationAll is the reserved location tag meaning "no location filter".
const LocationAll = "all"

// UnknownCompanyName is the display fallback when a lead has no company name.
const UnknownCompanyName = "Desconocido"

// StoreLead is a raw lead row as persisted in the lead store. Rows are
// written by an external ingestion process; this codebase only reads them.
type StoreLead struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	VerifiedEmail   bool       `json:"verified_email"`
	Phone           string     `json:"phone"`
	VerifiedPhone   bool       `json:"verified_phone"`
	CompanyName     string     `json:"company_name"`
	CompanyWebsite  string     `json:"company_website"`
	VerifiedWebsite bool       `json:"verified_website"`
	Address         string     `json:"address"`
	State           string     `json:"state"`
	Country         string     `json:"country"`
	Activity        string     `json:"activity"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	// DataQualityScore is 1..5, a function of how many contact fields are
	// present and verified. Higher is more complete.
	DataQualityScore int        `json:"data_quality_score"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastContactedAt  *time.Time `json:"last_contacted_at,omitempty"`
}

// Lead is the dashboard view model derived from a StoreLead.
type Lead struct {
	ID              string     `json:"id"`
	CompanyName     string     `json:"company_name"`
	Email           string     `json:"email"`
	VerifiedEmail   bool       `json:"verified_email"`
	Phone           string     `json:"phone"`
	VerifiedPhone   bool       `json:"verified_phone"`
	Website         string     `json:"website"`
	HasWebsite      bool       `json:"has_website"`
	VerifiedWebsite bool       `json:"verified_website"`
	Address         string     `json:"address"`
	State           string     `json:"state"`
	Country         string     `json:"country"`
	Location        string     `json:"location"`
	Activity        string     `json:"activity"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	Confidence      int        `json:"confidence"`
	QualityScore    int        `json:"quality_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
}

// AdaptLead converts a raw store row into the dashboard view model.
// It is total: missing fields default to empty strings / false, a missing
// company name becomes UnknownCompanyName, and confidence maps the 1..5
// quality score onto 20..100.
func AdaptLead(raw StoreLead) Lead {
	name := raw.CompanyName
	if name == "" {
		name = UnknownCompanyName
	}

	return Lead{
		ID:              raw.ID,
		CompanyName:     name,
		Email:           raw.Email,
		VerifiedEmail:   raw.VerifiedEmail,
		Phone:           raw.Phone,
		VerifiedPhone:   raw.VerifiedPhone,
		Website:         raw.CompanyWebsite,
		HasWebsite:      raw.CompanyWebsite != "",
		VerifiedWebsite: raw.VerifiedWebsite,
		Address:         raw.Address,
		State:           raw.State,
		Country:         raw.Country,
		Location:        formatLocation(raw.State, raw.Country),
		Activity:        raw.Activity,
		Category:        raw.Category,
		Description:     raw.Description,
		Confidence:      raw.DataQualityScore * 20,
		QualityScore:    raw.DataQualityScore,
		CreatedAt:       raw.CreatedAt,
		UpdatedAt:       raw.UpdatedAt,
		LastContactedAt: raw.LastContactedAt,
	}
}

// formatLocation joins state and country as "State, Country", dropping the
// separator when either side is empty.
func formatLocation(state, country string) string {
	return strings.Trim(strings.TrimSpace(state+", "+country), ", ")
}

// SearchFilters describes one search invocation from the dashboard.
type SearchFilters struct {
	ClientTypes    []string `json:"client_types"`
	Locations      []string `json:"locations"`
	RequireWebsite bool     `json:"require_website"`
	RequireEmail   bool     `json:"require_email"`
	RequirePhone   bool     `json:"require_phone"`
}

// HasLocationFilter reports whether the filters name any location other
// than the LocationAll sentinel.
func (f SearchFilters) HasLocationFilter() bool {
	for _, loc := range f.Locations {
		if !strings.EqualFold(loc, LocationAll) {
			return true
		}
	}
	return false
}
