package license

import (
	"time"

	"github.com/google/uuid"
)

// License types, from least to most capable.
const (
	TypeFree         = "free"
	TypeBasic        = "basic"
	TypeProfessional = "professional"
	TypeEnterprise   = "enterprise"
)

// Feature names gated by license type. These gate UI affordances only; data
// access is governed by the policy engine, never by the license.
const (
	FeatureSearch          = "search"
	FeatureRepository      = "repository"
	FeatureTeams           = "teams"
	FeatureProjects        = "projects"
	FeatureTeamReviews     = "team_reviews"
	FeatureExport          = "export"
	FeaturePrioritySupport = "priority_support"
)

// featureSets enumerates the features of each license type.
var featureSets = map[string][]string{
	TypeFree:         {FeatureSearch, FeatureRepository},
	TypeBasic:        {FeatureSearch, FeatureRepository, FeatureProjects},
	TypeProfessional: {FeatureSearch, FeatureRepository, FeatureProjects, FeatureTeams, FeatureTeamReviews, FeatureExport},
	TypeEnterprise:   {FeatureSearch, FeatureRepository, FeatureProjects, FeatureTeams, FeatureTeamReviews, FeatureExport, FeaturePrioritySupport},
}

// Features returns the feature set of a license type.
func Features(licenseType string) []string {
	return featureSets[licenseType]
}

// License represents a row in the user_licenses table.
type License struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Active    bool
	StartsAt  time.Time
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Valid reports whether the license is active and unexpired at the instant.
func (l *License) Valid(now time.Time) bool {
	if !l.Active {
		return false
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return false
	}
	return true
}
