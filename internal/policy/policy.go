// Package policy contains the access decisions for companies, teams, projects
// and invitations. Every function is pure: callers fetch the ownership and
// membership facts first, then ask for a decision. Missing facts (nil actor,
// unknown membership) always resolve to deny.
package policy

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's role within a team.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Actor identifies the authenticated user requesting an action.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

// MembershipSet maps team ID to the actor's role in that team.
type MembershipSet map[uuid.UUID]Role

// Has reports whether the set contains any membership for the team.
func (m MembershipSet) Has(teamID uuid.UUID) bool {
	_, ok := m[teamID]
	return ok
}

// IsAdmin reports whether the set contains an admin membership for the team.
func (m MembershipSet) IsAdmin(teamID uuid.UUID) bool {
	return m[teamID] == RoleAdmin
}

// CompanyFacts are the ownership facts about a company needed for a decision.
type CompanyFacts struct {
	CreatorID uuid.UUID
	TeamID    *uuid.UUID // nil means public / personal
	// InRepository is true when the actor holds a repository entry for the
	// company, independent of who owns it.
	InRepository bool
}

// ProjectFacts are the ownership facts about a project needed for a decision.
type ProjectFacts struct {
	CreatorID uuid.UUID
	TeamID    *uuid.UUID
}

// InvitationFacts are the facts about a team invitation needed for a decision.
type InvitationFacts struct {
	Email     string
	Status    string // "pending", "accepted" or "declined"
	ExpiresAt time.Time
}

// CanViewCompany reports whether the actor may read a company. Companies
// without an owning team are part of the public catalogue and visible to any
// authenticated user; team-owned companies are visible to team members, the
// creator, and anyone who added the company to their personal repository.
func CanViewCompany(actor *Actor, c CompanyFacts, memberships MembershipSet) bool {
	if actor == nil {
		return false
	}
	if c.TeamID == nil {
		return true
	}
	if memberships.Has(*c.TeamID) {
		return true
	}
	if c.CreatorID == actor.UserID {
		return true
	}
	return c.InRepository
}

// CanEditCompany reports whether the actor may modify a company's fields.
func CanEditCompany(actor *Actor, c CompanyFacts, memberships MembershipSet) bool {
	if actor == nil {
		return false
	}
	if c.CreatorID == actor.UserID {
		return true
	}
	return c.TeamID != nil && memberships.IsAdmin(*c.TeamID)
}

// CanLinkCompanyToTeam reports whether the actor may attach a company to a
// team. Linking is a one-way transition: it is only allowed while the company
// has no owning team, and only for members of the destination team.
func CanLinkCompanyToTeam(actor *Actor, c CompanyFacts, teamID uuid.UUID, memberships MembershipSet) bool {
	if actor == nil {
		return false
	}
	if c.TeamID != nil {
		return false
	}
	return memberships.Has(teamID)
}

// CanManageTeam reports whether the actor may delete the team or manage its
// members and invitations.
func CanManageTeam(actor *Actor, teamID uuid.UUID, memberships MembershipSet) bool {
	if actor == nil {
		return false
	}
	return memberships.IsAdmin(teamID)
}

// CanRespondToInvitation reports whether the actor may accept or decline an
// invitation: the invitation must be addressed to the actor's email, still
// pending, and not expired at the given instant.
func CanRespondToInvitation(actor *Actor, inv InvitationFacts, now time.Time) bool {
	if actor == nil {
		return false
	}
	if !strings.EqualFold(actor.Email, inv.Email) {
		return false
	}
	if inv.Status != "pending" {
		return false
	}
	return now.Before(inv.ExpiresAt)
}

// CanAddCompanyToProject reports whether the actor may manage a project's
// company associations and notes.
func CanAddCompanyToProject(actor *Actor, p ProjectFacts, memberships MembershipSet) bool {
	if actor == nil {
		return false
	}
	if p.CreatorID == actor.UserID {
		return true
	}
	return p.TeamID != nil && memberships.Has(*p.TeamID)
}

// CanViewProject uses the same rule as CanAddCompanyToProject: projects are
// private to their creator and, when shared, to the team.
func CanViewProject(actor *Actor, p ProjectFacts, memberships MembershipSet) bool {
	return CanAddCompanyToProject(actor, p, memberships)
}
