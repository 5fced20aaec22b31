package permissions

import "carclub/paddock/internal/constants"

// Actor is the resolver's view of an authenticated user: the site role
// plus the roles of the memberships that are active right now.
type Actor struct {
	ID          string
	SiteRole    constants.SiteRole
	Memberships map[string]constants.ClubRole // club id -> role
}

// Club carries the club attributes the resolver reads.
type Club struct {
	ID        string
	IsPrivate bool
	CreatorID string
}

// MembershipRole returns the actor's role in clubID, if any.
func (a Actor) MembershipRole(clubID string) (constants.ClubRole, bool) {
	role, ok := a.Memberships[clubID]
	return role, ok
}

// CanActSite reports whether the actor's site role grants perm.
func CanActSite(actor Actor, perm constants.Permission) bool {
	return SitePermissions(actor.SiteRole).Has(perm)
}

// CanActClub reports whether the actor may perform perm inside club.
func CanActClub(actor Actor, club Club, perm constants.Permission) bool {
	// Site admins bypass club-level checks. This is the intended
	// escalation path for moderation, keep it as the first branch.
	if actor.SiteRole.IsSiteAdmin() {
		return true
	}
	role, ok := actor.MembershipRole(club.ID)
	if !ok {
		return false
	}
	return ClubPermissions(role).Has(perm)
}

// CanAccessClub reports whether the actor may see the club at all.
func CanAccessClub(actor Actor, club Club) bool {
	if actor.SiteRole.IsSiteAdmin() {
		return true
	}
	if !club.IsPrivate {
		return true
	}
	_, ok := actor.MembershipRole(club.ID)
	return ok
}
