// Package permissions holds the static role tables and the resolver that
// answers "may this actor do this" for site-wide and club-scoped actions.
package permissions

import "carclub/paddock/internal/constants"

// PermissionSet is an immutable set of permissions. Lookups on a nil set
// return false.
type PermissionSet map[constants.Permission]struct{}

func newSet(perms ...constants.Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s PermissionSet) Has(p constants.Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the permissions in the set, unordered.
func (s PermissionSet) List() []constants.Permission {
	out := make([]constants.Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

var sitePermissions = map[constants.SiteRole]PermissionSet{
	constants.SiteRoleSuperAdmin: newSet(
		constants.PermUsersManageRoles,
		constants.PermUsersBan,
		constants.PermClubsCreate,
		constants.PermClubsModerate,
		constants.PermClubsDelete,
		constants.PermReportsView,
	),
	constants.SiteRoleAdmin: newSet(
		constants.PermUsersBan,
		constants.PermClubsCreate,
		constants.PermClubsModerate,
		constants.PermReportsView,
	),
	constants.SiteRoleUser: newSet(
		constants.PermClubsCreate,
	),
}

var clubPermissions = map[constants.ClubRole]PermissionSet{
	constants.ClubRoleAdmin: newSet(
		constants.PermClubUpdate,
		constants.PermClubDelete,
		constants.PermMembersInvite,
		constants.PermMembersRemove,
		constants.PermMembersPromote,
		constants.PermMembersBan,
		constants.PermEventsCreate,
		constants.PermEventsManage,
		constants.PermEventsEnter,
		constants.PermChallengesCreate,
		constants.PermChallengesManage,
		constants.PermChallengesComplete,
		constants.PermLedgerView,
	),
	constants.ClubRoleModerator: newSet(
		constants.PermMembersInvite,
		constants.PermMembersRemove,
		constants.PermMembersBan,
		constants.PermEventsCreate,
		constants.PermEventsManage,
		constants.PermEventsEnter,
		constants.PermLedgerView,
	),
	constants.ClubRoleMember: newSet(
		constants.PermEventsEnter,
	),
}

// SitePermissions returns the permission set of a site role. Unknown roles
// get the empty set.
func SitePermissions(role constants.SiteRole) PermissionSet {
	return sitePermissions[role]
}

// ClubPermissions returns the permission set of a club role. Unknown roles
// get the empty set.
func ClubPermissions(role constants.ClubRole) PermissionSet {
	return clubPermissions[role]
}
