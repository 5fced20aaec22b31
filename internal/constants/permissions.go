package constants

// Permission names an action an actor may perform, either site-wide or
// inside a club.
type Permission string

func (p Permission) String() string { return string(p) }

// Site permissions
const (
	PermUsersManageRoles Permission = "users:manage_roles"
	PermUsersBan         Permission = "users:ban"
	PermClubsCreate      Permission = "clubs:create"
	PermClubsModerate    Permission = "clubs:moderate"
	PermClubsDelete      Permission = "clubs:delete"
	PermReportsView      Permission = "reports:view"
)

// Club permissions
const (
	PermClubUpdate         Permission = "club:update"
	PermClubDelete         Permission = "club:delete"
	PermMembersInvite      Permission = "members:invite"
	PermMembersRemove      Permission = "members:remove"
	PermMembersPromote     Permission = "members:promote"
	PermMembersBan         Permission = "members:ban"
	PermEventsCreate       Permission = "events:create"
	PermEventsManage       Permission = "events:manage"
	PermEventsEnter        Permission = "events:enter"
	PermChallengesCreate   Permission = "challenges:create"
	PermChallengesManage   Permission = "challenges:manage"
	PermChallengesComplete Permission = "challenges:complete"
	PermLedgerView         Permission = "ledger:view"
)
