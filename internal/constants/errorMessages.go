package constants

const (
	MsgClubNotFound        = "club not found"
	MsgUserNotFound        = "user not found"
	MsgEventNotFound       = "event not found"
	MsgChallengeNotFound   = "challenge not found"
	MsgJoinRequestNotFound = "join request not found or already reviewed"
	MsgMembershipNotFound  = "user is not a member of this club"
	MsgNoActiveBan         = "user has no active ban in this club"

	MsgPermissionDenied   = "actor lacks the required permission"
	MsgActorBanned        = "actor is banned from this club"
	MsgCreatorProtected   = "the club creator cannot be demoted, removed or banned"
	MsgAlreadyMember      = "user is already a member of this club"
	MsgPendingRequest     = "a pending join request already exists"
	MsgDuplicateEntry     = "entry already exists"
	MsgAlreadySettled     = "challenge has already been completed"
	MsgEventEntryRequired = "an entry for the parent event is required first"
	MsgTargetOutranks     = "target holds a higher club role than the actor"

	MsgBanDurationRequired = "a temporary ban needs a positive duration in days"
	MsgInvalidRole         = "unknown role"
	MsgInvalidDecision     = "decision must be approve or reject"
	MsgInvalidTransition   = "illegal status transition"
	MsgEventClosed         = "event is not open for registration"
	MsgEventFull           = "event has reached its maximum attendees"
	MsgMembersOnlyEvent    = "event is restricted to club members"
	MsgChallengeNotActive  = "challenge is not active"
	MsgWinnersNotDistinct  = "winners must be three distinct users"
	MsgWinnersNotEntered   = "winners must be participants"
	MsgInvalidPercent      = "bonus pool percent must be between 0 and 100"
	MsgNegativeFee         = "entry fee must not be negative"
	MsgNotSettled          = "challenge has not been completed"
	MsgNameRequired        = "name is required"
	MsgTitleRequired       = "title is required"
	MsgInvalidCapacity     = "max attendees must be positive"
	MsgInvalidStatus       = "unknown status"
	MsgCompleteViaSettle   = "challenges are completed through settlement"
	MsgEventFinished       = "event is cancelled or completed"
	MsgInvalidAction       = "action must be remove, ban, promote or demote"
	MsgNoTargets           = "at least one user id is required"
	MsgNoHigherRole        = "member already holds the highest club role"
	MsgNoLowerRole         = "member already holds the lowest club role"
)
