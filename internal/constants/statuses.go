package constants

type (
	JoinRequestStatus string
	EventStatus       string
	ChallengeStatus   string
)

const (
	JoinRequestPending  JoinRequestStatus = "PENDING"
	JoinRequestApproved JoinRequestStatus = "APPROVED"
	JoinRequestRejected JoinRequestStatus = "REJECTED"
)

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// eventOrder is the forward order of the non-terminal event lifecycle.
var eventOrder = map[EventStatus]int{
	EventDraft:     0,
	EventPublished: 1,
	EventOngoing:   2,
	EventCompleted: 3,
}

func (s EventStatus) IsValid() bool {
	_, ok := eventOrder[s]
	return ok || s == EventCancelled
}

// CanTransitionTo allows strictly forward moves and CANCELLED from any
// state except COMPLETED. CANCELLED and COMPLETED are terminal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	if s == EventCancelled || s == EventCompleted {
		return false
	}
	if next == EventCancelled {
		return true
	}
	from, ok := eventOrder[s]
	to, ok2 := eventOrder[next]
	return ok && ok2 && to > from
}

// AcceptsEntries is false for DRAFT, CANCELLED and COMPLETED events.
func (s EventStatus) AcceptsEntries() bool {
	return s == EventPublished || s == EventOngoing
}

const (
	ChallengePending   ChallengeStatus = "PENDING"
	ChallengeActive    ChallengeStatus = "ACTIVE"
	ChallengeCompleted ChallengeStatus = "COMPLETED"
	ChallengeCancelled ChallengeStatus = "CANCELLED"
)

func (s ChallengeStatus) IsValid() bool {
	switch s {
	case ChallengePending, ChallengeActive, ChallengeCompleted, ChallengeCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo covers the manual transitions. COMPLETED is reachable
// only through settlement and is rejected here.
func (s ChallengeStatus) CanTransitionTo(next ChallengeStatus) bool {
	switch s {
	case ChallengePending:
		return next == ChallengeActive || next == ChallengeCancelled
	case ChallengeActive:
		return next == ChallengeCancelled
	default:
		return false
	}
}

// BulkAction is one of the operations BulkMemberAction can apply.
type BulkAction string

const (
	BulkActionRemove  BulkAction = "remove"
	BulkActionBan     BulkAction = "ban"
	BulkActionPromote BulkAction = "promote"
	BulkActionDemote  BulkAction = "demote"
)

// ReviewDecision is the outcome a reviewer picks for a join request.
type ReviewDecision string

const (
	ReviewApprove ReviewDecision = "approve"
	ReviewReject  ReviewDecision = "reject"
)
