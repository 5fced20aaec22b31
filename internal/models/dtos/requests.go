package dtos

import "github.com/shopspring/decimal"

type CreateClubReq struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// UpdateClubReq changes only the fields that are present.
type UpdateClubReq struct {
	Name      *string `json:"name"`
	IsPrivate *bool   `json:"is_private"`
}

type JoinClubReq struct {
	Message string `json:"message,omitempty"`
}

type ReviewJoinRequestReq struct {
	Decision string `json:"decision"`
}

type UpdateRoleReq struct {
	Role string `json:"role"`
}

type BanReq struct {
	UserID       string `json:"user_id"`
	Reason       string `json:"reason,omitempty"`
	Permanent    bool   `json:"permanent"`
	DurationDays *int   `json:"duration_days,omitempty"`
}

type BulkMemberActionReq struct {
	Action  string   `json:"action"`
	UserIDs []string `json:"user_ids"`
	// Ban parameters, used when Action is "ban"
	Reason       string `json:"reason,omitempty"`
	Permanent    bool   `json:"permanent,omitempty"`
	DurationDays *int   `json:"duration_days,omitempty"`
}

type CreateEventReq struct {
	Title        string           `json:"title"`
	EntryFeeUSD  *decimal.Decimal `json:"entry_fee_usd,omitempty"`
	MaxAttendees *int             `json:"max_attendees,omitempty"`
	IsPublic     bool             `json:"is_public"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

type CreateChallengeReq struct {
	Title                       string           `json:"title"`
	EntryFeeUSD                 *decimal.Decimal `json:"entry_fee_usd,omitempty"`
	BonusPoolPercentOfEventFees int              `json:"bonus_pool_percent_of_event_fees"`
}

type CompleteChallengeReq struct {
	Winners []string `json:"winners"`
}

type UpdateSiteRoleReq struct {
	Role string `json:"role"`
}
