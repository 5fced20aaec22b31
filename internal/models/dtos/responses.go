package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type UserResponse struct {
	ID          string `json:"id"`
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name,omitempty"`
	SiteRole    string `json:"site_role"`
}

type ClubResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsPrivate bool      `json:"is_private"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MembershipResponse struct {
	UserID      string    `json:"user_id"`
	ClubID      string    `json:"club_id"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

type JoinRequestResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ClubID     string     `json:"club_id"`
	Status     string     `json:"status"`
	Message    *string    `json:"message,omitempty"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type BanResponse struct {
	UserID      string     `json:"user_id"`
	ClubID      string     `json:"club_id"`
	IssuedBy    string     `json:"issued_by"`
	Reason      *string    `json:"reason,omitempty"`
	IsPermanent bool       `json:"is_permanent"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type BanStatusResponse struct {
	UserID string       `json:"user_id"`
	ClubID string       `json:"club_id"`
	Banned bool         `json:"banned"`
	Ban    *BanResponse `json:"ban,omitempty"`
}

type AccessResponse struct {
	ClubID     string `json:"club_id"`
	Permission string `json:"permission,omitempty"`
	Allowed    bool   `json:"allowed"`
}

type BulkResultResponse struct {
	UserID    string `json:"user_id"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
	Message   string `json:"message,omitempty"`
}

type EventResponse struct {
	ID           string           `json:"id"`
	ClubID       string           `json:"club_id"`
	Title        string           `json:"title"`
	EntryFeeUSD  *decimal.Decimal `json:"entry_fee_usd,omitempty"`
	MaxAttendees *int             `json:"max_attendees,omitempty"`
	IsPublic     bool             `json:"is_public"`
	Status       string           `json:"status"`
}

type ChallengeResponse struct {
	ID                          string           `json:"id"`
	EventID                     string           `json:"event_id"`
	Title                       string           `json:"title"`
	EntryFeeUSD                 *decimal.Decimal `json:"entry_fee_usd,omitempty"`
	BonusPoolPercentOfEventFees int              `json:"bonus_pool_percent_of_event_fees"`
	Status                      string           `json:"status"`
}

type EntryResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ParentID   string    `json:"parent_id"`
	PaymentRef *string   `json:"payment_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type AmountResponse struct {
	ID        string          `json:"id"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

type SettlementResponse struct {
	ChallengeID       string          `json:"challenge_id"`
	BonusPoolUSD      decimal.Decimal `json:"bonus_pool_usd"`
	FirstPlaceUserID  string          `json:"first_place_user_id"`
	SecondPlaceUserID string          `json:"second_place_user_id"`
	ThirdPlaceUserID  string          `json:"third_place_user_id"`
	FirstPlaceUSD     decimal.Decimal `json:"first_place_usd"`
	SecondPlaceUSD    decimal.Decimal `json:"second_place_usd"`
	ThirdPlaceUSD     decimal.Decimal `json:"third_place_usd"`
	PayoutsReleasedAt time.Time       `json:"payouts_released_at"`
}

type EventFeeLine struct {
	EventID     string           `json:"event_id"`
	Title       string           `json:"title"`
	Status      string           `json:"status"`
	EntryFeeUSD *decimal.Decimal `json:"entry_fee_usd,omitempty"`
	EntryCount  int64            `json:"entry_count"`
	TotalUSD    decimal.Decimal  `json:"total_usd"`
}

type FeeReportResponse struct {
	ClubID   string          `json:"club_id"`
	Events   []EventFeeLine  `json:"events"`
	TotalUSD decimal.Decimal `json:"total_usd"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}
