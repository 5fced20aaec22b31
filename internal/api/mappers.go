package api

import (
	"carclub/paddock/internal/models/dtos"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/services"

	"github.com/shopspring/decimal"
)

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toUserResponse(u *models.User) dtos.UserResponse {
	return dtos.UserResponse{ID: u.ID, ExternalID: u.ExternalID, DisplayName: u.DisplayName, SiteRole: string(u.SiteRole)}
}

func toClubResponse(c *models.Club) dtos.ClubResponse {
	return dtos.ClubResponse{ID: c.ID, Name: c.Name, IsPrivate: c.IsPrivate, CreatorID: c.CreatorID, CreatedAt: c.CreatedAt}
}

func toMembershipResponse(m *models.Membership) dtos.MembershipResponse {
	return dtos.MembershipResponse{
		UserID:      m.UserID,
		ClubID:      m.ClubID,
		Role:        string(m.Role),
		DisplayName: m.User.DisplayName,
		JoinedAt:    m.JoinedAt,
	}
}

func toJoinRequestResponse(jr *models.JoinRequest) dtos.JoinRequestResponse {
	return dtos.JoinRequestResponse{
		ID:         jr.ID,
		UserID:     jr.UserID,
		ClubID:     jr.ClubID,
		Status:     string(jr.Status),
		Message:    jr.Message,
		ReviewedBy: jr.ReviewedBy,
		ReviewedAt: jr.ReviewedAt,
		CreatedAt:  jr.CreatedAt,
	}
}

func toBanResponse(b *models.Ban) *dtos.BanResponse {
	if b == nil {
		return nil
	}
	return &dtos.BanResponse{
		UserID:      b.UserID,
		ClubID:      b.ClubID,
		IssuedBy:    b.IssuedBy,
		Reason:      b.Reason,
		IsPermanent: b.IsPermanent,
		ExpiresAt:   b.ExpiresAt,
	}
}

func toEventResponse(e *models.Event) dtos.EventResponse {
	return dtos.EventResponse{
		ID:           e.ID,
		ClubID:       e.ClubID,
		Title:        e.Title,
		EntryFeeUSD:  nullable(e.EntryFeeUSD),
		MaxAttendees: e.MaxAttendees,
		IsPublic:     e.IsPublic,
		Status:       string(e.Status),
	}
}

func toChallengeResponse(c *models.Challenge) dtos.ChallengeResponse {
	return dtos.ChallengeResponse{
		ID:                          c.ID,
		EventID:                     c.EventID,
		Title:                       c.Title,
		EntryFeeUSD:                 nullable(c.EntryFeeUSD),
		BonusPoolPercentOfEventFees: c.BonusPoolPercentOfEventFees,
		Status:                      string(c.Status),
	}
}

func toSettlementResponse(s *services.Settlement) dtos.SettlementResponse {
	return dtos.SettlementResponse{
		ChallengeID:       s.ChallengeID,
		BonusPoolUSD:      s.BonusPool,
		FirstPlaceUserID:  s.Winners[0],
		SecondPlaceUserID: s.Winners[1],
		ThirdPlaceUserID:  s.Winners[2],
		FirstPlaceUSD:     s.Payouts[0],
		SecondPlaceUSD:    s.Payouts[1],
		ThirdPlaceUSD:     s.Payouts[2],
		PayoutsReleasedAt: s.ReleasedAt,
	}
}

func toEventEntryResponse(e *models.EventEntry) dtos.EntryResponse {
	return dtos.EntryResponse{ID: e.ID, UserID: e.UserID, ParentID: e.EventID, PaymentRef: e.PaymentRef, CreatedAt: e.CreatedAt}
}

func toChallengeEntryResponse(e *models.ChallengeEntry) dtos.EntryResponse {
	return dtos.EntryResponse{ID: e.ID, UserID: e.UserID, ParentID: e.ChallengeID, PaymentRef: e.PaymentRef, CreatedAt: e.CreatedAt}
}
