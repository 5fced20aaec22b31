package services

import (
	"context"
	"strings"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/permissions"
)

// MembershipService runs the membership lifecycle: join requests, role
// changes, removal and bans.
type MembershipService struct {
	core
}

func NewMembershipService(d Deps) *MembershipService {
	return &MembershipService{core: newCore(d)}
}

// BanParams describes a ban. DurationDays is ignored for permanent bans
// and required otherwise.
type BanParams struct {
	Reason       string
	Permanent    bool
	DurationDays *int
}

func (p BanParams) validate() error {
	if !p.Permanent && (p.DurationDays == nil || *p.DurationDays <= 0) {
		return common.BadRequest(constants.MsgBanDurationRequired)
	}
	return nil
}

// BulkResult is the outcome for one target of a bulk action.
type BulkResult struct {
	UserID  string
	Success bool
	Err     error
}

// RequestJoin files a PENDING join request for the actor.
func (s *MembershipService) RequestJoin(ctx context.Context, actorID, clubID, message string) (*models.JoinRequest, error) {
	var jr *models.JoinRequest

	err := s.command(ctx, "RequestJoin", actorID, func(tx *repositories.Store) error {
		if _, _, err := loadActor(ctx, tx, actorID); err != nil {
			return err
		}
		if _, err := loadClub(ctx, tx, clubID); err != nil {
			return err
		}

		ban, err := optional(tx.Bans.GetByUserAndClub(ctx, actorID, clubID))
		if err != nil {
			return err
		}
		if ban.IsActive(s.now()) {
			return common.Forbidden(constants.MsgActorBanned)
		}

		member, err := optional(tx.Memberships.GetByUserAndClub(ctx, actorID, clubID))
		if err != nil {
			return err
		}
		if member != nil {
			return common.Conflict(constants.MsgAlreadyMember)
		}

		pending, err := optional(tx.JoinRequests.FindPending(ctx, actorID, clubID))
		if err != nil {
			return err
		}
		if pending != nil {
			return common.Conflict(constants.MsgPendingRequest)
		}

		jr = &models.JoinRequest{UserID: actorID, ClubID: clubID, Status: constants.JoinRequestPending}
		if msg := strings.TrimSpace(message); msg != "" {
			jr.Message = &msg
		}
		// The partial unique index catches a concurrent duplicate.
		return conflictAs(tx.JoinRequests.Create(ctx, jr), constants.MsgPendingRequest)
	})
	if err != nil {
		return nil, err
	}
	return jr, nil
}

// ReviewJoinRequest approves or rejects a PENDING request. Approval
// creates a MEMBER membership in the same transaction.
func (s *MembershipService) ReviewJoinRequest(ctx context.Context, actorID, requestID string, decision constants.ReviewDecision) (*models.JoinRequest, error) {
	var status constants.JoinRequestStatus
	switch decision {
	case constants.ReviewApprove:
		status = constants.JoinRequestApproved
	case constants.ReviewReject:
		status = constants.JoinRequestRejected
	default:
		return nil, common.BadRequest(constants.MsgInvalidDecision)
	}

	var jr *models.JoinRequest
	err := s.command(ctx, "ReviewJoinRequest", actorID, func(tx *repositories.Store) error {
		var err error
		jr, err = tx.JoinRequests.GetByID(ctx, requestID)
		if err != nil {
			return notFoundAs(err, constants.MsgJoinRequestNotFound)
		}
		if jr.Status != constants.JoinRequestPending {
			return common.NotFound(constants.MsgJoinRequestNotFound)
		}

		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		club, err := loadClub(ctx, tx, jr.ClubID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, club, constants.PermMembersInvite); err != nil {
			return err
		}

		now := s.now()
		ok, err := tx.JoinRequests.Review(ctx, jr.ID, status, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return common.NotFound(constants.MsgJoinRequestNotFound)
		}
		jr.Status = status
		jr.ReviewedBy = &actorID
		jr.ReviewedAt = &now

		if status != constants.JoinRequestApproved {
			return nil
		}
		err = tx.Memberships.Create(ctx, &models.Membership{
			UserID:   jr.UserID,
			ClubID:   jr.ClubID,
			Role:     constants.ClubRoleMember,
			JoinedAt: now,
		})
		return conflictAs(err, constants.MsgAlreadyMember)
	})
	if err != nil {
		return nil, err
	}
	return jr, nil
}

// UpdateRole sets a member's club role. The creator always stays ADMIN.
func (s *MembershipService) UpdateRole(ctx context.Context, actorID, clubID, targetID string, role constants.ClubRole) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, common.BadRequest(constants.MsgInvalidRole)
	}

	var m *models.Membership
	err := s.command(ctx, "UpdateRole", actorID, func(tx *repositories.Store) error {
		var err error
		m, err = s.setRole(ctx, tx, actorID, clubID, targetID, func(*models.Membership) (constants.ClubRole, error) {
			return role, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// setRole is the shared body of UpdateRole and the bulk promote/demote
// actions. next picks the new role from the current membership.
func (s *MembershipService) setRole(
	ctx context.Context,
	tx *repositories.Store,
	actorID, clubID, targetID string,
	next func(*models.Membership) (constants.ClubRole, error),
) (*models.Membership, error) {
	_, actor, err := loadActor(ctx, tx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := loadClub(ctx, tx, clubID)
	if err != nil {
		return nil, err
	}
	if err := requireClub(actor, club, constants.PermMembersPromote); err != nil {
		return nil, err
	}

	m, err := tx.Memberships.GetByUserAndClub(ctx, targetID, clubID)
	if err != nil {
		return nil, notFoundAs(err, constants.MsgMembershipNotFound)
	}
	role, err := next(m)
	if err != nil {
		return nil, err
	}
	if targetID == club.CreatorID && role != constants.ClubRoleAdmin {
		return nil, common.BadRequest(constants.MsgCreatorProtected)
	}
	if err := requireOutranks(actor, clubID, m); err != nil {
		return nil, err
	}

	if err := tx.Memberships.UpdateRole(ctx, targetID, clubID, role); err != nil {
		return nil, notFoundAs(err, constants.MsgMembershipNotFound)
	}
	m.Role = role
	return m, nil
}

// Ban bans target from the club, replacing any existing ban, and removes
// their membership and pending join request.
func (s *MembershipService) Ban(ctx context.Context, actorID, clubID, targetID string, p BanParams) (*models.Ban, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var ban *models.Ban
	err := s.command(ctx, "Ban", actorID, func(tx *repositories.Store) error {
		var err error
		ban, err = s.ban(ctx, tx, actorID, clubID, targetID, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.bans.Invalidate(ctx, targetID, clubID)
	return ban, nil
}

func (s *MembershipService) ban(ctx context.Context, tx *repositories.Store, actorID, clubID, targetID string, p BanParams) (*models.Ban, error) {
	_, actor, err := loadActor(ctx, tx, actorID)
	if err != nil {
		return nil, err
	}
	club, err := loadClub(ctx, tx, clubID)
	if err != nil {
		return nil, err
	}
	if err := requireClub(actor, club, constants.PermMembersBan); err != nil {
		return nil, err
	}
	if targetID == club.CreatorID {
		return nil, common.Forbidden(constants.MsgCreatorProtected)
	}
	if _, err := tx.Users.GetByID(ctx, targetID); err != nil {
		return nil, notFoundAs(err, constants.MsgUserNotFound)
	}

	member, err := optional(tx.Memberships.GetByUserAndClub(ctx, targetID, clubID))
	if err != nil {
		return nil, err
	}
	if err := requireOutranks(actor, clubID, member); err != nil {
		return nil, err
	}

	now := s.now()
	ban := &models.Ban{
		UserID:      targetID,
		ClubID:      clubID,
		IssuedBy:    actorID,
		IsPermanent: p.Permanent,
	}
	if reason := strings.TrimSpace(p.Reason); reason != "" {
		ban.Reason = &reason
	}
	if !p.Permanent {
		expires := now.Add(time.Duration(*p.DurationDays) * 24 * time.Hour)
		ban.ExpiresAt = &expires
	}
	if err := tx.Bans.Upsert(ctx, ban); err != nil {
		return nil, err
	}

	if member != nil {
		if _, err := tx.Memberships.Delete(ctx, targetID, clubID); err != nil {
			return nil, err
		}
	}
	if err := tx.JoinRequests.RejectPending(ctx, targetID, clubID, actorID, now); err != nil {
		return nil, err
	}

	// Upsert may have kept the old row id; read back the stored record.
	return tx.Bans.GetByUserAndClub(ctx, targetID, clubID)
}

// Unban lifts an active ban.
func (s *MembershipService) Unban(ctx context.Context, actorID, clubID, targetID string) error {
	err := s.command(ctx, "Unban", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		club, err := loadClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, club, constants.PermMembersBan); err != nil {
			return err
		}

		ban, err := optional(tx.Bans.GetByUserAndClub(ctx, targetID, clubID))
		if err != nil {
			return err
		}
		if !ban.IsActive(s.now()) {
			return common.NotFound(constants.MsgNoActiveBan)
		}
		_, err = tx.Bans.Delete(ctx, targetID, clubID)
		return err
	})
	if err != nil {
		return err
	}
	s.bans.Invalidate(ctx, targetID, clubID)
	return nil
}

// RemoveMember deletes target's membership without banning them.
func (s *MembershipService) RemoveMember(ctx context.Context, actorID, clubID, targetID string) error {
	return s.command(ctx, "RemoveMember", actorID, func(tx *repositories.Store) error {
		return s.remove(ctx, tx, actorID, clubID, targetID)
	})
}

func (s *MembershipService) remove(ctx context.Context, tx *repositories.Store, actorID, clubID, targetID string) error {
	_, actor, err := loadActor(ctx, tx, actorID)
	if err != nil {
		return err
	}
	club, err := loadClub(ctx, tx, clubID)
	if err != nil {
		return err
	}
	if err := requireClub(actor, club, constants.PermMembersRemove); err != nil {
		return err
	}
	if targetID == club.CreatorID {
		return common.Forbidden(constants.MsgCreatorProtected)
	}

	m, err := tx.Memberships.GetByUserAndClub(ctx, targetID, clubID)
	if err != nil {
		return notFoundAs(err, constants.MsgMembershipNotFound)
	}
	if err := requireOutranks(actor, clubID, m); err != nil {
		return err
	}

	ok, err := tx.Memberships.Delete(ctx, targetID, clubID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NotFound(constants.MsgMembershipNotFound)
	}
	return nil
}

// BulkMemberAction applies one action to many users. Each target runs in
// its own transaction; a failure is reported for that target only.
func (s *MembershipService) BulkMemberAction(
	ctx context.Context,
	actorID, clubID string,
	action constants.BulkAction,
	userIDs []string,
	ban BanParams,
) ([]BulkResult, error) {
	switch action {
	case constants.BulkActionRemove, constants.BulkActionPromote, constants.BulkActionDemote:
	case constants.BulkActionBan:
		if err := ban.validate(); err != nil {
			return nil, err
		}
	default:
		return nil, common.BadRequest(constants.MsgInvalidAction)
	}
	if len(userIDs) == 0 {
		return nil, common.BadRequest(constants.MsgNoTargets)
	}

	op := "BulkMemberAction." + string(action)
	results := make([]BulkResult, 0, len(userIDs))
	for _, targetID := range userIDs {
		err := s.command(ctx, op, actorID, func(tx *repositories.Store) error {
			switch action {
			case constants.BulkActionRemove:
				return s.remove(ctx, tx, actorID, clubID, targetID)
			case constants.BulkActionBan:
				_, err := s.ban(ctx, tx, actorID, clubID, targetID, ban)
				return err
			case constants.BulkActionPromote:
				_, err := s.setRole(ctx, tx, actorID, clubID, targetID, promote)
				return err
			default:
				_, err := s.setRole(ctx, tx, actorID, clubID, targetID, demote)
				return err
			}
		})
		if err == nil && action == constants.BulkActionBan {
			s.bans.Invalidate(ctx, targetID, clubID)
		}
		results = append(results, BulkResult{UserID: targetID, Success: err == nil, Err: err})
	}
	return results, nil
}

func promote(m *models.Membership) (constants.ClubRole, error) {
	switch m.Role {
	case constants.ClubRoleMember:
		return constants.ClubRoleModerator, nil
	case constants.ClubRoleModerator:
		return constants.ClubRoleAdmin, nil
	default:
		return "", common.BadRequest(constants.MsgNoHigherRole)
	}
}

func demote(m *models.Membership) (constants.ClubRole, error) {
	switch m.Role {
	case constants.ClubRoleAdmin:
		return constants.ClubRoleModerator, nil
	case constants.ClubRoleModerator:
		return constants.ClubRoleMember, nil
	default:
		return "", common.BadRequest(constants.MsgNoLowerRole)
	}
}

// IsBanned reports whether user is under an active ban in club. Reads go
// through the ban cache; expiry is evaluated against the current time.
func (s *MembershipService) IsBanned(ctx context.Context, userID, clubID string) (bool, *models.Ban, error) {
	ban, err := s.bans.Lookup(ctx, s.store, userID, clubID)
	if err != nil {
		return false, nil, err
	}
	if !ban.IsActive(s.now()) {
		return false, nil, nil
	}
	return true, ban, nil
}

// ListMembers returns a club's members to anyone who can see the club.
func (s *MembershipService) ListMembers(ctx context.Context, actorID, clubID string) ([]models.Membership, error) {
	_, actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	club, err := loadClub(ctx, s.store, clubID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanAccessClub(actor, clubRef(club)) {
		return nil, common.NotFound(constants.MsgClubNotFound)
	}
	return s.store.Memberships.ListByClub(ctx, clubID)
}

// ListJoinRequests returns the pending requests of a club to reviewers.
func (s *MembershipService) ListJoinRequests(ctx context.Context, actorID, clubID string) ([]models.JoinRequest, error) {
	_, actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	club, err := loadClub(ctx, s.store, clubID)
	if err != nil {
		return nil, err
	}
	if err := requireClub(actor, club, constants.PermMembersInvite); err != nil {
		return nil, err
	}
	return s.store.JoinRequests.ListPendingByClub(ctx, clubID)
}
