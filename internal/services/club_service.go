package services

import (
	"context"
	"errors"
	"strings"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/permissions"
)

// ClubService handles clubs, site roles and the read-only permission
// queries.
type ClubService struct {
	core
}

func NewClubService(d Deps) *ClubService {
	return &ClubService{core: newCore(d)}
}

// CreateClub creates a club and makes the actor its creator and first
// ADMIN in the same transaction.
func (s *ClubService) CreateClub(ctx context.Context, actorID, name string, isPrivate bool) (*models.Club, error) {
	name = strings.TrimSpace(name)
	var club *models.Club

	err := s.command(ctx, "CreateClub", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if !permissions.CanActSite(actor, constants.PermClubsCreate) {
			return common.Forbidden(constants.MsgPermissionDenied)
		}
		if name == "" {
			return common.BadRequest(constants.MsgNameRequired)
		}

		club = &models.Club{Name: name, IsPrivate: isPrivate, CreatorID: actorID}
		if err := tx.Clubs.Create(ctx, club); err != nil {
			return err
		}
		return tx.Memberships.Create(ctx, &models.Membership{
			UserID:   actorID,
			ClubID:   club.ID,
			Role:     constants.ClubRoleAdmin,
			JoinedAt: s.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return club, nil
}

// GetClub returns a club the actor is allowed to see. Private clubs are
// reported missing to outsiders.
func (s *ClubService) GetClub(ctx context.Context, actorID, clubID string) (*models.Club, error) {
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
	return club, nil
}

// UpdateClub renames a club or changes its privacy. Nil fields are left
// alone. Requires club:update.
func (s *ClubService) UpdateClub(ctx context.Context, actorID, clubID string, name *string, isPrivate *bool) (*models.Club, error) {
	var club *models.Club

	err := s.command(ctx, "UpdateClub", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		club, err = loadClub(ctx, tx, clubID)
		if err != nil {
			return err
		}
		if err := requireClub(actor, club, constants.PermClubUpdate); err != nil {
			return err
		}

		if name != nil {
			trimmed := strings.TrimSpace(*name)
			if trimmed == "" {
				return common.BadRequest(constants.MsgNameRequired)
			}
			club.Name = trimmed
		}
		if isPrivate != nil {
			club.IsPrivate = *isPrivate
		}
		return tx.Clubs.Update(ctx, club)
	})
	if err != nil {
		return nil, err
	}
	return club, nil
}

// UpdateSiteRole changes a user's site role. Only SUPER_ADMIN holds
// users:manage_roles.
func (s *ClubService) UpdateSiteRole(ctx context.Context, actorID, targetID string, role constants.SiteRole) (*models.User, error) {
	var user *models.User

	err := s.command(ctx, "UpdateSiteRole", actorID, func(tx *repositories.Store) error {
		_, actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if !permissions.CanActSite(actor, constants.PermUsersManageRoles) {
			return common.Forbidden(constants.MsgPermissionDenied)
		}
		if !role.IsValid() {
			return common.BadRequest(constants.MsgInvalidRole)
		}
		if err := tx.Users.UpdateSiteRole(ctx, targetID, role); err != nil {
			return notFoundAs(err, constants.MsgUserNotFound)
		}
		user, err = tx.Users.GetByID(ctx, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CanActSite answers a permission query for the actor.
func (s *ClubService) CanActSite(ctx context.Context, actorID string, perm constants.Permission) (bool, error) {
	_, actor, err := loadActor(ctx, s.store, actorID)
	if errors.Is(err, common.ErrForbidden) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return permissions.CanActSite(actor, perm), nil
}

// CanActClub answers a permission query for the actor in one club.
func (s *ClubService) CanActClub(ctx context.Context, actorID, clubID string, perm constants.Permission) (bool, error) {
	actor, club, err := s.actorAndClub(ctx, actorID, clubID)
	if err != nil || club == nil {
		return false, err
	}
	return permissions.CanActClub(actor, clubRef(club), perm), nil
}

// CanAccessClub reports whether the actor may see the club.
func (s *ClubService) CanAccessClub(ctx context.Context, actorID, clubID string) (bool, error) {
	actor, club, err := s.actorAndClub(ctx, actorID, clubID)
	if err != nil || club == nil {
		return false, err
	}
	return permissions.CanAccessClub(actor, clubRef(club)), nil
}

// actorAndClub resolves both sides of a query. An unknown actor yields a
// nil club and no error: they simply hold no permissions.
func (s *ClubService) actorAndClub(ctx context.Context, actorID, clubID string) (permissions.Actor, *models.Club, error) {
	club, err := loadClub(ctx, s.store, clubID)
	if err != nil {
		return permissions.Actor{}, nil, err
	}
	_, actor, err := loadActor(ctx, s.store, actorID)
	if errors.Is(err, common.ErrForbidden) {
		return permissions.Actor{}, nil, nil
	}
	if err != nil {
		return permissions.Actor{}, nil, err
	}
	return actor, club, nil
}
