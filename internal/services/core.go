package services

import (
	"context"
	"errors"
	"time"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/permissions"
	"carclub/paddock/internal/workers"

	"github.com/shopspring/decimal"
)

// Recorder receives command and settlement metrics.
// *metrics.MetricsRegistry satisfies it.
type Recorder interface {
	ObserveCommand(operation, outcome string, d time.Duration)
	RecordSettlement(pool decimal.Decimal)
	RecordCacheLookup(cache string, hit bool)
}

// PayoutPublisher hands settled payouts to the delivery pipeline. It must
// not block the caller; *workers.PayoutWorker satisfies it.
type PayoutPublisher interface {
	PublishPayouts(ctx context.Context, items []workers.PayoutInstruction)
}

// Deps is what every service is built from. Only Store is required.
type Deps struct {
	Store    *repositories.Store
	Reports  *repositories.FeeReportRepository
	BanCache *BanCache
	Payouts  PayoutPublisher
	Recorder Recorder
	Now      func() time.Time
}

type nopRecorder struct{}

func (nopRecorder) ObserveCommand(string, string, time.Duration) {}
func (nopRecorder) RecordSettlement(decimal.Decimal)             {}
func (nopRecorder) RecordCacheLookup(string, bool)               {}

type core struct {
	store    *repositories.Store
	reports  *repositories.FeeReportRepository
	bans     *BanCache
	payouts  PayoutPublisher
	recorder Recorder
	now      func() time.Time
}

func newCore(d Deps) core {
	c := core{
		store:    d.Store,
		reports:  d.Reports,
		bans:     d.BanCache,
		payouts:  d.Payouts,
		recorder: d.Recorder,
		now:      d.Now,
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.bans == nil {
		c.bans = NewBanCache(common.NewCacheService(0, 0), 0, c.recorder)
	}
	return c
}

// command runs fn in one transaction and records the outcome. Typed errors
// pass through untouched; anything else surfaces as an internal failure.
func (c *core) command(ctx context.Context, op, actorID string, fn func(tx *repositories.Store) error) error {
	start := time.Now()
	err := c.store.RunInTx(ctx, fn)
	c.observe(op, actorID, start, err)
	return err
}

func (c *core) observe(op, actorID string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(common.KindOf(err))
	}
	c.recorder.ObserveCommand(op, outcome, time.Since(start))

	log := logging.WithOperation(op, actorID)
	switch {
	case err == nil:
		log.Debugw("command completed", "duration", time.Since(start))
	case common.KindOf(err) == common.KindInternal:
		log.Errorw("command failed", "error", err)
	default:
		log.Infow("command rejected", "kind", outcome, "reason", err.Error())
	}
}

// loadActor reads the acting user with their memberships. An unknown
// actor is refused rather than reported missing.
func loadActor(ctx context.Context, tx *repositories.Store, actorID string) (*models.User, permissions.Actor, error) {
	user, err := tx.Users.GetByID(ctx, actorID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, permissions.Actor{}, common.Forbidden(constants.MsgPermissionDenied)
	}
	if err != nil {
		return nil, permissions.Actor{}, err
	}
	return user, toActor(user), nil
}

func toActor(u *models.User) permissions.Actor {
	actor := permissions.Actor{
		ID:          u.ID,
		SiteRole:    u.SiteRole,
		Memberships: make(map[string]constants.ClubRole, len(u.Memberships)),
	}
	for _, m := range u.Memberships {
		actor.Memberships[m.ClubID] = m.Role
	}
	return actor
}

func loadClub(ctx context.Context, tx *repositories.Store, clubID string) (*models.Club, error) {
	club, err := tx.Clubs.GetByID(ctx, clubID)
	return club, notFoundAs(err, constants.MsgClubNotFound)
}

func clubRef(c *models.Club) permissions.Club {
	return permissions.Club{ID: c.ID, IsPrivate: c.IsPrivate, CreatorID: c.CreatorID}
}

// requireClub fails with Forbidden unless actor holds perm in club.
func requireClub(actor permissions.Actor, club *models.Club, perm constants.Permission) error {
	if !permissions.CanActClub(actor, clubRef(club), perm) {
		return common.Forbidden(constants.MsgPermissionDenied)
	}
	return nil
}

// requireOutranks stops a club officer acting on a member of equal or
// higher role. Club admins may act on each other; only the creator is
// protected from them. Site admins are exempt.
func requireOutranks(actor permissions.Actor, clubID string, target *models.Membership) error {
	if target == nil || actor.SiteRole.IsSiteAdmin() {
		return nil
	}
	own, _ := actor.MembershipRole(clubID)
	if own == constants.ClubRoleAdmin {
		return nil
	}
	if target.Role.Rank() >= own.Rank() {
		return common.Forbidden(constants.MsgTargetOutranks)
	}
	return nil
}

func notFoundAs(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NotFound(msg)
	}
	return err
}

func conflictAs(err error, msg string) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return common.Conflict(msg)
	}
	return err
}

// optional returns the row or nil when it does not exist.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
