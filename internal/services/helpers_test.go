package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/db/testutil"
	"carclub/paddock/internal/logging"
	models "carclub/paddock/internal/models/gorm"
	"carclub/paddock/internal/workers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

// capturePublisher records published payouts instead of queueing them.
type capturePublisher struct {
	mu    sync.Mutex
	items []workers.PayoutInstruction
}

func (p *capturePublisher) PublishPayouts(_ context.Context, items []workers.PayoutInstruction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, items...)
}

func (p *capturePublisher) published() []workers.PayoutInstruction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]workers.PayoutInstruction(nil), p.items...)
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *repositories.Store
	clock   time.Time
	payouts *capturePublisher

	clubs   *ClubService
	members *MembershipService
	ledger  *LedgerService
	settle  *SettlementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := testutil.OpenSQLite(t)
	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   repositories.NewStore(gdb),
		clock:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		payouts: &capturePublisher{},
	}

	deps := Deps{
		Store:   f.store,
		Reports: repositories.NewFeeReportRepository(testutil.SQLX(t, gdb)),
		Payouts: f.payouts,
		Now:     func() time.Time { return f.clock },
	}
	f.clubs = NewClubService(deps)
	f.members = NewMembershipService(deps)
	f.ledger = NewLedgerService(deps)
	f.settle = NewSettlementService(deps)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) user(name string, role constants.SiteRole) string {
	f.t.Helper()
	u := &models.User{ExternalID: "ext-" + name, DisplayName: name, SiteRole: role}
	require.NoError(f.t, f.store.Users.Create(f.ctx, u))
	return u.ID
}

// club creates a club through the service so the creator gets ADMIN.
func (f *fixture) club(creatorID string, private bool) string {
	f.t.Helper()
	c, err := f.clubs.CreateClub(f.ctx, creatorID, "Club "+creatorID[:8], private)
	require.NoError(f.t, err)
	return c.ID
}

func (f *fixture) member(clubID, userID string, role constants.ClubRole) {
	f.t.Helper()
	require.NoError(f.t, f.store.Memberships.Create(f.ctx, &models.Membership{
		UserID: userID, ClubID: clubID, Role: role, JoinedAt: f.clock,
	}))
}

type eventOpts struct {
	fee    string
	public bool
	status constants.EventStatus
	max    *int
}

func (f *fixture) event(clubID, creatorID string, o eventOpts) string {
	f.t.Helper()
	ev := &models.Event{
		ClubID:       clubID,
		Title:        "Track day",
		MaxAttendees: o.max,
		IsPublic:     o.public,
		Status:       o.status,
		CreatedBy:    creatorID,
	}
	if ev.Status == "" {
		ev.Status = constants.EventPublished
	}
	if o.fee != "" {
		ev.EntryFeeUSD = decimal.NewNullDecimal(decimal.RequireFromString(o.fee))
	}
	require.NoError(f.t, f.store.Events.Create(f.ctx, ev))
	return ev.ID
}

func (f *fixture) challenge(eventID string, pct int, status constants.ChallengeStatus) string {
	f.t.Helper()
	ch := &models.Challenge{
		EventID:                     eventID,
		Title:                       "Fastest lap",
		BonusPoolPercentOfEventFees: pct,
		Status:                      status,
	}
	require.NoError(f.t, f.store.Challenges.Create(f.ctx, ch))
	return ch.ID
}

func (f *fixture) enterEvent(userID, eventID string) {
	f.t.Helper()
	require.NoError(f.t, f.store.EventEntries.Create(f.ctx, &models.EventEntry{UserID: userID, EventID: eventID}))
}

func (f *fixture) enterChallenge(userID, challengeID string) {
	f.t.Helper()
	require.NoError(f.t, f.store.ChallengeEntries.Create(f.ctx, &models.ChallengeEntry{UserID: userID, ChallengeID: challengeID}))
}

func intPtr(n int) *int { return &n }

func usd(s string) decimal.Decimal { return decimal.RequireFromString(s) }
