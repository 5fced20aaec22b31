package services

import (
	"strings"
	"testing"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEventEntry_DuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	bob := f.user("bob", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, bob, constants.ClubRoleMember)
	ev := f.event(club, owner, eventOpts{fee: "100.00"})

	entry, err := f.ledger.RegisterEventEntry(f.ctx, bob, ev)
	require.NoError(t, err)
	require.NotNil(t, entry.PaymentRef)
	assert.True(t, strings.HasPrefix(*entry.PaymentRef, constants.PaymentRefAwaitingCapture))

	_, err = f.ledger.RegisterEventEntry(f.ctx, bob, ev)
	assert.ErrorIs(t, err, common.ErrConflict)

	n, err := f.store.EventEntries.CountByEvent(f.ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRegisterEventEntry_FreeEventHasNoPaymentRef(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	club := f.club(owner, false)
	ev := f.event(club, owner, eventOpts{})

	entry, err := f.ledger.RegisterEventEntry(f.ctx, owner, ev)
	require.NoError(t, err)
	assert.Nil(t, entry.PaymentRef)
}

func TestRegisterEventEntry_Rules(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	outsider := f.user("outsider", constants.SiteRoleUser)
	siteAdmin := f.user("siteadmin", constants.SiteRoleAdmin)
	bob := f.user("bob", constants.SiteRoleUser)
	carol := f.user("carol", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, bob, constants.ClubRoleMember)
	f.member(club, carol, constants.ClubRoleMember)

	t.Run("closed statuses", func(t *testing.T) {
		for _, status := range []constants.EventStatus{constants.EventDraft, constants.EventCancelled, constants.EventCompleted} {
			ev := f.event(club, owner, eventOpts{status: status})
			_, err := f.ledger.RegisterEventEntry(f.ctx, bob, ev)
			assert.ErrorIs(t, err, common.ErrBadRequest, string(status))
		}
	})

	t.Run("ongoing accepts entries", func(t *testing.T) {
		ev := f.event(club, owner, eventOpts{status: constants.EventOngoing})
		_, err := f.ledger.RegisterEventEntry(f.ctx, bob, ev)
		assert.NoError(t, err)
	})

	t.Run("members only", func(t *testing.T) {
		ev := f.event(club, owner, eventOpts{public: false})
		_, err := f.ledger.RegisterEventEntry(f.ctx, outsider, ev)
		assert.ErrorIs(t, err, common.ErrBadRequest)

		_, err = f.ledger.RegisterEventEntry(f.ctx, siteAdmin, ev)
		assert.ErrorIs(t, err, common.ErrBadRequest, "site admins are not exempt")

		// Every club role carries events:enter, officers included.
		_, err = f.ledger.RegisterEventEntry(f.ctx, owner, ev)
		assert.NoError(t, err)
		_, err = f.ledger.RegisterEventEntry(f.ctx, bob, ev)
		assert.NoError(t, err)
	})

	t.Run("public event open to outsiders", func(t *testing.T) {
		ev := f.event(club, owner, eventOpts{public: true})
		_, err := f.ledger.RegisterEventEntry(f.ctx, outsider, ev)
		assert.NoError(t, err)
	})

	t.Run("capacity", func(t *testing.T) {
		ev := f.event(club, owner, eventOpts{max: intPtr(1)})
		_, err := f.ledger.RegisterEventEntry(f.ctx, bob, ev)
		require.NoError(t, err)
		_, err = f.ledger.RegisterEventEntry(f.ctx, carol, ev)
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})

	t.Run("banned", func(t *testing.T) {
		ev := f.event(club, owner, eventOpts{public: true})
		_, err := f.members.Ban(f.ctx, owner, club, carol, BanParams{Permanent: true})
		require.NoError(t, err)
		_, err = f.ledger.RegisterEventEntry(f.ctx, carol, ev)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.ledger.RegisterEventEntry(f.ctx, bob, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestRegisterChallengeEntry(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	bob := f.user("bob", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, bob, constants.ClubRoleMember)
	ev := f.event(club, owner, eventOpts{fee: "20"})
	active := f.challenge(ev, 10, constants.ChallengeActive)
	pending := f.challenge(ev, 10, constants.ChallengePending)

	_, err := f.ledger.RegisterChallengeEntry(f.ctx, bob, active)
	assert.ErrorIs(t, err, common.ErrPreconditionFailed)

	f.enterEvent(bob, ev)

	entry, err := f.ledger.RegisterChallengeEntry(f.ctx, bob, active)
	require.NoError(t, err)
	assert.Nil(t, entry.PaymentRef, "challenge without its own fee")

	_, err = f.ledger.RegisterChallengeEntry(f.ctx, bob, active)
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = f.ledger.RegisterChallengeEntry(f.ctx, bob, pending)
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestAggregateEventFees(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	club := f.club(owner, false)
	paid := f.event(club, owner, eventOpts{fee: "100.00"})
	free := f.event(club, owner, eventOpts{})

	for i := 0; i < 10; i++ {
		u := f.user("driver"+string(rune('a'+i)), constants.SiteRoleUser)
		f.enterEvent(u, paid)
		f.enterEvent(u, free)
	}

	total, err := f.ledger.AggregateEventFees(f.ctx, paid)
	require.NoError(t, err)
	assert.True(t, usd("1000").Equal(total), total.String())

	total, err = f.ledger.AggregateEventFees(f.ctx, free)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = f.ledger.AggregateEventFees(f.ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFeeReport(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	bob := f.user("bob", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, bob, constants.ClubRoleMember)
	a := f.event(club, owner, eventOpts{fee: "12.50"})
	f.event(club, owner, eventOpts{})
	f.enterEvent(owner, a)
	f.enterEvent(bob, a)

	_, err := f.ledger.FeeReport(f.ctx, bob, club)
	assert.ErrorIs(t, err, common.ErrForbidden)

	report, err := f.ledger.FeeReport(f.ctx, owner, club)
	require.NoError(t, err)
	require.Len(t, report.Events, 2)
	assert.True(t, usd("25").Equal(report.TotalUSD), report.TotalUSD.String())

	var paidLine bool
	for _, line := range report.Events {
		if line.EventID == a {
			paidLine = true
			assert.Equal(t, int64(2), line.EntryCount)
			assert.True(t, usd("25").Equal(line.TotalUSD))
		}
	}
	assert.True(t, paidLine)
}

func TestEventLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	bob := f.user("bob", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, bob, constants.ClubRoleMember)

	fee := decimal.RequireFromString("-1")
	_, err := f.ledger.CreateEvent(f.ctx, owner, club, EventParams{Title: "Bad", EntryFeeUSD: &fee})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = f.ledger.CreateEvent(f.ctx, bob, club, EventParams{Title: "Rogue"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	fee = decimal.RequireFromString("35")
	ev, err := f.ledger.CreateEvent(f.ctx, owner, club, EventParams{Title: "Autocross", EntryFeeUSD: &fee, MaxAttendees: intPtr(40)})
	require.NoError(t, err)
	assert.Equal(t, constants.EventDraft, ev.Status)

	ev, err = f.ledger.UpdateEventStatus(f.ctx, owner, ev.ID, constants.EventOngoing)
	require.NoError(t, err, "forward skips are allowed")
	assert.Equal(t, constants.EventOngoing, ev.Status)

	_, err = f.ledger.UpdateEventStatus(f.ctx, owner, ev.ID, constants.EventPublished)
	assert.ErrorIs(t, err, common.ErrInvalidState, "no going back")

	_, err = f.ledger.UpdateEventStatus(f.ctx, bob, ev.ID, constants.EventCompleted)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.ledger.UpdateEventStatus(f.ctx, owner, ev.ID, constants.EventCancelled)
	require.NoError(t, err)

	_, err = f.ledger.UpdateEventStatus(f.ctx, owner, ev.ID, constants.EventCompleted)
	assert.ErrorIs(t, err, common.ErrInvalidState, "cancelled is terminal")

	_, err = f.ledger.CreateChallenge(f.ctx, owner, ev.ID, ChallengeParams{Title: "Late", BonusPoolPercentOfEventFees: 10})
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestChallengeLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	club := f.club(owner, false)
	ev := f.event(club, owner, eventOpts{fee: "10"})

	_, err := f.ledger.CreateChallenge(f.ctx, owner, ev, ChallengeParams{Title: "Greedy", BonusPoolPercentOfEventFees: 101})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	ch, err := f.ledger.CreateChallenge(f.ctx, owner, ev, ChallengeParams{Title: "Slalom", BonusPoolPercentOfEventFees: 25})
	require.NoError(t, err)
	assert.Equal(t, constants.ChallengePending, ch.Status)

	_, err = f.ledger.UpdateChallengeStatus(f.ctx, owner, ch.ID, constants.ChallengeCompleted)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	ch, err = f.ledger.UpdateChallengeStatus(f.ctx, owner, ch.ID, constants.ChallengeActive)
	require.NoError(t, err)
	assert.Equal(t, constants.ChallengeActive, ch.Status)

	_, err = f.ledger.UpdateChallengeStatus(f.ctx, owner, ch.ID, constants.ChallengePending)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}
