package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db/testutil"
	models "carclub/paddock/internal/models/gorm"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *FeeReportRepository) {
	t.Helper()
	gdb := testutil.OpenSQLite(t)
	return NewStore(gdb), NewFeeReportRepository(testutil.SQLX(t, gdb))
}

func seedClub(t *testing.T, s *Store) (*models.User, *models.Club) {
	t.Helper()
	ctx := context.Background()

	owner, err := s.Users.EnsureByExternalID(ctx, "owner", "Owner")
	require.NoError(t, err)
	club := &models.Club{Name: "Apex", CreatorID: owner.ID}
	require.NoError(t, s.Clubs.Create(ctx, club))
	return owner, club
}

func TestEnsureByExternalIDIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.Users.EnsureByExternalID(ctx, "discord:1", "Ann")
	require.NoError(t, err)
	second, err := s.Users.EnsureByExternalID(ctx, "discord:1", "Renamed")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann", second.DisplayName, "existing row is left alone")
	assert.Equal(t, constants.SiteRoleUser, second.SiteRole)

	_, err = s.Users.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Users.UpdateSiteRole(ctx, "nope", constants.SiteRoleAdmin), ErrNotFound))
}

func TestBanUpsertReplacesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, club := seedClub(t, s)
	target, err := s.Users.EnsureByExternalID(ctx, "target", "")
	require.NoError(t, err)

	expires := time.Now().Add(24 * time.Hour)
	require.NoError(t, s.Bans.Upsert(ctx, &models.Ban{UserID: target.ID, ClubID: club.ID, IssuedBy: owner.ID, ExpiresAt: &expires}))
	require.NoError(t, s.Bans.Upsert(ctx, &models.Ban{UserID: target.ID, ClubID: club.ID, IssuedBy: owner.ID, IsPermanent: true}))

	ban, err := s.Bans.GetByUserAndClub(ctx, target.ID, club.ID)
	require.NoError(t, err)
	assert.True(t, ban.IsPermanent)
	assert.Nil(t, ban.ExpiresAt)

	removed, err := s.Bans.Delete(ctx, target.ID, club.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.Bans.Delete(ctx, target.ID, club.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestChallengeCompleteIsConditional(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	owner, club := seedClub(t, s)

	ev := &models.Event{ClubID: club.ID, Title: "Track day", Status: constants.EventPublished, CreatedBy: owner.ID}
	require.NoError(t, s.Events.Create(ctx, ev))
	ch := &models.Challenge{EventID: ev.ID, Title: "Lap", Status: constants.ChallengePending, CreatedBy: owner.ID}
	require.NoError(t, s.Challenges.Create(ctx, ch))

	settlement := Settlement{
		Winners:    [3]string{"a", "b", "c"},
		BonusPool:  decimal.NewFromInt(10),
		Payouts:    [3]decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(3), decimal.NewFromInt(2)},
		ReleasedAt: time.Now().UTC(),
	}

	ok, err := s.Challenges.Complete(ctx, ch.ID, settlement)
	require.NoError(t, err)
	assert.False(t, ok, "a PENDING challenge cannot be completed")

	ok, err = s.Challenges.UpdateStatus(ctx, ch.ID, constants.ChallengePending, constants.ChallengeActive)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Challenges.Complete(ctx, ch.ID, settlement)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Challenges.Complete(ctx, ch.ID, settlement)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Challenges.GetByID(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ChallengeCompleted, got.Status)
	require.NotNil(t, got.FirstPlaceUserID)
	assert.Equal(t, "a", *got.FirstPlaceUserID)
	assert.True(t, got.BonusPoolUSD.Decimal.Equal(decimal.NewFromInt(10)))
}

func TestRunInTxRollsBack(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(tx *Store) error {
		if _, err := tx.Users.EnsureByExternalID(ctx, "ghost", ""); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users.GetByExternalID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClubFeeRows(t *testing.T) {
	s, reports := newTestStore(t)
	ctx := context.Background()
	owner, club := seedClub(t, s)

	paid := &models.Event{
		ClubID:      club.ID,
		Title:       "A paid",
		EntryFeeUSD: decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
		Status:      constants.EventPublished,
		CreatedBy:   owner.ID,
	}
	free := &models.Event{ClubID: club.ID, Title: "B free", Status: constants.EventDraft, CreatedBy: owner.ID}
	require.NoError(t, s.Events.Create(ctx, paid))
	require.NoError(t, s.Events.Create(ctx, free))

	for _, ext := range []string{"u1", "u2"} {
		u, err := s.Users.EnsureByExternalID(ctx, ext, "")
		require.NoError(t, err)
		require.NoError(t, s.EventEntries.Create(ctx, &models.EventEntry{UserID: u.ID, EventID: paid.ID}))
	}

	rows, err := reports.ClubFeeRows(ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, paid.ID, rows[0].EventID)
	assert.Equal(t, int64(2), rows[0].EntryCount)
	require.True(t, rows[0].EntryFeeUSD.Valid)
	assert.True(t, rows[0].EntryFeeUSD.Decimal.Equal(decimal.RequireFromString("12.5")))

	assert.Equal(t, free.ID, rows[1].EventID)
	assert.Zero(t, rows[1].EntryCount)
	assert.False(t, rows[1].EntryFeeUSD.Valid)

	require.NoError(t, reports.Ping(ctx))
}
