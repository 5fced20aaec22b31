package services

import (
	"testing"

	"carclub/paddock/internal/common"
	"carclub/paddock/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClub_CreatorBecomesAdmin(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice", constants.SiteRoleUser)

	club, err := f.clubs.CreateClub(f.ctx, alice, "  Porsche Owners  ", true)
	require.NoError(t, err)
	assert.Equal(t, "Porsche Owners", club.Name)
	assert.Equal(t, alice, club.CreatorID)

	m, err := f.store.Memberships.GetByUserAndClub(f.ctx, alice, club.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ClubRoleAdmin, m.Role)
}

func TestCreateClub_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice", constants.SiteRoleUser)

	_, err := f.clubs.CreateClub(f.ctx, alice, "   ", false)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = f.clubs.CreateClub(f.ctx, "no-such-user", "Ghosts", false)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdateClub(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	mod := f.user("mod", constants.SiteRoleUser)
	club := f.club(owner, false)
	f.member(club, mod, constants.ClubRoleModerator)

	name := "Renamed"
	_, err := f.clubs.UpdateClub(f.ctx, mod, club, &name, nil)
	assert.ErrorIs(t, err, common.ErrForbidden, "moderators lack club:update")

	blank := "  "
	_, err = f.clubs.UpdateClub(f.ctx, owner, club, &blank, nil)
	assert.ErrorIs(t, err, common.ErrBadRequest)

	private := true
	updated, err := f.clubs.UpdateClub(f.ctx, owner, club, nil, &private)
	require.NoError(t, err)
	assert.True(t, updated.IsPrivate)

	got, err := f.store.Clubs.GetByID(f.ctx, club)
	require.NoError(t, err)
	assert.True(t, got.IsPrivate)
	assert.NotEqual(t, name, got.Name, "name untouched when omitted")

	_, err = f.clubs.UpdateClub(f.ctx, owner, "missing", &name, nil)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateSiteRole(t *testing.T) {
	f := newFixture(t)
	root := f.user("root", constants.SiteRoleSuperAdmin)
	admin := f.user("admin", constants.SiteRoleAdmin)
	bob := f.user("bob", constants.SiteRoleUser)

	t.Run("site admin cannot manage roles", func(t *testing.T) {
		_, err := f.clubs.UpdateSiteRole(f.ctx, admin, bob, constants.SiteRoleAdmin)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("super admin promotes", func(t *testing.T) {
		u, err := f.clubs.UpdateSiteRole(f.ctx, root, bob, constants.SiteRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, constants.SiteRoleAdmin, u.SiteRole)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.clubs.UpdateSiteRole(f.ctx, root, bob, "OVERLORD")
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.clubs.UpdateSiteRole(f.ctx, root, "00000000-0000-0000-0000-000000000000", constants.SiteRoleUser)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestAccessQueries(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner", constants.SiteRoleUser)
	outsider := f.user("outsider", constants.SiteRoleUser)
	admin := f.user("admin", constants.SiteRoleAdmin)
	private := f.club(owner, true)
	public := f.club(owner, false)

	ok, err := f.clubs.CanAccessClub(f.ctx, outsider, private)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.clubs.CanAccessClub(f.ctx, outsider, public)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.clubs.CanAccessClub(f.ctx, admin, private)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.clubs.CanActClub(f.ctx, owner, private, constants.PermMembersBan)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.clubs.CanActClub(f.ctx, "unknown-actor", private, constants.PermEventsEnter)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.clubs.CanActClub(f.ctx, owner, "missing-club", constants.PermEventsEnter)
	assert.ErrorIs(t, err, common.ErrNotFound)

	ok, err = f.clubs.CanActSite(f.ctx, admin, constants.PermClubsModerate)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.clubs.GetClub(f.ctx, outsider, private)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
