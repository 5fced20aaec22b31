package constants

import (
	"database/sql/driver"
	"fmt"
)

// SiteRole is the actor-level role scoped to the whole system.
type SiteRole string

const (
	SiteRoleSuperAdmin SiteRole = "SUPER_ADMIN"
	SiteRoleAdmin      SiteRole = "ADMIN"
	SiteRoleUser       SiteRole = "USER"
)

func (r SiteRole) String() string { return string(r) }

// IsValid reports whether r is one of the known site roles.
func (r SiteRole) IsValid() bool {
	switch r {
	case SiteRoleSuperAdmin, SiteRoleAdmin, SiteRoleUser:
		return true
	default:
		return false
	}
}

// IsSiteAdmin is true for SUPER_ADMIN and ADMIN.
func (r SiteRole) IsSiteAdmin() bool {
	return r == SiteRoleSuperAdmin || r == SiteRoleAdmin
}

func (r *SiteRole) Scan(src interface{}) error {
	s, err := scanString("SiteRole", src)
	if err != nil {
		return err
	}
	*r = SiteRole(s)
	return nil
}

func (r SiteRole) Value() (driver.Value, error) { return string(r), nil }

// ClubRole is the role an actor holds inside one club.
type ClubRole string

const (
	ClubRoleAdmin     ClubRole = "ADMIN"
	ClubRoleModerator ClubRole = "MODERATOR"
	ClubRoleMember    ClubRole = "MEMBER"
)

func (r ClubRole) String() string { return string(r) }

func (r ClubRole) IsValid() bool {
	switch r {
	case ClubRoleAdmin, ClubRoleModerator, ClubRoleMember:
		return true
	default:
		return false
	}
}

// Rank orders club roles; higher outranks lower. Unknown roles rank 0.
func (r ClubRole) Rank() int {
	switch r {
	case ClubRoleAdmin:
		return 3
	case ClubRoleModerator:
		return 2
	case ClubRoleMember:
		return 1
	default:
		return 0
	}
}

func (r *ClubRole) Scan(src interface{}) error {
	s, err := scanString("ClubRole", src)
	if err != nil {
		return err
	}
	*r = ClubRole(s)
	return nil
}

func (r ClubRole) Value() (driver.Value, error) { return string(r), nil }

/* ---------- DB adapters shared by the string enums ---------- */

func scanString(typeName string, src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: cannot scan type %T", typeName, src)
	}
}
