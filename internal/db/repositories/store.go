package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Store bundles the repositories over one *gorm.DB handle. Inside RunInTx
// every repository shares the transaction.
type Store struct {
	db *gorm.DB

	Users            *UserRepository
	Clubs            *ClubRepository
	Memberships      *MembershipRepository
	JoinRequests     *JoinRequestRepository
	Bans             *BanRepository
	Events           *EventRepository
	Challenges       *ChallengeRepository
	EventEntries     *EventEntryRepository
	ChallengeEntries *ChallengeEntryRepository
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:               db,
		Users:            NewUserRepository(db),
		Clubs:            NewClubRepository(db),
		Memberships:      NewMembershipRepository(db),
		JoinRequests:     NewJoinRequestRepository(db),
		Bans:             NewBanRepository(db),
		Events:           NewEventRepository(db),
		Challenges:       NewChallengeRepository(db),
		EventEntries:     NewEventEntryRepository(db),
		ChallengeEntries: NewChallengeEntryRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// RunInTx runs fn inside a single database transaction. Any error returned
// by fn rolls the whole unit back.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate locks the selected rows until the transaction ends. SQLite
// ignores the clause and serializes writers instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps gorm errors onto the package sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
