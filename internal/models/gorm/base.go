package gorm

import "github.com/google/uuid"

// assignID fills an empty primary key so rows get the same UUIDs on
// Postgres and SQLite.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels lists every table AutoMigrate manages, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Club{},
		&Membership{},
		&JoinRequest{},
		&Ban{},
		&Event{},
		&Challenge{},
		&EventEntry{},
		&ChallengeEntry{},
	}
}
