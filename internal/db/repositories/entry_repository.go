package repositories

import (
	"context"
	"fmt"

	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
)

type EventEntryRepository struct {
	db *gorm.DB
}

func NewEventEntryRepository(db *gorm.DB) *EventEntryRepository {
	return &EventEntryRepository{db: db}
}

// Exists reports whether the user already entered the event
func (r *EventEntryRepository) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.EventEntry{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check event entry: %w", err)
	}
	return n > 0, nil
}

// CountByEvent counts the entries of an event
func (r *EventEntryRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.EventEntry{}).
		Where("event_id = ?", eventID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count event entries: %w", err)
	}
	return n, nil
}

// Create inserts an entry; a second entry for the pair yields ErrDuplicate
func (r *EventEntryRepository) Create(ctx context.Context, e *models.EventEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error, "failed to create event entry")
}

type ChallengeEntryRepository struct {
	db *gorm.DB
}

func NewChallengeEntryRepository(db *gorm.DB) *ChallengeEntryRepository {
	return &ChallengeEntryRepository{db: db}
}

func (r *ChallengeEntryRepository) Exists(ctx context.Context, userID, challengeID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ChallengeEntry{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check challenge entry: %w", err)
	}
	return n > 0, nil
}

// CountParticipants counts how many of userIDs hold an entry in the challenge
func (r *ChallengeEntryRepository) CountParticipants(ctx context.Context, challengeID string, userIDs []string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ChallengeEntry{}).
		Where("challenge_id = ? AND user_id IN ?", challengeID, userIDs).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count challenge participants: %w", err)
	}
	return n, nil
}

func (r *ChallengeEntryRepository) Create(ctx context.Context, e *models.ChallengeEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error, "failed to create challenge entry")
}
