package repositories

import (
	"context"
	"fmt"

	"carclub/paddock/internal/constants"
	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// GetByID retrieves and locks an event, with its club preloaded
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var ev models.Event

	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Club").
		Where("id = ?", id).
		First(&ev).Error
	if err != nil {
		return nil, translate(err, "failed to fetch event")
	}

	return &ev, nil
}

func (r *EventRepository) Create(ctx context.Context, ev *models.Event) error {
	return translate(r.db.WithContext(ctx).Create(ev).Error, "failed to create event")
}

// UpdateStatus moves an event from one status to another, returning false
// if the event was no longer in from
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, from, to constants.EventStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update event status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
