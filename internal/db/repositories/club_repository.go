package repositories

import (
	"context"

	models "carclub/paddock/internal/models/gorm"

	"gorm.io/gorm"
)

type ClubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	var club models.Club

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&club).Error
	if err != nil {
		return nil, translate(err, "failed to fetch club")
	}

	return &club, nil
}

// Update writes the club's name and privacy flag.
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	err := r.db.WithContext(ctx).
		Model(club).
		Select("name", "is_private").
		Updates(club).Error
	return translate(err, "failed to update club")
}

func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	return translate(r.db.WithContext(ctx).Create(club).Error, "failed to create club")
}
