package postgres

import (
	"context"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type BuyerRepository struct {
	DB *gorm.DB
}

func NewBuyerRepository(db *gorm.DB) *BuyerRepository {
	return &BuyerRepository{
		DB: db,
	}
}

// Create inserts the buyer, and buyer.User first when present.
func (r *BuyerRepository) Create(ctx context.Context, buyer *domain.BuyerProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if buyer.User != nil {
			if err := tx.Create(buyer.User).Error; err != nil {
				return translate(err, "buyer not found")
			}
			buyer.UserID = &buyer.User.ID
		}

		if err := tx.Omit("User").Create(buyer).Error; err != nil {
			return translate(err, "buyer not found")
		}

		return nil
	})
}

func (r *BuyerRepository) FindByUserID(ctx context.Context, userID uint) (domain.BuyerProfile, error) {
	var buyer domain.BuyerProfile

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&buyer).Error; err != nil {
		return domain.BuyerProfile{}, translate(err, "buyer not found")
	}

	return buyer, nil
}

func (r *BuyerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	err := r.DB.WithContext(ctx).Model(&domain.BuyerProfile{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count buyers")
	}

	return count > 0, nil
}
