package postgres

import (
	"context"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := r.DB.WithContext(ctx).Omit("Seller", "Buyer").Create(review).Error; err != nil {
		return errors.Wrap(err, "failed to create review")
	}

	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (domain.Review, error) {
	var review domain.Review

	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return domain.Review{}, translate(err, "review not found")
	}

	return review, nil
}

func (r *ReviewRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Review, error) {
	var reviews []domain.Review

	err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reviews")
	}

	return reviews, nil
}

func (r *ReviewRepository) UpdateAdminReply(ctx context.Context, id uint, reply string) error {
	res := r.DB.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Update("admin_reply", reply)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to update review")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "review not found")
	}

	return nil
}
