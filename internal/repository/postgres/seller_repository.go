package postgres

import (
	"context"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const msgSellerNotFound = "seller not found"

type SellerRepository struct {
	DB *gorm.DB
}

func NewSellerRepository(db *gorm.DB) *SellerRepository {
	return &SellerRepository{
		DB: db,
	}
}

// Create inserts seller.User and the profile in one transaction.
func (r *SellerRepository) Create(ctx context.Context, seller *domain.SellerProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&seller.User).Error; err != nil {
			return translate(err, msgSellerNotFound)
		}

		seller.UserID = seller.User.ID
		if err := tx.Omit("User").Create(seller).Error; err != nil {
			return translate(err, msgSellerNotFound)
		}

		return nil
	})
}

func (r *SellerRepository) query(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("User")
}

func (r *SellerRepository) FindByID(ctx context.Context, id uint) (domain.SellerProfile, error) {
	var seller domain.SellerProfile

	if err := r.query(ctx).First(&seller, id).Error; err != nil {
		return domain.SellerProfile{}, translate(err, msgSellerNotFound)
	}

	return seller, nil
}

func (r *SellerRepository) FindByUserID(ctx context.Context, userID uint) (domain.SellerProfile, error) {
	var seller domain.SellerProfile

	if err := r.query(ctx).Where("user_id = ?", userID).First(&seller).Error; err != nil {
		return domain.SellerProfile{}, translate(err, msgSellerNotFound)
	}

	return seller, nil
}

func (r *SellerRepository) FindAll(ctx context.Context) ([]domain.SellerProfile, error) {
	var sellers []domain.SellerProfile

	if err := r.query(ctx).Order("id").Find(&sellers).Error; err != nil {
		return nil, errors.Wrap(err, "find sellers")
	}

	return sellers, nil
}

func (r *SellerRepository) FindByVerified(ctx context.Context, verified bool) ([]domain.SellerProfile, error) {
	var sellers []domain.SellerProfile

	if err := r.query(ctx).Where("is_verified = ?", verified).Order("id").Find(&sellers).Error; err != nil {
		return nil, errors.Wrap(err, "find sellers by verification")
	}

	return sellers, nil
}

func (r *SellerRepository) FindUnnotified(ctx context.Context) ([]domain.SellerProfile, error) {
	var sellers []domain.SellerProfile

	if err := r.query(ctx).Where("notified = ?", false).Order("id").Find(&sellers).Error; err != nil {
		return nil, errors.Wrap(err, "find unnotified sellers")
	}

	return sellers, nil
}

// FindVerifiedByBusinessName matches case-insensitively; with duplicate
// names the lowest id wins.
func (r *SellerRepository) FindVerifiedByBusinessName(ctx context.Context, name string) (domain.SellerProfile, error) {
	var seller domain.SellerProfile

	err := r.query(ctx).
		Where("LOWER(business_name) = LOWER(?) AND is_verified = ?", name, true).
		Order("id").
		First(&seller).Error
	if err != nil {
		return domain.SellerProfile{}, translate(err, msgSellerNotFound)
	}

	return seller, nil
}

func (r *SellerRepository) UpdateVerification(ctx context.Context, id uint, isVerified, notified bool) error {
	res := r.DB.WithContext(ctx).Model(&domain.SellerProfile{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_verified": isVerified, "notified": notified})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update verification")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, msgSellerNotFound)
	}

	return nil
}

func (r *SellerRepository) MarkNotified(ctx context.Context, id uint, isVerified bool) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&domain.SellerProfile{}).
		Where("id = ? AND is_verified = ?", id, isVerified).
		Update("notified", true)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "mark notified")
	}

	return res.RowsAffected > 0, nil
}
