package postgres

import (
	"context"

	"verifiedMarket/domain"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{
		DB: db,
	}
}

// Create inserts the profile. admin.User is inserted first when it has no
// id yet.
func (r *AdminRepository) Create(ctx context.Context, admin *domain.AdminProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if admin.UserID == 0 {
			if err := tx.Create(&admin.User).Error; err != nil {
				return translate(err, "admin not found")
			}
			admin.UserID = admin.User.ID
		}

		return translate(tx.Omit("User").Create(admin).Error, "admin not found")
	})
}

func (r *AdminRepository) FindByUserID(ctx context.Context, userID uint) (domain.AdminProfile, error) {
	var admin domain.AdminProfile

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return domain.AdminProfile{}, translate(err, "admin not found")
	}

	return admin, nil
}
