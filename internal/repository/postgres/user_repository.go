package postgres

import (
	"context"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

// IsLoginTaken reports whether login is already somebody's username or
// e-mail.
func (r *UserRepository) IsLoginTaken(ctx context.Context, login string) (bool, error) {
	var count int64

	err := r.DB.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR LOWER(email) = LOWER(?)", login, login).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "count users")
	}

	return count > 0, nil
}

// FindByEmail returns the oldest identity with this e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Order("id").
		First(&user).Error
	if err != nil {
		return domain.User{}, translate(err, "user not found")
	}

	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User

	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return domain.User{}, translate(err, "user not found")
	}

	return user, nil
}
