package postgres

import (
	"context"

	"verifiedMarket/domain"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "context error")
	}

	if err := r.DB.WithContext(ctx).Omit("Seller").Create(product).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}

	return nil
}

func (r *ProductRepository) FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	var products []domain.Product

	err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products")
	}

	return products, nil
}
