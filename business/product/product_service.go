package product

import (
	"context"
	"io"
	"strings"

	"verifiedMarket/business/access"
	"verifiedMarket/domain"
	"verifiedMarket/pkg/apperror"
	"verifiedMarket/pkg/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Product, error)
}

// SellerRepository resolves the seller behind an actor or a path id.
type SellerRepository interface {
	FindByID(ctx context.Context, id uint) (domain.SellerProfile, error)
	FindByUserID(ctx context.Context, userID uint) (domain.SellerProfile, error)
}

// ImageStore persists uploaded product images and returns their key.
type ImageStore interface {
	Save(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
}

const (
	imageFolder = "products"

	maxPriceIntegerDigits = 8
	maxPriceDecimalPlaces = 2

	MsgSellerNotFound = "Seller not found"
)

// ImageUpload is a file sent along with the product.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type UploadInput struct {
	Name        string
	Price       string
	Description string
	// ImageRef is an image reference supplied as plain text. Ignored when
	// Image is set.
	ImageRef string
	Image    *ImageUpload
}

type productService struct {
	productRepo ProductRepository
	sellerRepo  SellerRepository
	images      ImageStore
}

func NewProductService(productRepo ProductRepository, sellerRepo SellerRepository, images ImageStore) *productService {
	return &productService{
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		images:      images,
	}
}

// UploadProduct lists a product for the acting seller. Authorization is
// decided before the input is looked at.
func (s *productService) UploadProduct(ctx context.Context, actor access.Actor, input UploadInput) (domain.Product, error) {
	seller, state, err := s.resolveSeller(ctx, actor)
	if err != nil {
		ProductUploadsTotal.WithLabelValues("error").Inc()
		return domain.Product{}, err
	}

	if err := access.Authorize(actor, access.ActionUploadProduct, state).Err(); err != nil {
		ProductUploadsTotal.WithLabelValues("denied").Inc()
		logger.Warn("product upload denied", "user_id", actor.UserID, "state", string(state))
		return domain.Product{}, err
	}

	name, price, err := validateUpload(input)
	if err != nil {
		ProductUploadsTotal.WithLabelValues("invalid").Inc()
		return domain.Product{}, err
	}

	image := strings.TrimSpace(input.ImageRef)
	if input.Image != nil {
		image, err = s.images.Save(ctx, imageFolder, input.Image.Filename, input.Image.ContentType, input.Image.Content)
		if err != nil {
			ProductUploadsTotal.WithLabelValues("error").Inc()
			logger.Error("Failed to store product image", "seller_id", seller.ID, "error", err)
			return domain.Product{}, errors.Wrap(err, "store image")
		}
	}

	product := domain.Product{
		SellerID:    seller.ID,
		Name:        name,
		Price:       price,
		Description: input.Description,
		Image:       image,
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		ProductUploadsTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to create product", "seller_id", seller.ID, "error", err)
		return domain.Product{}, errors.Wrap(err, "create product")
	}

	ProductUploadsTotal.WithLabelValues("created").Inc()
	logger.Info("product uploaded", "product_id", product.ID, "seller_id", seller.ID)

	return product, nil
}

// resolveSeller finds the actor's own seller profile. Actors without one
// get StateUnknown, which the policy denies like a pending seller.
func (s *productService) resolveSeller(ctx context.Context, actor access.Actor) (domain.SellerProfile, access.VerificationState, error) {
	if !actor.Authenticated() || actor.Role != access.RoleSeller {
		return domain.SellerProfile{}, access.StateUnknown, nil
	}

	seller, err := s.sellerRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.SellerProfile{}, access.StateUnknown, nil
		}
		logger.Error("Failed to resolve seller", "user_id", actor.UserID, "error", err)
		return domain.SellerProfile{}, access.StateUnknown, errors.Wrap(err, "find seller")
	}

	return seller, access.StateOf(seller.IsVerified), nil
}

func validateUpload(input UploadInput) (string, decimal.Decimal, error) {
	fields := map[string]string{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		fields["name"] = "This field is required."
	case len(name) > 255:
		fields["name"] = "Ensure this field has no more than 255 characters."
	}

	price, msg := parsePrice(input.Price)
	if msg != "" {
		fields["price"] = msg
	}

	if len(fields) > 0 {
		return "", decimal.Decimal{}, apperror.ValidationFields("Invalid input.", fields)
	}

	return name, price, nil
}

// parsePrice accepts a non-negative decimal that fits numeric(10,2).
func parsePrice(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, "This field is required."
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, "A valid number is required."
	}

	if price.IsNegative() {
		return decimal.Decimal{}, "Ensure this value is greater than or equal to 0."
	}

	if !price.Equal(price.Truncate(maxPriceDecimalPlaces)) {
		return decimal.Decimal{}, "Ensure that there are no more than 2 decimal places."
	}

	if price.Truncate(0).GreaterThanOrEqual(decimal.New(1, maxPriceIntegerDigits)) {
		return decimal.Decimal{}, "Ensure that there are no more than 8 digits before the decimal point."
	}

	return price.Round(maxPriceDecimalPlaces), ""
}

// ListSellerProducts returns the products of an existing seller.
func (s *productService) ListSellerProducts(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	if _, err := s.sellerRepo.FindByID(ctx, sellerID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound(MsgSellerNotFound)
		}
		logger.Error("Failed to find seller", "seller_id", sellerID, "error", err)
		return nil, errors.Wrap(err, "find seller")
	}

	products, err := s.productRepo.FindBySellerID(ctx, sellerID)
	if err != nil {
		logger.Error("Failed to list seller products", "seller_id", sellerID, "error", err)
		return nil, errors.Wrap(err, "list products")
	}

	return products, nil
}
