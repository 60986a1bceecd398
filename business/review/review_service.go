package review

import (
	"context"
	"strings"

	"verifiedMarket/business/access"
	"verifiedMarket/domain"
	"verifiedMarket/pkg/apperror"
	"verifiedMarket/pkg/logger"
	"verifiedMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ReviewRepository contract interface
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id uint) (domain.Review, error)
	FindBySellerID(ctx context.Context, sellerID uint) ([]domain.Review, error)
	UpdateAdminReply(ctx context.Context, id uint, reply string) error
}

type SellerRepository interface {
	FindByID(ctx context.Context, id uint) (domain.SellerProfile, error)
}

type BuyerRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.BuyerProfile, error)
}

const (
	MsgSellerNotFound = "Seller not found"
	MsgReviewNotFound = "Review not found"
)

type CreateInput struct {
	// Rating defaults to domain.DefaultReviewRating when nil.
	Rating     *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"required"`
	BuyerName  string `json:"buyer_name" validate:"omitempty,max=255"`
	BuyerEmail string `json:"buyer_email" validate:"omitempty,email,max=254"`
}

type reviewService struct {
	reviewRepo ReviewRepository
	sellerRepo SellerRepository
	buyerRepo  BuyerRepository
	validate   *validator.Validate
}

func NewReviewService(reviewRepo ReviewRepository, sellerRepo SellerRepository, buyerRepo BuyerRepository, validate *validator.Validate) *reviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		sellerRepo: sellerRepo,
		buyerRepo:  buyerRepo,
		validate:   validate,
	}
}

// CreateReview records a review for any existing seller, verified or not.
// A logged-in buyer is linked and their profile snapshotted; everyone else
// has to leave an e-mail address.
func (s *reviewService) CreateReview(ctx context.Context, actor access.Actor, sellerID uint, input CreateInput) (domain.Review, error) {
	if err := access.Authorize(actor, access.ActionCreateReview, access.StateUnknown).Err(); err != nil {
		return domain.Review{}, err
	}

	input.Comment = strings.TrimSpace(input.Comment)
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	input.BuyerEmail = strings.TrimSpace(input.BuyerEmail)

	if err := s.validate.Struct(input); err != nil {
		return domain.Review{}, utils.ValidationError(err)
	}
	if input.Rating != nil && (*input.Rating < domain.MinReviewRating || *input.Rating > domain.MaxReviewRating) {
		return domain.Review{}, apperror.ValidationField("rating", "Rating must be between 1 and 5.")
	}

	if _, err := s.sellerRepo.FindByID(ctx, sellerID); err != nil {
		if apperror.IsNotFound(err) {
			return domain.Review{}, apperror.NotFound(MsgSellerNotFound)
		}
		logger.Error("Failed to find seller", "seller_id", sellerID, "error", err)
		return domain.Review{}, errors.Wrap(err, "find seller")
	}

	review := domain.Review{
		SellerID:   sellerID,
		Rating:     domain.DefaultReviewRating,
		Comment:    input.Comment,
		BuyerName:  optional(input.BuyerName),
		BuyerEmail: optional(input.BuyerEmail),
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}

	if actor.Authenticated() && actor.Role == access.RoleBuyer {
		buyer, err := s.buyerRepo.FindByUserID(ctx, actor.UserID)
		switch {
		case err == nil:
			review.BuyerID = &buyer.ID
			email := buyer.Email
			name := buyer.DisplayName()
			review.BuyerEmail = &email
			review.BuyerName = &name
		case !apperror.IsNotFound(err):
			logger.Error("Failed to find buyer", "user_id", actor.UserID, "error", err)
			return domain.Review{}, errors.Wrap(err, "find buyer")
		}
	}

	if review.BuyerEmail == nil {
		return domain.Review{}, apperror.ValidationField("buyer_email", "This field is required.")
	}

	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		logger.Error("Failed to create review", "seller_id", sellerID, "error", err)
		return domain.Review{}, errors.Wrap(err, "create review")
	}

	logger.Info("review created", "review_id", review.ID, "seller_id", sellerID, "rating", review.Rating)

	return review, nil
}

func (s *reviewService) ListSellerReviews(ctx context.Context, sellerID uint) ([]domain.Review, error) {
	if _, err := s.sellerRepo.FindByID(ctx, sellerID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound(MsgSellerNotFound)
		}
		logger.Error("Failed to find seller", "seller_id", sellerID, "error", err)
		return nil, errors.Wrap(err, "find seller")
	}

	reviews, err := s.reviewRepo.FindBySellerID(ctx, sellerID)
	if err != nil {
		logger.Error("Failed to list reviews", "seller_id", sellerID, "error", err)
		return nil, errors.Wrap(err, "list reviews")
	}

	return reviews, nil
}

func (s *reviewService) ReplyToReview(ctx context.Context, actor access.Actor, reviewID uint, reply string) (domain.Review, error) {
	if err := access.Authorize(actor, access.ActionReplyReview, access.StateUnknown).Err(); err != nil {
		return domain.Review{}, err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return domain.Review{}, apperror.ValidationField("admin_reply", "This field is required.")
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.Review{}, apperror.NotFound(MsgReviewNotFound)
		}
		logger.Error("Failed to find review", "review_id", reviewID, "error", err)
		return domain.Review{}, errors.Wrap(err, "find review")
	}

	if err := s.reviewRepo.UpdateAdminReply(ctx, review.ID, reply); err != nil {
		logger.Error("Failed to save admin reply", "review_id", review.ID, "error", err)
		return domain.Review{}, errors.Wrap(err, "update review")
	}

	review.AdminReply = &reply

	return review, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
