package rest

import (
	"context"
	"net/http"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/business/review"
	"verifiedMarket/domain"
	"verifiedMarket/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor access.Actor, sellerID uint, input review.CreateInput) (domain.Review, error)
	ListSellerReviews(ctx context.Context, sellerID uint) ([]domain.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		timeout:       defaultTimeout,
	}
}

type CreateReviewRequest struct {
	Rating     *int   `json:"rating" form:"rating"`
	Comment    string `json:"comment" form:"comment"`
	BuyerName  string `json:"buyer_name" form:"buyer_name"`
	BuyerEmail string `json:"buyer_email" form:"buyer_email"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := pathID(c, "id", review.MsgSellerNotFound)
	if err != nil {
		return err
	}

	var req CreateReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.reviewService.CreateReview(ctx, middleware.ActorFrom(c), id, review.CreateInput{
		Rating:     req.Rating,
		Comment:    req.Comment,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *ReviewHandler) List(c echo.Context) error {
	id, err := pathID(c, "id", review.MsgSellerNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reviews, err := h.reviewService.ListSellerReviews(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reviews))
}
