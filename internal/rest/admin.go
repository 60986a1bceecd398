package rest

import (
	"context"
	"net/http"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/business/review"
	"verifiedMarket/business/seller"
	"verifiedMarket/domain"
	"verifiedMarket/internal/middleware"
	"verifiedMarket/pkg/utils"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AdminService interface {
	Login(ctx context.Context, username, password string) (domain.AdminSummary, string, error)
}

// AdminSellerService is the part of the seller service the admin console
// drives.
type AdminSellerService interface {
	ListAll(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error)
	VerifySeller(ctx context.Context, actor access.Actor, sellerID uint, rawAction string) (domain.SellerProfile, seller.VerificationAction, error)
}

type ReviewReplier interface {
	ReplyToReview(ctx context.Context, actor access.Actor, reviewID uint, reply string) (domain.Review, error)
}

type AdminHandler struct {
	adminService  AdminService
	sellerService AdminSellerService
	reviewService ReviewReplier
	validator     *validator.Validate
	timeout       time.Duration
}

func NewAdminHandler(adminService AdminService, sellerService AdminSellerService, reviewService ReviewReplier) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		sellerService: sellerService,
		reviewService: reviewService,
		validator:     utils.NewValidator(),
		timeout:       defaultTimeout,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type VerifySellerRequest struct {
	Action string `json:"action" form:"action"`
}

type ReplyReviewRequest struct {
	AdminReply string `json:"admin_reply" form:"admin_reply"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ValidationError(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	admin, token, err := h.adminService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return asBadRequest(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"admin": admin,
		"token": token,
	})
}

func (h *AdminHandler) ListSellers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sellers, err := h.sellerService.ListAll(ctx, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.SellerResponses(sellers))
}

func (h *AdminHandler) VerifySeller(c echo.Context) error {
	id, err := pathID(c, "pk", seller.MsgSellerNotFound)
	if err != nil {
		return err
	}

	var req VerifySellerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	_, action, err := h.sellerService.VerifySeller(ctx, middleware.ActorFrom(c), id, req.Action)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"detail": "Seller " + action.PastTense() + ".",
	})
}

func (h *AdminHandler) ReplyReview(c echo.Context) error {
	id, err := pathID(c, "pk", review.MsgReviewNotFound)
	if err != nil {
		return err
	}

	var req ReplyReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.reviewService.ReplyToReview(ctx, middleware.ActorFrom(c), id, req.AdminReply)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}
