package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/business/seller"
	"verifiedMarket/domain"
	"verifiedMarket/internal/middleware"
	"verifiedMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SellerService interface {
	Register(ctx context.Context, input seller.RegisterInput) (domain.SellerProfile, error)
	Login(ctx context.Context, email, password string) (domain.SellerProfile, string, error)
	ListPending(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error)
	ListVerified(ctx context.Context) ([]domain.SellerProfile, error)
	ListUnnotified(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error)
	LookupByBusinessName(ctx context.Context, name string) (domain.SellerProfile, error)
	Approve(ctx context.Context, actor access.Actor, sellerID uint) (domain.SellerProfile, error)
}

type SellerHandler struct {
	sellerService SellerService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewSellerHandler(sellerService SellerService) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
		validator:     utils.NewValidator(),
		timeout:       defaultTimeout,
	}
}

type SellerRegisterRequest struct {
	BusinessName    string `json:"business_name" form:"business_name"`
	OwnerName       string `json:"owner_name" form:"owner_name"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	BusinessID      string `json:"business_id" form:"business_id"`
	Address         string `json:"address" form:"address"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *SellerHandler) Register(c echo.Context) error {
	var req SellerRegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.sellerService.Register(ctx, seller.RegisterInput{
		BusinessName:    req.BusinessName,
		OwnerName:       req.OwnerName,
		PhoneNumber:     req.PhoneNumber,
		BusinessID:      req.BusinessID,
		Address:         req.Address,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Seller registered successfully.",
		"seller":  profile.Response(),
	})
}

func (h *SellerHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ValidationError(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, token, err := h.sellerService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return asBadRequest(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful.",
		"seller":  profile.Response(),
		"token":   token,
	})
}

func (h *SellerHandler) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sellers, err := h.sellerService.ListPending(ctx, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.SellerResponses(sellers))
}

// ListVerified serves both /sellers/verified/ and /sellers/verified/public/.
func (h *SellerHandler) ListVerified(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sellers, err := h.sellerService.ListVerified(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.PublicSellerResponses(sellers))
}

func (h *SellerHandler) ListNotifications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sellers, err := h.sellerService.ListUnnotified(ctx, middleware.ActorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.SellerResponses(sellers))
}

func (h *SellerHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id", seller.MsgSellerNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.sellerService.Approve(ctx, middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Seller '%s' approved successfully.", profile.BusinessName),
		"seller":  profile.Response(),
	})
}

func (h *SellerHandler) LookupByBusinessName(c echo.Context) error {
	// echo leaves the parameter escaped when the request carried a raw path
	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.sellerService.LookupByBusinessName(ctx, name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile.Response())
}
