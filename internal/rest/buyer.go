package rest

import (
	"context"
	"net/http"
	"time"

	"verifiedMarket/business/buyer"
	"verifiedMarket/domain"
	"verifiedMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type BuyerService interface {
	Register(ctx context.Context, input buyer.RegisterInput) (domain.BuyerProfile, error)
	Login(ctx context.Context, email, password string) (domain.BuyerProfile, string, error)
}

type BuyerHandler struct {
	buyerService BuyerService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewBuyerHandler(buyerService BuyerService) *BuyerHandler {
	return &BuyerHandler{
		buyerService: buyerService,
		validator:    utils.NewValidator(),
		timeout:      defaultTimeout,
	}
}

type BuyerRegisterRequest struct {
	FullName        string `json:"full_name" form:"full_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	Address         string `json:"address" form:"address"`
}

func (h *BuyerHandler) Register(c echo.Context) error {
	var req BuyerRegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.buyerService.Register(ctx, buyer.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Buyer registered successfully.",
		"buyer":   profile,
	})
}

func (h *BuyerHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ValidationError(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, token, err := h.buyerService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return asBadRequest(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful.",
		"buyer":   profile,
		"token":   token,
	})
}
