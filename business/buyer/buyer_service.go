package buyer

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

// UserRepository contract interface
type UserRepository interface {
	IsLoginTaken(ctx context.Context, login string) (bool, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// BuyerRepository contract interface
type BuyerRepository interface {
	Create(ctx context.Context, buyer *domain.BuyerProfile) error
	FindByUserID(ctx context.Context, userID uint) (domain.BuyerProfile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, userID uint, role access.Role) (string, error)
}

const (
	MsgPasswordMismatch = "Passwords do not match."
	MsgEmailInUse       = "Email already in use."
	MsgNoBuyerForEmail  = "No buyer found with this email."
	MsgInvalidPassword  = "Invalid password."
	MsgNotABuyer        = "This user is not a registered buyer."
)

type RegisterInput struct {
	FullName        string `json:"full_name" validate:"omitempty,max=255"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=32"`
	Address         string `json:"address"`
}

type buyerService struct {
	userRepo  UserRepository
	buyerRepo BuyerRepository
	tokens    TokenIssuer
	validate  *validator.Validate
}

func NewBuyerService(userRepo UserRepository, buyerRepo BuyerRepository, tokens TokenIssuer, validate *validator.Validate) *buyerService {
	return &buyerService{
		userRepo:  userRepo,
		buyerRepo: buyerRepo,
		tokens:    tokens,
		validate:  validate,
	}
}

func (s *buyerService) Register(ctx context.Context, input RegisterInput) (domain.BuyerProfile, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.BuyerProfile{}, utils.ValidationError(err)
	}

	if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
		return domain.BuyerProfile{}, apperror.ValidationField("password", MsgPasswordMismatch)
	}

	email := strings.TrimSpace(input.Email)

	taken, err := s.userRepo.IsLoginTaken(ctx, email)
	if err != nil {
		logger.Error("Failed to check email availability", "error", err)
		return domain.BuyerProfile{}, errors.Wrap(err, "check email")
	}
	if !taken {
		// anonymous reviews may have created a buyer record for this address
		taken, err = s.buyerRepo.ExistsByEmail(ctx, email)
		if err != nil {
			logger.Error("Failed to check buyer email", "error", err)
			return domain.BuyerProfile{}, errors.Wrap(err, "check buyer email")
		}
	}
	if taken {
		return domain.BuyerProfile{}, apperror.ValidationField("email", MsgEmailInUse)
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.BuyerProfile{}, errors.Wrap(err, "hash password")
	}

	buyer := domain.BuyerProfile{
		User: &domain.User{
			Username: email,
			Email:    email,
			Password: string(passwordHash),
		},
		FullName:    optional(input.FullName),
		Email:       email,
		PhoneNumber: optional(input.PhoneNumber),
		Address:     optional(input.Address),
	}

	if err := s.buyerRepo.Create(ctx, &buyer); err != nil {
		logger.Error("Failed to create buyer", "error", err)
		return domain.BuyerProfile{}, errors.Wrap(err, "create buyer")
	}

	logger.Info("buyer registered", "buyer_id", buyer.ID)

	return buyer, nil
}

func (s *buyerService) Login(ctx context.Context, email, password string) (domain.BuyerProfile, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.BuyerProfile{}, "", apperror.Authentication(MsgNoBuyerForEmail)
		}
		logger.Error("Failed to find user by email", "error", err)
		return domain.BuyerProfile{}, "", errors.Wrap(err, "find user")
	}

	if !utils.CheckPassword(password, user.Password) {
		return domain.BuyerProfile{}, "", apperror.Authentication(MsgInvalidPassword)
	}

	buyer, err := s.buyerRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.BuyerProfile{}, "", apperror.Authorization(MsgNotABuyer)
		}
		logger.Error("Failed to find buyer profile", "user_id", user.ID, "error", err)
		return domain.BuyerProfile{}, "", errors.Wrap(err, "find buyer")
	}

	token, err := s.tokens.Issue(ctx, user.ID, access.RoleBuyer)
	if err != nil {
		return domain.BuyerProfile{}, "", err
	}

	return buyer, token, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
