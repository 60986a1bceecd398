package seller

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

// SellerRepository contract interface
type SellerRepository interface {
	Create(ctx context.Context, seller *domain.SellerProfile) error
	FindByID(ctx context.Context, id uint) (domain.SellerProfile, error)
	FindByUserID(ctx context.Context, userID uint) (domain.SellerProfile, error)
	FindAll(ctx context.Context) ([]domain.SellerProfile, error)
	FindByVerified(ctx context.Context, verified bool) ([]domain.SellerProfile, error)
	FindUnnotified(ctx context.Context) ([]domain.SellerProfile, error)
	FindVerifiedByBusinessName(ctx context.Context, name string) (domain.SellerProfile, error)
	UpdateVerification(ctx context.Context, id uint, isVerified, notified bool) error
}

// TokenIssuer issues bearer tokens after a successful login.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uint, role access.Role) (string, error)
}

// VerificationHook is told about every effective verification change.
type VerificationHook interface {
	VerificationChanged(ctx context.Context, seller domain.SellerProfile, action VerificationAction)
}

// NoopHook ignores verification changes; sellers learn about them through
// the notification dispatcher instead.
type NoopHook struct{}

func (NoopHook) VerificationChanged(context.Context, domain.SellerProfile, VerificationAction) {}

const (
	MsgPasswordMismatch = "Passwords do not match."
	MsgEmailInUse       = "Email already in use."
	MsgNoSellerForEmail = "No seller found with this email."
	MsgInvalidPassword  = "Invalid password."
	MsgNotASeller       = "This user is not a registered seller."
	MsgSellerNotFound   = "Seller not found"
)

type RegisterInput struct {
	BusinessName    string `json:"business_name" validate:"required,max=255"`
	OwnerName       string `json:"owner_name" validate:"required,max=255"`
	PhoneNumber     string `json:"phone_number" validate:"required,max=20"`
	BusinessID      string `json:"business_id" validate:"required,max=100"`
	Address         string `json:"address" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type sellerService struct {
	userRepo   UserRepository
	sellerRepo SellerRepository
	tokens     TokenIssuer
	hook       VerificationHook
	validate   *validator.Validate
}

func NewSellerService(
	userRepo UserRepository,
	sellerRepo SellerRepository,
	tokens TokenIssuer,
	hook VerificationHook,
	validate *validator.Validate,
) *sellerService {
	if hook == nil {
		hook = NoopHook{}
	}

	return &sellerService{
		userRepo:   userRepo,
		sellerRepo: sellerRepo,
		tokens:     tokens,
		hook:       hook,
		validate:   validate,
	}
}

// Register creates the identity and a PENDING seller profile.
func (s *sellerService) Register(ctx context.Context, input RegisterInput) (domain.SellerProfile, error) {
	if err := s.validate.Struct(input); err != nil {
		logger.Error("Invalid seller registration", "error", err)
		return domain.SellerProfile{}, utils.ValidationError(err)
	}

	if input.Password != input.ConfirmPassword {
		return domain.SellerProfile{}, apperror.ValidationField("password", MsgPasswordMismatch)
	}

	taken, err := s.userRepo.IsLoginTaken(ctx, input.Email)
	if err != nil {
		logger.Error("Failed to check email availability", "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "check email")
	}
	if taken {
		return domain.SellerProfile{}, apperror.ValidationField("email", MsgEmailInUse)
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "hash password")
	}

	seller := domain.SellerProfile{
		User: domain.User{
			Username: input.Email,
			Email:    input.Email,
			Password: string(passwordHash),
		},
		BusinessName: input.BusinessName,
		OwnerName:    input.OwnerName,
		PhoneNumber:  input.PhoneNumber,
		BusinessID:   input.BusinessID,
		Address:      input.Address,
		IsVerified:   false,
		Notified:     false,
	}

	if err := s.sellerRepo.Create(ctx, &seller); err != nil {
		logger.Error("Failed to create seller", "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "create seller")
	}

	logger.Info("seller registered", "seller_id", seller.ID)

	return seller, nil
}

// Login authenticates a seller by e-mail and returns the profile with a
// bearer token.
func (s *sellerService) Login(ctx context.Context, email, password string) (domain.SellerProfile, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.SellerProfile{}, "", apperror.Authentication(MsgNoSellerForEmail)
		}
		logger.Error("Failed to find user by email", "error", err)
		return domain.SellerProfile{}, "", errors.Wrap(err, "find user")
	}

	if !utils.CheckPassword(password, user.Password) {
		return domain.SellerProfile{}, "", apperror.Authentication(MsgInvalidPassword)
	}

	seller, err := s.sellerRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.SellerProfile{}, "", apperror.Authorization(MsgNotASeller)
		}
		logger.Error("Failed to find seller profile", "user_id", user.ID, "error", err)
		return domain.SellerProfile{}, "", errors.Wrap(err, "find seller")
	}

	token, err := s.tokens.Issue(ctx, user.ID, access.RoleSeller)
	if err != nil {
		return domain.SellerProfile{}, "", err
	}

	return seller, token, nil
}

func (s *sellerService) ListPending(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error) {
	if err := access.Authorize(actor, access.ActionListPending, access.StateUnknown).Err(); err != nil {
		return nil, err
	}

	return s.listByVerified(ctx, false)
}

func (s *sellerService) ListVerified(ctx context.Context) ([]domain.SellerProfile, error) {
	return s.listByVerified(ctx, true)
}

func (s *sellerService) listByVerified(ctx context.Context, verified bool) ([]domain.SellerProfile, error) {
	sellers, err := s.sellerRepo.FindByVerified(ctx, verified)
	if err != nil {
		logger.Error("Failed to list sellers", "is_verified", verified, "error", err)
		return nil, errors.Wrap(err, "list sellers")
	}

	return sellers, nil
}

func (s *sellerService) ListAll(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error) {
	if err := access.Authorize(actor, access.ActionAdminListAll, access.StateUnknown).Err(); err != nil {
		return nil, err
	}

	sellers, err := s.sellerRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list all sellers", "error", err)
		return nil, errors.Wrap(err, "list sellers")
	}

	return sellers, nil
}

// ListUnnotified returns the sellers that have not been told about their
// current verification state yet.
func (s *sellerService) ListUnnotified(ctx context.Context, actor access.Actor) ([]domain.SellerProfile, error) {
	if err := access.Authorize(actor, access.ActionListUnnotified, access.StateUnknown).Err(); err != nil {
		return nil, err
	}

	sellers, err := s.sellerRepo.FindUnnotified(ctx)
	if err != nil {
		logger.Error("Failed to list unnotified sellers", "error", err)
		return nil, errors.Wrap(err, "list unnotified sellers")
	}

	return sellers, nil
}

// LookupByBusinessName matches business_name case-insensitively among
// verified sellers only.
func (s *sellerService) LookupByBusinessName(ctx context.Context, name string) (domain.SellerProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SellerProfile{}, apperror.NotFound(MsgSellerNotFound)
	}

	seller, err := s.sellerRepo.FindVerifiedByBusinessName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.SellerProfile{}, apperror.NotFound(MsgSellerNotFound)
		}
		logger.Error("Failed to look up seller by business name", "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "find seller")
	}

	return seller, nil
}

func (s *sellerService) Approve(ctx context.Context, actor access.Actor, sellerID uint) (domain.SellerProfile, error) {
	return s.SetVerification(ctx, actor, sellerID, ActionApprove)
}

// SetVerification moves a seller to the state action leads to. Re-applying
// the current state is a successful no-op. Concurrent calls on the same
// seller are last-writer-wins.
func (s *sellerService) SetVerification(ctx context.Context, actor access.Actor, sellerID uint, action VerificationAction) (domain.SellerProfile, error) {
	seller, err := s.findForVerification(ctx, actor, sellerID, string(action))
	if err != nil {
		return domain.SellerProfile{}, err
	}

	return s.applyVerification(ctx, actor, seller, action)
}

// VerifySeller resolves the seller before it reads rawAction, so an unknown
// seller is reported as such whatever action was sent.
func (s *sellerService) VerifySeller(ctx context.Context, actor access.Actor, sellerID uint, rawAction string) (domain.SellerProfile, VerificationAction, error) {
	action, parseErr := ParseVerificationAction(rawAction)
	label := string(action)
	if parseErr != nil {
		label = "invalid"
	}

	seller, err := s.findForVerification(ctx, actor, sellerID, label)
	if err != nil {
		return domain.SellerProfile{}, "", err
	}

	if parseErr != nil {
		VerificationTransitionsTotal.WithLabelValues(label, "rejected_input").Inc()
		return domain.SellerProfile{}, "", parseErr
	}

	updated, err := s.applyVerification(ctx, actor, seller, action)
	if err != nil {
		return domain.SellerProfile{}, "", err
	}
	return updated, action, nil
}

func (s *sellerService) findForVerification(ctx context.Context, actor access.Actor, sellerID uint, label string) (domain.SellerProfile, error) {
	if err := access.Authorize(actor, access.ActionApproveOrReject, access.StateUnknown).Err(); err != nil {
		VerificationTransitionsTotal.WithLabelValues(label, "denied").Inc()
		return domain.SellerProfile{}, err
	}

	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			VerificationTransitionsTotal.WithLabelValues(label, "not_found").Inc()
			return domain.SellerProfile{}, apperror.NotFound(MsgSellerNotFound)
		}
		logger.Error("Failed to find seller", "seller_id", sellerID, "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "find seller")
	}

	return seller, nil
}

func (s *sellerService) applyVerification(ctx context.Context, actor access.Actor, seller domain.SellerProfile, action VerificationAction) (domain.SellerProfile, error) {
	to, changed := Transition(access.StateOf(seller.IsVerified), action)
	if !changed {
		VerificationTransitionsTotal.WithLabelValues(string(action), "unchanged").Inc()
		return seller, nil
	}

	seller.IsVerified = to == access.StateVerified
	seller.Notified = false

	if err := s.sellerRepo.UpdateVerification(ctx, seller.ID, seller.IsVerified, seller.Notified); err != nil {
		logger.Error("Failed to update seller verification", "seller_id", seller.ID, "error", err)
		return domain.SellerProfile{}, errors.Wrap(err, "update verification")
	}

	VerificationTransitionsTotal.WithLabelValues(string(action), "changed").Inc()
	logger.Info("seller verification changed",
		"seller_id", seller.ID,
		"action", string(action),
		"admin_user_id", actor.UserID,
	)

	s.hook.VerificationChanged(ctx, seller, action)

	return seller, nil
}
