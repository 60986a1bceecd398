package admin

import (
	"context"
	"strings"

	"verifiedMarket/business/access"
	"verifiedMarket/domain"
	"verifiedMarket/pkg/apperror"
	"verifiedMarket/pkg/logger"
	"verifiedMarket/pkg/utils"

	"github.com/pkg/errors"
)

// UserRepository contract interface
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// AdminRepository contract interface
type AdminRepository interface {
	// Create inserts the profile, and its User when User.ID is zero.
	Create(ctx context.Context, admin *domain.AdminProfile) error
	FindByUserID(ctx context.Context, userID uint) (domain.AdminProfile, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, userID uint, role access.Role) (string, error)
}

// MsgInvalidCredentials is shared by every admin login failure so callers
// cannot tell a wrong password from a non-admin account.
const MsgInvalidCredentials = "Invalid credentials or not an admin."

type adminService struct {
	userRepo  UserRepository
	adminRepo AdminRepository
	tokens    TokenIssuer
}

func NewAdminService(userRepo UserRepository, adminRepo AdminRepository, tokens TokenIssuer) *adminService {
	return &adminService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

func (s *adminService) Login(ctx context.Context, username, password string) (domain.AdminSummary, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.AdminSummary{}, "", apperror.Authentication(MsgInvalidCredentials)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.AdminSummary{}, "", apperror.Authentication(MsgInvalidCredentials)
		}
		logger.Error("Failed to find user by username", "error", err)
		return domain.AdminSummary{}, "", errors.Wrap(err, "find user")
	}

	if !utils.CheckPassword(password, user.Password) {
		return domain.AdminSummary{}, "", apperror.Authentication(MsgInvalidCredentials)
	}

	isAdmin, err := s.IsAdmin(ctx, user.ID)
	if err != nil {
		return domain.AdminSummary{}, "", err
	}
	if !isAdmin {
		logger.Warn("admin login by non-admin identity", "user_id", user.ID)
		return domain.AdminSummary{}, "", apperror.Authorization(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(ctx, user.ID, access.RoleAdmin)
	if err != nil {
		return domain.AdminSummary{}, "", err
	}

	return domain.AdminSummary{ID: user.ID, Username: user.Username}, token, nil
}

// IsAdmin reports whether userID has an admin profile.
func (s *adminService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	_, err := s.adminRepo.FindByUserID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return false, nil
		}
		logger.Error("Failed to find admin profile", "user_id", userID, "error", err)
		return false, errors.Wrap(err, "find admin")
	}

	return true, nil
}

// EnsureAdmin makes sure username exists and holds an admin profile. An
// existing identity keeps its password.
func (s *adminService) EnsureAdmin(ctx context.Context, username, password, fullName string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return apperror.Validation("admin username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		isAdmin, err := s.IsAdmin(ctx, user.ID)
		if err != nil {
			return err
		}
		if isAdmin {
			return nil
		}

		profile := domain.AdminProfile{UserID: user.ID, FullName: fullName}
		if err := s.adminRepo.Create(ctx, &profile); err != nil {
			logger.Error("Failed to promote user to admin", "user_id", user.ID, "error", err)
			return errors.Wrap(err, "create admin profile")
		}

		logger.Info("existing user promoted to admin", "user_id", user.ID)
		return nil

	case !apperror.IsNotFound(err):
		logger.Error("Failed to find user by username", "error", err)
		return errors.Wrap(err, "find user")
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	profile := domain.AdminProfile{
		User: domain.User{
			Username: username,
			Password: string(passwordHash),
		},
		FullName: fullName,
	}
	if strings.Contains(username, "@") {
		profile.User.Email = username
	}

	if err := s.adminRepo.Create(ctx, &profile); err != nil {
		logger.Error("Failed to create admin", "error", err)
		return errors.Wrap(err, "create admin")
	}

	logger.Info("admin account created", "user_id", profile.UserID)

	return nil
}
