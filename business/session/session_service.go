package session

import (
	"context"
	"strconv"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/pkg/logger"
	"verifiedMarket/pkg/utils"

	"github.com/pkg/errors"
)

// TokenStore tracks issued tokens so they can be revoked before expiry.
type TokenStore interface {
	StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error
	RevokeToken(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
}

type sessionService struct {
	store TokenStore
}

// NewSessionService builds the token issuer. store may be nil, in which case
// tokens live until they expire.
func NewSessionService(store TokenStore) *sessionService {
	return &sessionService{store: store}
}

func (s *sessionService) Issue(ctx context.Context, userID uint, role access.Role) (string, error) {
	userIDStr := strconv.FormatUint(uint64(userID), 10)

	token, err := utils.GenerateJWT(userIDStr, string(role))
	if err != nil {
		logger.Error("Failed to generate token", "user_id", userID, "error", err)
		return "", errors.Wrap(err, "generate token")
	}

	if s.store != nil {
		if err := s.store.StoreToken(ctx, userIDStr, token, utils.TokenTTL()); err != nil {
			logger.Error("Failed to store token", "user_id", userID, "error", err)
			return "", errors.Wrap(err, "store token")
		}
	}

	return token, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.RevokeToken(ctx, token); err != nil {
		logger.Error("Failed to revoke token", "error", err)
		return errors.Wrap(err, "revoke token")
	}

	return nil
}

// RevokeAll signs userID out of every session it holds.
func (s *sessionService) RevokeAll(ctx context.Context, userID uint) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.RevokeAll(ctx, strconv.FormatUint(uint64(userID), 10)); err != nil {
		logger.Error("Failed to revoke user tokens", "user_id", userID, "error", err)
		return errors.Wrap(err, "revoke user tokens")
	}

	return nil
}
