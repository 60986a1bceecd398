package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned for tokens that were never issued, expired or
// were revoked.
var ErrTokenNotFound = errors.New("token not found or expired")

type TokenData struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

func userKey(userID string) string {
	return fmt.Sprintf("token:user:%s", userID)
}

// StoreToken records token for userID. The lookup key lives exactly as
// long as the token.
func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	now := time.Now()
	data, err := json.Marshal(TokenData{UserID: userID, IssuedAt: now, ExpiresAt: now.Add(ttl)})
	if err != nil {
		return errors.Wrap(err, "marshal token data")
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, lookupKey(token), userID, ttl)
		pipe.HSet(ctx, userKey(userID), token, data)
		pipe.Expire(ctx, userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "store token in redis")
	}

	return nil
}

// ValidateToken returns the user id a live token belongs to.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", errors.Wrap(err, "validate token")
	}

	return userID, nil
}

func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	userID, err := r.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil
		}
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, lookupKey(token))
		pipe.HDel(ctx, userKey(userID), token)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "revoke token")
	}

	return nil
}

// RevokeAll drops every token issued to userID.
func (r *TokenRepository) RevokeAll(ctx context.Context, userID string) error {
	tokens, err := r.client.HKeys(ctx, userKey(userID)).Result()
	if err != nil {
		return errors.Wrap(err, "list user tokens")
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, lookupKey(token))
	}
	keys = append(keys, userKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "revoke user tokens")
	}

	return nil
}
