package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guessgame-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accessTokenKeyPrefix  = "access_uuid:"
	refreshTokenKeyPrefix = "refresh_uuid:"
	userTokensKeyPrefix   = "user_tokens:"
)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed session token store.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) SessionTokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func (r *redisTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	now := time.Now()
	atExpires := time.Unix(td.AtExpires, 0)
	rtExpires := time.Unix(td.RtExpires, 0)
	userTokensKey := userTokensKeyPrefix + userID.String()

	pipe := r.client.Pipeline()
	pipe.Set(ctx, accessTokenKeyPrefix+td.AccessUUID, userID.String(), atExpires.Sub(now))
	pipe.Set(ctx, refreshTokenKeyPrefix+td.RefreshUUID, userID.String(), rtExpires.Sub(now))
	pipe.SAdd(ctx, userTokensKey, "access:"+td.AccessUUID, "refresh:"+td.RefreshUUID)
	pipe.ExpireAt(ctx, userTokensKey, rtExpires)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to store token pair", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("error storing token pair: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) (int64, error) {
	pipe := r.client.Pipeline()
	delCmd := pipe.Del(ctx, accessTokenKeyPrefix+accessUUID, refreshTokenKeyPrefix+refreshUUID)
	pipe.SRem(ctx, userTokensKeyPrefix+userID.String(), "access:"+accessUUID, "refresh:"+refreshUUID)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete tokens", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("error deleting tokens: %w", err)
	}
	return delCmd.Val(), nil
}

func (r *redisTokenRepository) getUserID(ctx context.Context, key string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to look up token", zap.String("key", key), zap.Error(err))
		return uuid.Nil, fmt.Errorf("error looking up token: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		r.logger.Error("Corrupted user ID in token store", zap.String("key", key), zap.Error(err))
		return uuid.Nil, fmt.Errorf("error parsing stored user ID: %w", err)
	}
	return userID, nil
}

func (r *redisTokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	return r.getUserID(ctx, accessTokenKeyPrefix+accessUUID)
}

func (r *redisTokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	return r.getUserID(ctx, refreshTokenKeyPrefix+refreshUUID)
}

func (r *redisTokenRepository) DeleteTokensByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	userTokensKey := userTokensKeyPrefix + userID.String()

	identifiers, err := r.client.SMembers(ctx, userTokensKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		r.logger.Error("Failed to list user tokens", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("error listing user tokens: %w", err)
	}
	if len(identifiers) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(identifiers)+1)
	for _, id := range identifiers {
		switch {
		case strings.HasPrefix(id, "access:"):
			keys = append(keys, accessTokenKeyPrefix+strings.TrimPrefix(id, "access:"))
		case strings.HasPrefix(id, "refresh:"):
			keys = append(keys, refreshTokenKeyPrefix+strings.TrimPrefix(id, "refresh:"))
		}
	}
	keys = append(keys, userTokensKey)

	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Failed to delete user tokens", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("error deleting user tokens: %w", err)
	}

	r.logger.Info("Revoked all tokens for user",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
