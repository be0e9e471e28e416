package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	sessionTokenPrefix = "login:user:token"
	sessionTokenTTL    = 30 * time.Minute
)

// SessionRepository 登录态 access token 的单点存储
type SessionRepository struct {
	Client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{Client: client}
}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionTokenPrefix, userID)
}

func (r *SessionRepository) Put(ctx context.Context, userID uint64, token string) error {
	if err := r.Client.Set(ctx, sessionKey(userID), token, sessionTokenTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend 校验通过后顺延过期时间
func (r *SessionRepository) Extend(ctx context.Context, userID uint64) error {
	if err := r.Client.Expire(ctx, sessionKey(userID), sessionTokenTTL).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
