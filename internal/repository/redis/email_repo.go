package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	emailCodePrefix     = "email:code"
)

var (
	ErrEmailCodeNotFound  = errors.New("email code not found")
	ErrEmailCodeSetFailed = errors.New("email code set failed")
	ErrEmailCodeDelFailed = errors.New("email code delete failed")
)

// EmailRepository 验证码存取，scope 区分 register/reset
type EmailRepository struct {
	Client *redis.Client
}

func NewEmailRepository(client *redis.Client) *EmailRepository {
	return &EmailRepository{Client: client}
}

func codeKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s", emailCodePrefix, scope, email)
}

func (e *EmailRepository) SetCode(ctx context.Context, scope, email, code string) error {
	if err := e.Client.Set(ctx, codeKey(scope, email), code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrEmailCodeSetFailed
	}
	return nil
}

func (e *EmailRepository) GetCode(ctx context.Context, scope, email string) (string, error) {
	val, err := e.Client.Get(ctx, codeKey(scope, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmailCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (e *EmailRepository) DeleteCode(ctx context.Context, scope, email string) error {
	if err := e.Client.Del(ctx, codeKey(scope, email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
