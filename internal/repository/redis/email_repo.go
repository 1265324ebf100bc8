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
	EmailCodePrefix     = "email:code"

	// 两阶段键：发信前写 pending，发信成功后原子转 confirmed
	PendingSuffix   = "pending"
	ConfirmedSuffix = "confirmed"
)

var (
	ErrEmailNotFound       = errors.New("email code not found")
	ErrEmailCodeDelFailed  = errors.New("email code delete failed")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
)

type EmailRepository struct{}

func codeKey(scope, phase, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, phase, email)
}

// SetCodePending 发信前先写 pending 键
func (e *EmailRepository) SetCodePending(scope, email, code string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Set(context.Background(), key, code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

// ConfirmCode 使用lua脚本原子执行：取值+写入目标+设置 TTL+删除源
func (e *EmailRepository) ConfirmCode(scope, email string) error {
	srcKey := codeKey(scope, PendingSuffix, email)
	dstKey := codeKey(scope, ConfirmedSuffix, email)

	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`
	px := int64(DefaultEmailCodeTTL / time.Millisecond)
	res := Client.Eval(context.Background(), script, []string{srcKey, dstKey}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	ok, _ := res.Int()
	if ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

// DeleteCodePending 确认失败时清除 pending 键
func (e *EmailRepository) DeleteCodePending(scope, email string) error {
	key := codeKey(scope, PendingSuffix, email)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}

// GetEmailCode 读取 confirmed 键
func (e *EmailRepository) GetEmailCode(scope, email string) (string, error) {
	key := codeKey(scope, ConfirmedSuffix, email)
	val, err := Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmailNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DeleteEmailCode 校验通过后一次性删除
func (e *EmailRepository) DeleteEmailCode(scope, email string) error {
	key := codeKey(scope, ConfirmedSuffix, email)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
