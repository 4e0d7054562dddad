package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// ConfirmStore 注册确认Token存储
// Key：bookcrossing:confirm:{token} → user_id，一次性使用
type ConfirmStore struct {
	client *redis.Client
}

// NewConfirmStore 创建确认Token存储
func NewConfirmStore(client *redis.Client) *ConfirmStore {
	return &ConfirmStore{client: client}
}

func confirmKey(token string) string {
	return keyPrefix + "confirm:" + token
}

// Save 保存Token，过期后激活链接失效
func (s *ConfirmStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, confirmKey(token), userID, ttl).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "保存激活Token失败")
	}
	return nil
}

// Consume 取出并删除Token（GETDEL保证只能使用一次）
// Token不存在或已使用时ok为false
func (s *ConfirmStore) Consume(ctx context.Context, token string) (userID uint, ok bool, err error) {
	val, err := s.client.GetDel(ctx, confirmKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取激活Token失败")
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, apperrors.Wrap(err, "激活Token数据损坏")
	}
	return uint(id), true, nil
}
