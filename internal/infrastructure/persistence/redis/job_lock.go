package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookcrossing/pkg/errors"
)

// releaseScript 只有持有者（值等于token）才能删除锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLock 定时任务分布式锁
// 多实例部署时保证同一时刻只有一个实例执行任务：
// SET key token NX PX ttl 加锁，Lua脚本比较token后删除
type JobLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewJobLock 创建任务锁，ttl应大于任务最长执行时间
func NewJobLock(client *redis.Client, key string, ttl time.Duration) *JobLock {
	return &JobLock{client: client, key: key, ttl: ttl}
}

// TryAcquire 尝试加锁，锁已被持有时ok为false
func (l *JobLock) TryAcquire(ctx context.Context) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "获取任务锁失败")
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release 释放锁；锁已过期或被其他实例持有时不做任何操作
func (l *JobLock) Release(ctx context.Context, token string) error {
	err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "释放任务锁失败")
	}
	return nil
}
