package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/errors"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/redis"
)

// ErrSchedulingBusy 同一资源正在被另一个排课请求写入
var ErrSchedulingBusy = fmt.Errorf("%w: 资源正被其他排课操作占用，请稍后重试", pkgerrors.ErrSchedulingConflict)

// Locker 检查到写入期间持有的资源锁
type Locker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

// noopLocker 未启用锁时使用
type noopLocker struct{}

func (noopLocker) Lock(context.Context, ...string) (func(), error) { return func() {}, nil }

// redisLocker 基于 Redis SETNX 的资源锁
// Redis 不可用时降级为不加锁，由数据库排他约束兜底
type redisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewLocker rdb 为 nil 或未启用时返回空实现
func NewLocker(rdb *redis.Client, enabled bool, ttl time.Duration, logger *zap.Logger) Locker {
	if rdb == nil || !enabled {
		return noopLocker{}
	}
	return &redisLocker{rdb: rdb, ttl: ttl, logger: logger}
}

func (l *redisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	lock, err := l.rdb.AcquireLocks(ctx, l.ttl, keys...)
	if err != nil {
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return nil, ErrSchedulingBusy
		}
		l.logger.Warn("获取排课锁失败，降级为无锁写入", zap.Strings("keys", keys), zap.Error(err))
		return func() {}, nil
	}
	return func() { lock.Release(context.WithoutCancel(ctx)) }, nil
}

// sessionLockKeys 固定顺序 教室 → 教师 → 班组
func sessionLockKeys(c ConflictCandidate) []string {
	return []string{
		"session:room:" + c.RoomID,
		"session:teacher:" + c.TeacherID,
		"session:group:" + c.GroupName,
	}
}
