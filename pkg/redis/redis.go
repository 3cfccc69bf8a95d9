package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
)

// ErrLockNotAcquired 资源锁已被其他请求持有
var ErrLockNotAcquired = errors.New("资源正被其他操作占用，请稍后重试")

// Client Redis 客户端封装
// 用于 Token 黑名单、登录限流与排课资源锁
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 滑动窗口限流 ──

// CheckRateLimit 以有序集合实现滑动窗口，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	windowStart := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", windowStart)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() <= int64(limit), nil
}

// ── 资源锁 ──

const lockPrefix = "lock:"

// releaseScript 仅当值仍为持有者 token 时删除，避免误删他人续上的锁
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 已获取的资源锁
type Lock struct {
	client *Client
	keys   []string
	token  string
}

// AcquireLocks 按给定顺序获取一组资源锁，任一失败则释放已获取部分
// 调用方需保证 keys 顺序稳定，避免交叉等待
func (c *Client) AcquireLocks(ctx context.Context, ttl time.Duration, keys ...string) (*Lock, error) {
	lock := &Lock{client: c, token: uuid.NewString()}
	for _, k := range keys {
		ok, err := c.rdb.SetNX(ctx, lockPrefix+k, lock.token, ttl).Result()
		if err != nil {
			lock.Release(ctx)
			return nil, fmt.Errorf("获取资源锁失败: %w", err)
		}
		if !ok {
			lock.Release(ctx)
			return nil, ErrLockNotAcquired
		}
		lock.keys = append(lock.keys, lockPrefix+k)
	}
	return lock, nil
}

// Release 释放全部已持有的锁，错误仅记录
func (l *Lock) Release(ctx context.Context) {
	for _, k := range l.keys {
		if err := releaseScript.Run(ctx, l.client.rdb, []string{k}, l.token).Err(); err != nil {
			l.client.logger.Warn("释放资源锁失败", zap.String("key", k), zap.Error(err))
		}
	}
	l.keys = nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
