package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AdminFilter/config"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// RedisManager Redis 管理器
type RedisManager struct {
	Client *redis.Client
}

var globalRedisManager *RedisManager

// InitRedis 初始化 Redis 连接；Addr 为空时返回 nil，表示不启用缓存
func InitRedis(cfg config.RedisConfig) (*RedisManager, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	globalRedisManager = &RedisManager{Client: client}
	return globalRedisManager, nil
}

// GetRedis 获取全局 Redis 管理器，未初始化时为 nil
func GetRedis() *RedisManager {
	return globalRedisManager
}

// Close 关闭 Redis 连接
func (rm *RedisManager) Close() error {
	return rm.Client.Close()
}

// Set 设置缓存（带过期时间）
func (rm *RedisManager) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return rm.Client.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存，未命中返回 ErrCacheMiss
func (rm *RedisManager) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := rm.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete 删除缓存
func (rm *RedisManager) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rm.Client.Del(ctx, keys...).Err()
}

// DeletePattern 按模式删除缓存，使用 SCAN 避免阻塞
func (rm *RedisManager) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := rm.Client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := rm.Client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
