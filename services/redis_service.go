package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cropguard-http-service/config"
)

// InterfaceRedisService 定义Redis缓存服务接口
type InterfaceRedisService interface {
	GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error)
	SetUnreadCount(ctx context.Context, userID uint, count int64) error
	InvalidateUnreadCount(ctx context.Context, userID uint) error
	CacheObject(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetObject(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// RedisService 提供Redis缓存相关服务
type RedisService struct {
	client *redis.Client
}

// NewRedisService 创建一个新的Redis服务
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

// NewRedisClient 根据配置创建Redis客户端
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("cropguard:notification:unread:%d", userID)
}

// GetUnreadCount 读取用户未读通知数缓存，第二个返回值表示缓存是否命中
func (s *RedisService) GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := s.client.Get(ctx, unreadCountKey(userID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetUnreadCount 写入用户未读通知数缓存
func (s *RedisService) SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	// 缓存5分钟，过期后回源数据库
	return s.client.Set(ctx, unreadCountKey(userID), count, 5*time.Minute).Err()
}

// InvalidateUnreadCount 删除用户未读通知数缓存
func (s *RedisService) InvalidateUnreadCount(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, unreadCountKey(userID)).Err()
}

// CacheObject 将对象序列化为JSON后写入缓存
func (s *RedisService) CacheObject(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, expiration).Err()
}

// GetObject 从缓存读取JSON对象，第一个返回值表示缓存是否命中
func (s *RedisService) GetObject(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Delete 删除缓存键
func (s *RedisService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
