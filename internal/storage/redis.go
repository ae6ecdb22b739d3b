package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"cv-extract-go/internal/config"
	"cv-extract-go/internal/constants"
)

// ErrNotFound key不存在时返回，封装底层的redis.Nil
var ErrNotFound = redis.Nil

// Redis 键值存储封装，用于上传文件的MD5去重
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis配置不能为空")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	client := redis.NewClient(opt)

	// 注册OpenTelemetry追踪钩子
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("注册Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &Redis{Client: client, config: cfg}, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.Client.Close()
}

// CheckFileMD5Exists 检查文件MD5是否已存在于去重集合中
func (r *Redis) CheckFileMD5Exists(ctx context.Context, md5Hex string) (bool, error) {
	exists, err := r.Client.SIsMember(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("检查文件MD5失败: %w", err)
	}
	return exists, nil
}

// RecordFileMD5 把文件MD5写入去重集合并记录MD5到提交UUID的映射
func (r *Redis) RecordFileMD5(ctx context.Context, md5Hex, submissionUUID string) error {
	expire := r.md5RecordExpire()

	pipe := r.Client.TxPipeline()
	pipe.SAdd(ctx, constants.KeyFileMD5Set, md5Hex)
	pipe.Expire(ctx, constants.KeyFileMD5Set, expire)

	mappingKey := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	pipe.Set(ctx, mappingKey, submissionUUID, expire)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("记录文件MD5失败: %w", err)
	}
	return nil
}

// GetSubmissionUUIDByMD5 按文件MD5查已有提交的UUID
// 未找到时返回 ErrNotFound
func (r *Redis) GetSubmissionUUIDByMD5(ctx context.Context, md5Hex string) (string, error) {
	mappingKey := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	uuid, err := r.Client.Get(ctx, mappingKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("查询MD5映射失败: %w", err)
	}
	return uuid, nil
}

func (r *Redis) md5RecordExpire() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}
