// Package redis 提供 Redis 连接初始化
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"strconv"

	"circle_pipeline/internal/config"
	"circle_pipeline/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// Init 按配置创建 Redis 客户端并检查连通性
// 启动 15 个 Worker，缓冲区大小 3000
func Init(ctx context.Context, conf *config.RedisConfig) (*RedisCache, error) {
	addr := conf.Host + ":" + strconv.Itoa(conf.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.Password,
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 15,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis ping %s", addr)
	}
	return NewRedisCache(client, 15, 3000), nil
}
