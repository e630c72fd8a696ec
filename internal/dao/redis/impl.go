// Package redis 提供 EventStore 接口的 Redis 实现
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"circle_pipeline/pkg/errorx"
)

// RedisCache Redis 事件存储实现
// 同时实现 EventStore 和 AsyncEventStore
type RedisCache struct {
	client       *redis.Client
	taskChan     chan func()
	workerNum    int
	taskChanSize int

	// closeMu 保护 closed，投递任务持读锁，Close 持写锁
	closeMu sync.RWMutex
	closed  bool
}

// NewRedisCache 创建 Redis 存储实例
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:       client,
		taskChan:     make(chan func(), taskChanSize),
		workerNum:    workerNum,
		taskChanSize: taskChanSize,
	}
	// 启动 Worker Pool
	for i := 0; i < workerNum; i++ {
		go rc.startWorker()
	}
	zap.L().Info("Redis Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

// startWorker 启动单个 Worker 消费循环
func (r *RedisCache) startWorker() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
			go r.startWorker() // 重启
		}
	}()

	for task := range r.taskChan {
		if task != nil {
			task()
		}
	}
}

// Publish 发布消息到频道
func (r *RedisCache) Publish(ctx context.Context, channel string, message []byte) error {
	if err := r.client.Publish(ctx, channel, message).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis publish %s", channel)
	}
	return nil
}

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// SubmitTask 提交异步任务
// 通道已满时降级为同步执行，关闭后提交的任务直接丢弃
func (r *RedisCache) SubmitTask(action func()) {
	r.closeMu.RLock()
	if r.closed {
		r.closeMu.RUnlock()
		zap.L().Warn("Redis task submitted after close, dropped")
		return
	}
	select {
	case r.taskChan <- action:
		r.closeMu.RUnlock()
		return
	default:
	}
	r.closeMu.RUnlock()

	zap.L().Warn("Redis task channel full, executing synchronously")
	action()
}

// Close 关闭任务通道和客户端连接，可重复调用
func (r *RedisCache) Close() error {
	r.closeMu.Lock()
	if r.closed {
		r.closeMu.Unlock()
		return nil
	}
	r.closed = true
	close(r.taskChan)
	r.closeMu.Unlock()
	return r.client.Close()
}

var _ AsyncEventStore = (*RedisCache)(nil)
