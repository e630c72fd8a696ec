// Package redis 定义事件镜像存储接口
// mq 层依赖此接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// EventStore 事件发布与最近快照存储
type EventStore interface {
	// Publish 向频道发布一条消息
	Publish(ctx context.Context, channel string, message []byte) error
	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AsyncEventStore 异步事件存储接口
// 提供异步任务提交能力，推送循环不会被 Redis 往返阻塞
type AsyncEventStore interface {
	EventStore
	// SubmitTask 提交异步任务
	SubmitTask(action func())
}
