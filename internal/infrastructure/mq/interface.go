// Package mq 负责把推送事件转发给外部订阅方
// 支持进程内 channel、Kafka 和 Redis 三种出口
package mq

import (
	"context"
	"time"
)

// Notifier 对外通知入口
// 分发器和连接管理器只依赖这个接口
type Notifier interface {
	Notify(ctx context.Context, name string, payload any) error
}

// Sink 单个通知出口
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Notification 一条对外通知
// 同一次 Notify 在所有出口上共享同一个 ID
type Notification struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload,omitempty"`
	EmittedAt time.Time `json:"emittedAt"`
}
