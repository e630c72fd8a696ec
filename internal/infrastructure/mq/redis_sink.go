package mq

import (
	"context"
	"encoding/json"
	"time"

	myredis "circle_pipeline/internal/dao/redis"
	"circle_pipeline/pkg/errorx"

	"go.uber.org/zap"
)

// lastKeyPrefix 每种通知最近一条的快照键前缀
const lastKeyPrefix = "circle:last:"

// RedisSink 通过 Redis PUBLISH 广播通知，并保存每种通知的最近一条
// 实际写入交给 worker pool，Deliver 不等待 Redis 往返
type RedisSink struct {
	store   myredis.AsyncEventStore
	channel string
	ttl     time.Duration
}

// NewRedisSink 创建 Redis 出口，ttl 为快照保留时长
func NewRedisSink(store myredis.AsyncEventStore, channel string, ttl time.Duration) *RedisSink {
	return &RedisSink{store: store, channel: channel, ttl: ttl}
}

func (r *RedisSink) Deliver(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeNotifyError, "encode notification %s", n.Name)
	}
	taskCtx := context.WithoutCancel(ctx)
	r.store.SubmitTask(func() {
		if err := r.store.Publish(taskCtx, r.channel, data); err != nil {
			zap.L().Error("redis publish notification", zap.String("name", n.Name), zap.Error(err))
		}
		if err := r.store.Set(taskCtx, lastKeyPrefix+n.Name, data, r.ttl); err != nil {
			zap.L().Error("redis store last notification", zap.String("name", n.Name), zap.Error(err))
		}
	})
	return nil
}

var _ Sink = (*RedisSink)(nil)
