package mq

import (
	"context"
	"sync"

	"circle_pipeline/pkg/constants"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub 进程内通知出口，转发给 /api/events 的订阅者
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Notification
	buffer      int
}

// NewHub 创建 Hub，buffer 为每个订阅者的通道容量
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = constants.CHANNEL_SIZE
	}
	return &Hub{
		subscribers: make(map[string]chan Notification),
		buffer:      buffer,
	}
}

// Subscribe 注册订阅者，返回订阅 ID 和只读通道
func (h *Hub) Subscribe() (string, <-chan Notification) {
	id := uuid.NewString()
	ch := make(chan Notification, h.buffer)
	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()
	zap.L().Info("event subscriber joined", zap.String("subscriber", id))
	return id, ch
}

// Unsubscribe 移除订阅者并关闭其通道，重复调用无副作用
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		close(ch)
		zap.L().Info("event subscriber left", zap.String("subscriber", id))
	}
}

// SubscriberCount 当前订阅者数量
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Deliver 非阻塞投递，通道已满的订阅者丢弃本条
func (h *Hub) Deliver(_ context.Context, n Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- n:
		default:
			zap.L().Warn("event subscriber too slow, notification dropped",
				zap.String("subscriber", id), zap.String("name", n.Name))
		}
	}
	return nil
}

var _ Sink = (*Hub)(nil)
