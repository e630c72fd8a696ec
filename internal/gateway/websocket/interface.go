package websocket

import "circle_pipeline/internal/infrastructure/mq"

// Subscriptions 本地事件订阅源
// mq.Hub 实现了该接口
type Subscriptions interface {
	Subscribe() (string, <-chan mq.Notification)
	Unsubscribe(id string)
}
