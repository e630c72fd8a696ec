package pipeline

import (
	"context"
	"net/http"
)

// Conn 已建立的推送连接，*websocket.Conn 满足该接口
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer 建立推送连接
// 测试中注入假实现，生产环境使用 gorilla/websocket
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

// FrameHandler 处理一帧文本消息
// 返回的错误只记录日志，不会断开连接
type FrameHandler interface {
	HandleFrame(ctx context.Context, frame []byte) error
}

// FrameHandlerFunc 函数适配器
type FrameHandlerFunc func(ctx context.Context, frame []byte) error

func (f FrameHandlerFunc) HandleFrame(ctx context.Context, frame []byte) error {
	return f(ctx, frame)
}

// Notifier 连接生命周期通知出口
// 用于解耦 pipeline 包对 mq 包的依赖
type Notifier interface {
	Notify(ctx context.Context, name string, payload any) error
}
