// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 通过构造函数注入 Service 依赖
package handler

import (
	"circle_pipeline/internal/gateway/websocket"
	"circle_pipeline/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth     *AuthHandler
	Friend   *FriendHandler
	User     *UserHandler
	Cache    *CacheHandler
	Pipeline *PipelineHandler
	Events   *EventsHandler

	// Validator 供认证中间件使用
	Validator service.AuthService
}

// NewHandlers 创建并注入所有 Handler 实例
// svc: Service 层聚合实例
// subs: 本地事件订阅源
func NewHandlers(svc *service.Services, subs websocket.Subscriptions) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(svc.Auth),
		Friend:    NewFriendHandler(svc.Relation),
		User:      NewUserHandler(svc.Relation),
		Cache:     NewCacheHandler(svc.Relation),
		Pipeline:  NewPipelineHandler(svc.Pipeline),
		Events:    NewEventsHandler(subs),
		Validator: svc.Auth,
	}
}
