// Package router 提供 HTTP 路由注册
// 本文件定义本地事件订阅的 WebSocket 路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由（需要认证）
// 请求示例: ws://127.0.0.1:8000/api/events?token=xxx
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", rt.handlers.Events.Subscribe)
}
