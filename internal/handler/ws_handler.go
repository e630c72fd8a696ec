// Package handler 提供 HTTP 请求处理器
// 本文件处理本地事件订阅的 WebSocket 升级
package handler

import (
	"circle_pipeline/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
)

// EventsHandler 事件订阅处理器
type EventsHandler struct {
	subs websocket.Subscriptions
}

// NewEventsHandler 创建事件订阅处理器实例
func NewEventsHandler(subs websocket.Subscriptions) *EventsHandler {
	return &EventsHandler{subs: subs}
}

// Subscribe 升级为 WebSocket 并持续推送通知
// GET /api/events
func (h *EventsHandler) Subscribe(c *gin.Context) {
	websocket.NewClientInit(c, h.subs)
}
