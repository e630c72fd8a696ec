// Package websocket 把本地事件推送给已认证的 WebSocket 订阅方
package websocket

import (
	"net/http"
	"time"

	"circle_pipeline/internal/infrastructure/mq"
	"circle_pipeline/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client 单个订阅连接
type Client struct {
	Conn          *websocket.Conn
	ID            string
	Notifications <-chan mq.Notification
	subs          Subscriptions
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 接口只监听本地地址，不校验 Origin
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Read 丢弃客户端发来的数据，连接断开时取消订阅
func (c *Client) Read() {
	zap.L().Debug("events read goroutine start", zap.String("subscriber", c.ID))
	defer c.subs.Unsubscribe(c.ID)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("events subscriber read failed", zap.String("subscriber", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// Write 把通知写给客户端，订阅被取消或写入失败时结束
func (c *Client) Write() {
	zap.L().Debug("events write goroutine start", zap.String("subscriber", c.ID))
	ticker := time.NewTicker(constants.WS_PING_PERIOD)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case n, ok := <-c.Notifications:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(constants.WS_WRITE_WAIT))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteJSON(n); err != nil {
				zap.L().Warn("events subscriber write failed", zap.String("subscriber", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(constants.WS_WRITE_WAIT))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NewClientInit 升级连接并开始转发通知
func NewClientInit(c *gin.Context, subs Subscriptions) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写回错误响应
		zap.L().Error("events upgrade failed", zap.Error(err))
		return
	}
	id, ch := subs.Subscribe()
	client := &Client{
		Conn:          conn,
		ID:            id,
		Notifications: ch,
		subs:          subs,
	}
	go client.Read()
	go client.Write()
	zap.L().Info("events subscriber connected", zap.String("subscriber", id))
}
