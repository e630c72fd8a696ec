// Package router 提供 HTTP 路由注册
// 本文件定义好友相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes 注册好友相关路由（需要认证）
func (rt *Router) RegisterFriendRoutes(rg *gin.RouterGroup) {
	friendGroup := rg.Group("/friends")
	{
		friendGroup.GET("", rt.handlers.Friend.List)
		friendGroup.GET("/online", rt.handlers.Friend.Online)
		friendGroup.GET("/:id", rt.handlers.Friend.Get)
		friendGroup.POST("", rt.handlers.Friend.Initialize)
	}
}
