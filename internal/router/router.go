// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"circle_pipeline/internal/handler"
	"circle_pipeline/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { handler.HandleSuccess(c, "ok") })

	// 公开接口 (无需认证)
	rt.RegisterAuthRoutes(r.Group("/auth"))

	// 需要认证的接口
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(rt.handlers.Validator))
	{
		api.POST("/auth/revoke", rt.handlers.Auth.RevokeToken)
		rt.RegisterFriendRoutes(api)
		rt.RegisterUserRoutes(api)
		rt.RegisterCacheRoutes(api)
		rt.RegisterPipelineRoutes(api)
		rt.RegisterWebSocketRoutes(api)
	}
}
