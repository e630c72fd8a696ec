package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/users")
	{
		userGroup.GET("/search", rt.handlers.User.Search)
		userGroup.GET("/:id", rt.handlers.User.Get)
		userGroup.GET("/:id/profile", rt.handlers.User.Profile)
		userGroup.GET("/:id/relation", rt.handlers.User.Relation)
		userGroup.POST("", rt.handlers.User.CacheProfile)
	}

	// 当前用户
	rg.GET("/me", rt.handlers.User.Me)
	rg.PUT("/me", rt.handlers.User.SetMe)
	rg.DELETE("/me", rt.handlers.User.ClearMe)
}
