package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterCacheRoutes 注册缓存维护路由（需要认证）
func (rt *Router) RegisterCacheRoutes(rg *gin.RouterGroup) {
	cacheGroup := rg.Group("/cache")
	{
		cacheGroup.GET("/stats", rt.handlers.Cache.Stats)
		cacheGroup.POST("/clear", rt.handlers.Cache.Clear)
		cacheGroup.POST("/reset", rt.handlers.Cache.Reset)
		cacheGroup.POST("/evict", rt.handlers.Cache.Evict)
	}
}
