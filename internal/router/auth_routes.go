package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册令牌签发路由（无需认证）
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/token", rt.handlers.Auth.IssueToken)
}
