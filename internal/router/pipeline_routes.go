package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPipelineRoutes 注册推送控制路由（需要认证）
func (rt *Router) RegisterPipelineRoutes(rg *gin.RouterGroup) {
	pipelineGroup := rg.Group("/pipeline")
	{
		pipelineGroup.GET("/status", rt.handlers.Pipeline.Status)
		pipelineGroup.PUT("/credentials", rt.handlers.Pipeline.SetCredentials)
		pipelineGroup.DELETE("/credentials", rt.handlers.Pipeline.ClearCredentials)
		pipelineGroup.POST("/start", rt.handlers.Pipeline.Start)
		pipelineGroup.POST("/stop", rt.handlers.Pipeline.Stop)
	}
}
