// Package handler 提供 HTTP 请求处理器
// 本文件处理推送连接的控制请求
package handler

import (
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/service"

	"github.com/gin-gonic/gin"
)

// PipelineHandler 推送控制处理器
type PipelineHandler struct {
	pipelineSvc service.PipelineService
}

// NewPipelineHandler 创建推送控制处理器实例
func NewPipelineHandler(pipelineSvc service.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineSvc: pipelineSvc}
}

// SetCredentials 设置凭据
// PUT /api/pipeline/credentials
// 请求体: request.SetCredentialsRequest
// 响应: respond.PipelineStatusRespond
func (h *PipelineHandler) SetCredentials(c *gin.Context) {
	var req request.SetCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	HandleSuccess(c, h.pipelineSvc.SetCredentials(req))
}

// ClearCredentials DELETE /api/pipeline/credentials
func (h *PipelineHandler) ClearCredentials(c *gin.Context) {
	HandleSuccess(c, h.pipelineSvc.ClearCredentials())
}

// Start POST /api/pipeline/start
func (h *PipelineHandler) Start(c *gin.Context) {
	data, err := h.pipelineSvc.Start()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Stop POST /api/pipeline/stop
func (h *PipelineHandler) Stop(c *gin.Context) {
	HandleSuccess(c, h.pipelineSvc.Stop())
}

// Status GET /api/pipeline/status
func (h *PipelineHandler) Status(c *gin.Context) {
	HandleSuccess(c, h.pipelineSvc.Status())
}
