// Package handler 提供 HTTP 请求处理器
// 本文件处理缓存统计与清理
package handler

import (
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/service"

	"github.com/gin-gonic/gin"
)

// CacheHandler 缓存维护处理器
type CacheHandler struct {
	relationSvc service.RelationService
}

// NewCacheHandler 创建缓存维护处理器实例
func NewCacheHandler(relationSvc service.RelationService) *CacheHandler {
	return &CacheHandler{relationSvc: relationSvc}
}

// Stats GET /api/cache/stats
func (h *CacheHandler) Stats(c *gin.Context) {
	HandleSuccess(c, h.relationSvc.Stats())
}

// Clear 清空用户缓存，保留当前用户
// POST /api/cache/clear
func (h *CacheHandler) Clear(c *gin.Context) {
	h.relationSvc.ClearCache()
	HandleSuccess(c, nil)
}

// Reset 清空全部状态
// POST /api/cache/reset
func (h *CacheHandler) Reset(c *gin.Context) {
	h.relationSvc.ClearAll()
	HandleSuccess(c, nil)
}

// Evict 清理过期的非好友条目
// POST /api/cache/evict
// 请求体: request.EvictRequest，可为空
func (h *CacheHandler) Evict(c *gin.Context) {
	var req request.EvictRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
	}
	HandleSuccess(c, h.relationSvc.Evict(req))
}
