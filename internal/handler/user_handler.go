// Package handler 提供 HTTP 请求处理器
// 本文件处理缓存用户与当前用户相关的 API 请求
package handler

import (
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/model"
	"circle_pipeline/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户请求处理器
type UserHandler struct {
	relationSvc service.RelationService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(relationSvc service.RelationService) *UserHandler {
	return &UserHandler{relationSvc: relationSvc}
}

// Get 缓存中的用户条目
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	data, err := h.relationSvc.User(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Profile 完整资料
// GET /api/users/:id/profile
func (h *UserHandler) Profile(c *gin.Context) {
	data, err := h.relationSvc.Profile(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Relation 与当前用户的关系
// GET /api/users/:id/relation
func (h *UserHandler) Relation(c *gin.Context) {
	HandleSuccess(c, h.relationSvc.Relation(c.Param("id")))
}

// Search 按显示名搜索
// GET /api/users/search?q=xxx
func (h *UserHandler) Search(c *gin.Context) {
	var req request.SearchUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	HandleSuccess(c, h.relationSvc.Search(req))
}

// CacheProfile 写入完整资料
// POST /api/users
// 请求体: model.User
func (h *UserHandler) CacheProfile(c *gin.Context) {
	var u model.User
	if err := c.ShouldBindJSON(&u); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.relationSvc.CacheProfile(u); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Me 当前用户
// GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	data, err := h.relationSvc.CurrentUser()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetMe 设置当前用户
// PUT /api/me
// 请求体: model.User
func (h *UserHandler) SetMe(c *gin.Context) {
	var u model.User
	if err := c.ShouldBindJSON(&u); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.relationSvc.SetCurrentUser(u); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ClearMe 登出当前用户
// DELETE /api/me
func (h *UserHandler) ClearMe(c *gin.Context) {
	h.relationSvc.ClearCurrentUser()
	HandleSuccess(c, nil)
}
