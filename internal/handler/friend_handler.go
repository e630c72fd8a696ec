// Package handler 提供 HTTP 请求处理器
// 本文件处理好友查询与好友列表加载
package handler

import (
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友请求处理器
type FriendHandler struct {
	relationSvc service.RelationService
}

// NewFriendHandler 创建好友处理器实例
func NewFriendHandler(relationSvc service.RelationService) *FriendHandler {
	return &FriendHandler{relationSvc: relationSvc}
}

// List 全部好友
// GET /api/friends
func (h *FriendHandler) List(c *gin.Context) {
	HandleSuccess(c, h.relationSvc.Friends())
}

// Online 在线好友
// GET /api/friends/online
func (h *FriendHandler) Online(c *gin.Context) {
	HandleSuccess(c, h.relationSvc.OnlineFriends())
}

// Get 单个好友
// GET /api/friends/:id
func (h *FriendHandler) Get(c *gin.Context) {
	data, err := h.relationSvc.Friend(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Initialize 用完整好友列表覆盖缓存
// POST /api/friends
// 请求体: request.InitializeFriendsRequest
// 响应: respond.CountRespond
func (h *FriendHandler) Initialize(c *gin.Context) {
	var req request.InitializeFriendsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	HandleSuccess(c, h.relationSvc.InitializeFriends(req))
}
