// Package handler 提供 HTTP 请求处理器
// 本文件处理本地接口令牌的签发与吊销
package handler

import (
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/infrastructure/middleware"
	"circle_pipeline/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 令牌请求处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建令牌处理器实例
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// IssueToken 凭口令换取 Access Token
// POST /auth/token
// 请求体: request.TokenRequest
// 响应: respond.TokenRespond
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req request.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.IssueToken(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RevokeToken 吊销当前请求使用的 Token
// POST /api/auth/revoke
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	if err := h.authSvc.RevokeToken(c.GetString(middleware.ContextTokenID)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
