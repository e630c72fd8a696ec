package middleware

import (
	"errors"
	"net/http"
	"strings"

	"circle_pipeline/pkg/errorx"
	"circle_pipeline/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextTokenID 上下文中保存 tokenID 的键
const ContextTokenID = "token_id"

// TokenValidator 校验 Access Token
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将 tokenID 存入上下文
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token，WebSocket 客户端可用 query 传入
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if token := c.Query("token"); token != "" {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "缺少 Token",
			})
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "Token 格式错误，请使用 Bearer Token",
			})
			return
		}

		// 3. 验证 Token
		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			msg := "Token 已过期或无效"
			var codeErr *errorx.CodeError
			if errors.As(err, &codeErr) {
				msg = codeErr.Msg
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  msg,
			})
			return
		}

		c.Set(ContextTokenID, claims.TokenID)
		c.Next()
	}
}
