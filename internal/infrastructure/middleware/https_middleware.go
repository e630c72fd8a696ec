package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// SecureHeaders 为本地接口加上安全响应头
// dev 模式下 secure 跳过全部检查
func SecureHeaders(dev bool) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      dev,
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			// 不能用 Fatal，记录后终止当前请求
			zap.L().Error("secure headers rejected request", zap.Error(err))
			c.Abort()
			return
		}
		c.Next()
	}
}
