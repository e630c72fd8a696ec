// Package https_server 提供本地 HTTP 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"circle_pipeline/internal/handler"
	"circle_pipeline/internal/infrastructure/logger"
	"circle_pipeline/internal/infrastructure/middleware"
	"circle_pipeline/internal/router"

	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架
)

// Init 初始化 HTTP 服务器并返回 Gin 引擎实例
// handlers: 通过依赖注入传入的 handler 聚合对象
// mode: 运行模式，dev 下跳过安全响应头检查
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则与安全响应头
//  4. 注册业务路由
func Init(handlers *handler.Handlers, mode string) *gin.Engine {
	engine := gin.New()

	// GinLogger: 记录每个请求的路径、状态码、耗时
	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 只监听本地地址
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	engine.Use(middleware.SecureHeaders(mode == "dev"))

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
