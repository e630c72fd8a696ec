package request

// SetCredentialsRequest 设置推送连接凭据
// 使用位置:
//   - internal/handler/pipeline_handler.go: SetCredentials
//   - internal/service/control/service.go: SetCredentials
// AuthCookie 格式由 handler 注册的 authcookie 标签校验
type SetCredentialsRequest struct {
	AuthCookie      string `json:"authCookie" binding:"required,authcookie"`
	TwoFactorCookie string `json:"twoFactorCookie"`
	Start           bool   `json:"start"` // 设置后立即启动推送循环
}
