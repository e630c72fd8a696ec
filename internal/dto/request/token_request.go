package request

// TokenRequest 换取本地接口 Token
// 使用位置:
//   - internal/handler/auth_handler.go: IssueToken
type TokenRequest struct {
	Secret string `json:"secret" binding:"required"`
}
