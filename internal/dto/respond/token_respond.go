package respond

import "time"

// TokenRespond 本地接口 Token
// 使用位置:
//   - internal/service/auth/service.go: IssueToken
type TokenRespond struct {
	AccessToken string    `json:"access_token"`
	TokenID     string    `json:"token_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}
