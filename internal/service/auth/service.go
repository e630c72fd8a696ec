// Package auth 签发和校验本地接口使用的访问令牌
// 已签发的令牌记录在内存 TTL 缓存中，吊销即删除
package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/dto/respond"
	"circle_pipeline/pkg/constants"
	"circle_pipeline/pkg/errorx"
	"circle_pipeline/pkg/util/jwt"

	"github.com/c-pro/geche"
	"go.uber.org/zap"
)

// Service 认证服务实现
type Service struct {
	bootstrapSecret []byte
	liveTokens      geche.Geche[string, string] // tokenID -> 主体
}

// NewAuthService 创建认证服务
// bootstrapSecret 为空时不允许签发令牌，ctx 结束后停止缓存清理
func NewAuthService(ctx context.Context, bootstrapSecret string, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Service{
		bootstrapSecret: []byte(bootstrapSecret),
		liveTokens:      geche.NewMapTTLCache[string, string](ctx, expiry, time.Minute),
	}
}

// IssueToken 校验口令并签发 Access Token
func (s *Service) IssueToken(req request.TokenRequest) (*respond.TokenRespond, error) {
	if len(s.bootstrapSecret) == 0 {
		return nil, errorx.New(errorx.CodeUnauthorized, "未配置 bootstrapSecret，无法签发 Token")
	}
	if subtle.ConstantTimeCompare(s.bootstrapSecret, []byte(req.Secret)) != 1 {
		zap.L().Warn("token request rejected")
		return nil, errorx.New(errorx.CodeUnauthorized, "口令错误")
	}

	token, tokenID, expiresAt, err := jwt.GenerateAccessToken()
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "签发 Token 失败")
	}
	s.liveTokens.Set(tokenID, constants.ACCESS_TOKEN_ID)
	zap.L().Info("access token issued", zap.String("token_id", tokenID), zap.Time("expires_at", expiresAt))

	return &respond.TokenRespond{
		AccessToken: token,
		TokenID:     tokenID,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken 校验签名、Subject 以及令牌是否仍然有效
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "Token 已过期或无效")
	}
	if claims.Subject != jwt.AccessSubject {
		return nil, errorx.New(errorx.CodeUnauthorized, "请使用 Access Token 访问此接口")
	}
	if _, err := s.liveTokens.Get(claims.TokenID); err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Token 已吊销")
	}
	return claims, nil
}

// RevokeToken 吊销令牌
func (s *Service) RevokeToken(tokenID string) error {
	if _, err := s.liveTokens.Get(tokenID); err != nil {
		return errorx.ErrNotFound
	}
	if err := s.liveTokens.Del(tokenID); err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "吊销 Token 失败")
	}
	zap.L().Info("access token revoked", zap.String("token_id", tokenID))
	return nil
}
