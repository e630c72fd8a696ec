package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessSubject 本地接口访问令牌的 Subject
const AccessSubject = "access_token"

const issuer = "circle_pipeline"

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration // Access Token 有效期
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string, accessExpiryMinutes int) {
	jwtConfig = &JWTConfig{
		Secret:            secret,
		AccessTokenExpiry: time.Duration(accessExpiryMinutes) * time.Minute,
	}
}

// Expiry 当前配置的令牌有效期
func Expiry() time.Duration {
	if jwtConfig == nil {
		return 0
	}
	return jwtConfig.AccessTokenExpiry
}

// Claims 自定义 JWT 声明
type Claims struct {
	TokenID string `json:"token_id"` // 用于吊销
	jwt.RegisteredClaims
}

// GenerateAccessToken 生成 Access Token
// 返回 token 字符串、tokenID 与过期时间
func GenerateAccessToken() (tokenString string, tokenID string, expiresAt time.Time, err error) {
	if jwtConfig == nil {
		return "", "", time.Time{}, errors.New("jwt not initialized")
	}
	now := time.Now()
	tokenID = uuid.NewString()
	expiresAt = now.Add(jwtConfig.AccessTokenExpiry)
	claims := Claims{
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   AccessSubject,
			ID:        tokenID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(jwtConfig.Secret))
	return
}

// ParseToken 解析并验证 Token
func ParseToken(tokenString string) (*Claims, error) {
	if jwtConfig == nil {
		return nil, errors.New("jwt not initialized")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
