// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/dto/respond"
	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/util/jwt"
)

// RelationService 关系缓存查询与维护
type RelationService interface {
	// Friends 全部好友，按显示名排序
	Friends() []model.LimitedUserFriend
	// OnlineFriends 在线好友
	OnlineFriends() []model.LimitedUserFriend
	// Friend 单个好友
	Friend(id string) (*model.LimitedUserFriend, error)
	// InitializeFriends 覆盖加载好友列表
	InitializeFriends(req request.InitializeFriendsRequest) respond.CountRespond
	// User 任意缓存用户
	User(id string) (*cache.CachedUser, error)
	// Profile 完整资料
	Profile(id string) (*model.User, error)
	// CacheProfile 写入完整资料
	CacheProfile(u model.User) error
	// Relation 与当前用户的关系
	Relation(id string) respond.RelationRespond
	// Search 按显示名搜索
	Search(req request.SearchUsersRequest) []cache.CachedUser
	CurrentUser() (*model.User, error)
	SetCurrentUser(u model.User) error
	ClearCurrentUser()
	Stats() cache.Stats
	ClearCache()
	ClearAll()
	// Evict 清理过期的非好友条目
	Evict(req request.EvictRequest) respond.CountRespond
}

// PipelineService 推送连接控制
type PipelineService interface {
	SetCredentials(req request.SetCredentialsRequest) *respond.PipelineStatusRespond
	ClearCredentials() *respond.PipelineStatusRespond
	Start() (*respond.PipelineStatusRespond, error)
	Stop() *respond.PipelineStatusRespond
	Status() *respond.PipelineStatusRespond
}

// AuthService 本地接口令牌
type AuthService interface {
	// IssueToken 凭口令签发 Token
	IssueToken(req request.TokenRequest) (*respond.TokenRespond, error)
	// ValidateToken 供中间件校验 Token
	ValidateToken(token string) (*jwt.Claims, error)
	// RevokeToken 吊销 Token
	RevokeToken(tokenID string) error
}
