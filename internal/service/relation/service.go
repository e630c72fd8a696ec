// Package relation 提供关系缓存的查询与维护
// 缓存未命中统一转换为 errorx.ErrNotFound
package relation

import (
	"strings"
	"time"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/dto/respond"
	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/constants"
	"circle_pipeline/pkg/errorx"

	"go.uber.org/zap"
)

// Service 关系查询服务实现
type Service struct {
	store       cache.Store
	staleMaxAge time.Duration
}

// NewRelationService 创建关系服务
// staleMaxAge: 手动清理未指定时长时使用
func NewRelationService(store cache.Store, staleMaxAge time.Duration) *Service {
	return &Service{store: store, staleMaxAge: staleMaxAge}
}

func (s *Service) Friends() []model.LimitedUserFriend {
	return s.store.ListFriends()
}

func (s *Service) OnlineFriends() []model.LimitedUserFriend {
	return s.store.ListOnlineFriends()
}

// Friend 查询单个好友
func (s *Service) Friend(id string) (*model.LimitedUserFriend, error) {
	f, ok := s.store.GetFriend(id)
	if !ok {
		return nil, errorx.ErrNotFound
	}
	return f, nil
}

// InitializeFriends 用完整好友列表覆盖缓存中的好友集合
func (s *Service) InitializeFriends(req request.InitializeFriendsRequest) respond.CountRespond {
	n := s.store.InitializeFriends(req.Friends)
	zap.L().Info("friends initialized", zap.Int("count", n))
	return respond.CountRespond{Count: n}
}

// User 查询任意缓存用户
func (s *Service) User(id string) (*cache.CachedUser, error) {
	u, ok := s.store.GetCachedUser(id)
	if !ok {
		return nil, errorx.ErrNotFound
	}
	return u, nil
}

// Profile 查询完整资料
func (s *Service) Profile(id string) (*model.User, error) {
	u, ok := s.store.GetFullProfile(id)
	if !ok {
		return nil, errorx.ErrNotFound
	}
	return u, nil
}

// CacheProfile 写入一份完整资料
func (s *Service) CacheProfile(u model.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return errorx.New(errorx.CodeInvalidParam, "id 不能为空")
	}
	s.store.CacheFullUser(u)
	return nil
}

// Relation 用户与当前用户的关系，基于同一份条目副本作答
func (s *Service) Relation(id string) respond.RelationRespond {
	r := respond.RelationRespond{
		UserID:       id,
		Relationship: cache.RelationshipUnknown.String(),
	}
	if u, ok := s.store.GetCachedUser(id); ok {
		r.IsFriend = u.Relationship == cache.RelationshipFriend
		r.IsOnline = u.IsOnline()
		r.Relationship = u.Relationship.String()
	}
	return r
}

// Search 按显示名模糊搜索
func (s *Service) Search(req request.SearchUsersRequest) []cache.CachedUser {
	return s.store.SearchByDisplayName(req.Query)
}

// CurrentUser 当前登录用户
func (s *Service) CurrentUser() (*model.User, error) {
	u, ok := s.store.GetCurrentUser()
	if !ok {
		return nil, errorx.ErrNotFound
	}
	return u, nil
}

// SetCurrentUser 设置当前登录用户
func (s *Service) SetCurrentUser(u model.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return errorx.New(errorx.CodeInvalidParam, "id 不能为空")
	}
	s.store.SetCurrentUser(u)
	zap.L().Info("current user set", zap.String("user_id", u.ID))
	return nil
}

// ClearCurrentUser 登出
func (s *Service) ClearCurrentUser() {
	s.store.ClearCurrentUser()
}

func (s *Service) Stats() cache.Stats {
	return s.store.Stats()
}

// ClearCache 清空用户缓存，保留当前用户
func (s *Service) ClearCache() {
	s.store.ClearCache()
	zap.L().Info("relationship cache cleared")
}

// ClearAll 清空全部状态
func (s *Service) ClearAll() {
	s.store.ClearAll()
	zap.L().Info("relationship cache reset")
}

// Evict 清理超过时长未更新的非好友条目
func (s *Service) Evict(req request.EvictRequest) respond.CountRespond {
	maxAge := s.staleMaxAge
	switch {
	case req.MaxAgeSeconds > int64(constants.MAX_EVICT_AGE/time.Second):
		maxAge = constants.MAX_EVICT_AGE
	case req.MaxAgeSeconds > 0:
		maxAge = time.Duration(req.MaxAgeSeconds) * time.Second
	}
	n := s.store.EvictStale(maxAge)
	zap.L().Info("stale entries evicted", zap.Int("count", n), zap.Duration("max_age", maxAge))
	return respond.CountRespond{Count: n}
}
