// Package cache 定义关系缓存对外暴露的接口
// 调用方按需依赖最小接口，RelationshipCache 同时实现全部接口
package cache

import (
	"time"

	"circle_pipeline/internal/model"
)

// EventWriter 推送事件分发需要的写操作
type EventWriter interface {
	UpsertFriend(f model.LimitedUserFriend)
	SetOffline(id string) bool
	UpdateLocation(id, location string, platform model.Platform) bool
	RemoveFriend(id string) bool
	ApplyCurrentUserPatch(p CurrentUserPatch)
}

// Reader 查询接口
type Reader interface {
	GetCurrentUser() (*model.User, bool)
	CurrentUserID() (string, bool)
	GetFriend(id string) (*model.LimitedUserFriend, bool)
	GetFullProfile(id string) (*model.User, bool)
	GetCachedUser(id string) (*CachedUser, bool)
	IsFriend(id string) bool
	IsOnline(id string) bool
	ListFriends() []model.LimitedUserFriend
	ListOnlineFriends() []model.LimitedUserFriend
	OnlineFriendCount() int
	SearchByDisplayName(query string) []CachedUser
	Stats() Stats
}

// Bootstrap 初始数据加载接口
type Bootstrap interface {
	SetCurrentUser(u model.User)
	ClearCurrentUser()
	InitializeFriends(friends []model.LimitedUserFriend) int
	CacheFullUser(u model.User)
}

// Maintenance 清理接口
type Maintenance interface {
	ClearCache()
	ClearAll()
	EvictStale(maxAge time.Duration) int
}

// Store 完整缓存能力
type Store interface {
	EventWriter
	Reader
	Bootstrap
	Maintenance
}

var _ Store = (*RelationshipCache)(nil)
