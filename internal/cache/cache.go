// Package cache 实现用户关系缓存
// 本文件实现 RelationshipCache 的读写操作
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"circle_pipeline/internal/model"

	"go.uber.org/zap"
)

// Stats 缓存统计
type Stats struct {
	TotalCached    int  `json:"totalCached"`
	Friends        int  `json:"friends"`
	OnlineFriends  int  `json:"onlineFriends"`
	HasCurrentUser bool `json:"hasCurrentUser"`
}

// RelationshipCache 以用户 ID 为键的并发安全缓存
// users 与 currentID 各自加锁，需要同时持有时固定先 currentMu 后 usersMu
// 所有读操作返回副本
type RelationshipCache struct {
	currentMu sync.RWMutex
	currentID string

	usersMu sync.RWMutex
	users   map[string]*CachedUser

	now func() time.Time
}

// Option 构造选项
type Option func(*RelationshipCache)

// WithClock 注入时钟，用于过期判断
func WithClock(now func() time.Time) Option {
	return func(c *RelationshipCache) {
		c.now = now
	}
}

// New 创建空缓存
func New(opts ...Option) *RelationshipCache {
	c := &RelationshipCache{
		users: make(map[string]*CachedUser),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ==================== 当前用户 ====================

// SetCurrentUser 写入当前用户完整资料并更新当前用户指针
// 切换到新 ID 时旧条目保留在缓存中，降级为 Known
func (c *RelationshipCache) SetCurrentUser(u model.User) {
	c.currentMu.Lock()
	defer c.currentMu.Unlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	c.users[u.ID] = newFromUser(&u, RelationshipCurrentUser, c.now())
	c.switchCurrentLocked(u.ID)
	zap.L().Info("cache: set current user", zap.String("user_id", u.ID))
}

// GetCurrentUser 返回当前用户完整资料
func (c *RelationshipCache) GetCurrentUser() (*model.User, bool) {
	id, ok := c.CurrentUserID()
	if !ok {
		return nil, false
	}
	return c.GetFullProfile(id)
}

// CurrentUserID 返回当前用户 ID
func (c *RelationshipCache) CurrentUserID() (string, bool) {
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	return c.currentID, c.currentID != ""
}

// ClearCurrentUser 清空当前用户指针，条目保留并降级为 Known
func (c *RelationshipCache) ClearCurrentUser() {
	c.currentMu.Lock()
	defer c.currentMu.Unlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	c.switchCurrentLocked("")
	zap.L().Info("cache: cleared current user")
}

// switchCurrentLocked 移动当前用户指针，保证最多一个条目带 CurrentUser 标记
// 调用方需同时持有 currentMu 与 usersMu 的写锁
func (c *RelationshipCache) switchCurrentLocked(id string) {
	if c.currentID != "" && c.currentID != id {
		if prev, ok := c.users[c.currentID]; ok && prev.Relationship == RelationshipCurrentUser {
			prev.Relationship = RelationshipKnown
		}
	}
	c.currentID = id
}

// ApplyCurrentUserPatch 合并推送下发的当前用户增量
// 条目不存在时创建，并将当前用户指针指向 patch.ID
func (c *RelationshipCache) ApplyCurrentUserPatch(p CurrentUserPatch) {
	if p.ID == "" {
		return
	}
	c.currentMu.Lock()
	defer c.currentMu.Unlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	entry, ok := c.users[p.ID]
	if !ok {
		entry = &CachedUser{ID: p.ID}
		c.users[p.ID] = entry
	}
	p.apply(entry, c.now())
	c.switchCurrentLocked(p.ID)
}

// ==================== 好友 ====================

// InitializeFriends 批量加载好友列表，返回加载后的好友数量
// 先把所有好友降级为 Known，再逐个合并或插入
// 当前用户出现在列表中时只合并位置和状态，不改变其关系分类
func (c *RelationshipCache) InitializeFriends(friends []model.LimitedUserFriend) int {
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	now := c.now()
	for _, u := range c.users {
		if u.Relationship == RelationshipFriend {
			u.Relationship = RelationshipKnown
		}
	}

	for i := range friends {
		f := &friends[i]
		if f.ID == "" {
			continue
		}
		existing, ok := c.users[f.ID]
		switch {
		case f.ID == c.currentID:
			if ok {
				existing.mergeSelfFriend(f, now)
			}
		case ok:
			existing.mergeFriend(f, now)
			existing.Relationship = RelationshipFriend
		default:
			c.users[f.ID] = newFromFriend(f, now)
		}
	}

	count := c.countLocked(func(u *CachedUser) bool { return u.Relationship == RelationshipFriend })
	zap.L().Info("cache: initialized friends", zap.Int("friends", count))
	return count
}

// UpsertFriend 合并单个好友条目
// 当前用户只合并位置、平台和状态，条目不存在时忽略
func (c *RelationshipCache) UpsertFriend(f model.LimitedUserFriend) {
	if f.ID == "" {
		return
	}
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	now := c.now()
	existing, ok := c.users[f.ID]
	if f.ID == c.currentID {
		if ok {
			existing.mergeSelfFriend(&f, now)
		}
		return
	}
	if ok {
		existing.mergeFriend(&f, now)
		existing.Relationship = RelationshipFriend
		return
	}
	c.users[f.ID] = newFromFriend(&f, now)
}

// SetOffline 标记用户离线，条目不存在返回 false
func (c *RelationshipCache) SetOffline(id string) bool {
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	u, ok := c.users[id]
	if !ok {
		return false
	}
	u.setOffline(c.now())
	return true
}

// UpdateLocation 更新位置与平台，platform 为空表示不变
// 条目不存在时不做任何事
func (c *RelationshipCache) UpdateLocation(id, location string, platform model.Platform) bool {
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	u, ok := c.users[id]
	if !ok {
		return false
	}
	u.setLocation(location, platform, c.now())
	return true
}

// RemoveFriend 好友关系终止，降级为 Known 并清除好友数据
func (c *RelationshipCache) RemoveFriend(id string) bool {
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	u, ok := c.users[id]
	if !ok {
		zap.L().Debug("cache: remove unknown friend", zap.String("user_id", id))
		return false
	}
	u.demote(c.now())
	return true
}

// CacheFullUser 合并查询到的完整资料，不改变已有关系分类
// 条目不存在时以 Known 插入
func (c *RelationshipCache) CacheFullUser(u model.User) {
	if u.ID == "" {
		return
	}
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	now := c.now()
	if existing, ok := c.users[u.ID]; ok {
		existing.mergeUser(&u, now)
		return
	}
	c.users[u.ID] = newFromUser(&u, RelationshipKnown, now)
}

// ==================== 查询 ====================

// GetFriend 返回好友形态数据
func (c *RelationshipCache) GetFriend(id string) (*model.LimitedUserFriend, bool) {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	u, ok := c.users[id]
	if !ok || u.FriendData == nil {
		return nil, false
	}
	return u.FriendData.Clone(), true
}

// GetFullProfile 返回完整资料
func (c *RelationshipCache) GetFullProfile(id string) (*model.User, bool) {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	u, ok := c.users[id]
	if !ok || u.FullUser == nil {
		return nil, false
	}
	return u.FullUser.Clone(), true
}

// GetCachedUser 返回缓存条目副本
func (c *RelationshipCache) GetCachedUser(id string) (*CachedUser, bool) {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	u, ok := c.users[id]
	if !ok {
		return nil, false
	}
	return u.clone(), true
}

// IsFriend 是否为好友
func (c *RelationshipCache) IsFriend(id string) bool {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	u, ok := c.users[id]
	return ok && u.Relationship == RelationshipFriend
}

// IsOnline 是否在线，条目不存在视为离线
func (c *RelationshipCache) IsOnline(id string) bool {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	u, ok := c.users[id]
	return ok && u.IsOnline()
}

// ListFriends 所有好友，按显示名排序
func (c *RelationshipCache) ListFriends() []model.LimitedUserFriend {
	return c.collectFriends(func(u *CachedUser) bool { return true })
}

// ListOnlineFriends 在线好友
func (c *RelationshipCache) ListOnlineFriends() []model.LimitedUserFriend {
	return c.collectFriends(func(u *CachedUser) bool { return u.IsOnline() })
}

// OnlineFriendCount 在线好友数量
func (c *RelationshipCache) OnlineFriendCount() int {
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()
	return c.countLocked(func(u *CachedUser) bool {
		return u.Relationship == RelationshipFriend && u.IsOnline()
	})
}

// SearchByDisplayName 按显示名子串搜索，忽略大小写
func (c *RelationshipCache) SearchByDisplayName(query string) []CachedUser {
	q := strings.ToLower(query)

	c.usersMu.RLock()
	res := make([]CachedUser, 0)
	for _, u := range c.users {
		if strings.Contains(strings.ToLower(u.DisplayName), q) {
			res = append(res, *u.clone())
		}
	}
	c.usersMu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		return lessByName(res[i].DisplayName, res[i].ID, res[j].DisplayName, res[j].ID)
	})
	return res
}

// Stats 缓存统计
func (c *RelationshipCache) Stats() Stats {
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	c.usersMu.RLock()
	defer c.usersMu.RUnlock()

	s := Stats{TotalCached: len(c.users), HasCurrentUser: c.currentID != ""}
	for _, u := range c.users {
		if u.Relationship != RelationshipFriend {
			continue
		}
		s.Friends++
		if u.IsOnline() {
			s.OnlineFriends++
		}
	}
	return s
}

// ==================== 清理 ====================

// ClearCache 清空除当前用户外的所有条目
func (c *RelationshipCache) ClearCache() {
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	for id := range c.users {
		if id != c.currentID {
			delete(c.users, id)
		}
	}
	zap.L().Info("cache: cleared")
}

// ClearAll 清空全部条目与当前用户指针
func (c *RelationshipCache) ClearAll() {
	c.currentMu.Lock()
	defer c.currentMu.Unlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	c.users = make(map[string]*CachedUser)
	c.currentID = ""
	zap.L().Info("cache: cleared all")
}

// EvictStale 删除超过 maxAge 未更新的条目，当前用户与好友除外
// 返回删除数量
func (c *RelationshipCache) EvictStale(maxAge time.Duration) int {
	c.currentMu.RLock()
	defer c.currentMu.RUnlock()
	c.usersMu.Lock()
	defer c.usersMu.Unlock()

	now := c.now()
	removed := 0
	for id, u := range c.users {
		if id == c.currentID || u.Relationship == RelationshipFriend {
			continue
		}
		if u.Age(now) >= maxAge {
			delete(c.users, id)
			removed++
		}
	}
	if removed > 0 {
		zap.L().Info("cache: evicted stale entries", zap.Int("removed", removed))
	}
	return removed
}

func (c *RelationshipCache) countLocked(pred func(*CachedUser) bool) int {
	n := 0
	for _, u := range c.users {
		if pred(u) {
			n++
		}
	}
	return n
}

func (c *RelationshipCache) collectFriends(pred func(*CachedUser) bool) []model.LimitedUserFriend {
	c.usersMu.RLock()
	res := make([]model.LimitedUserFriend, 0)
	for _, u := range c.users {
		if u.Relationship != RelationshipFriend || u.FriendData == nil || !pred(u) {
			continue
		}
		res = append(res, *u.FriendData.Clone())
	}
	c.usersMu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		return lessByName(res[i].DisplayName, res[i].ID, res[j].DisplayName, res[j].ID)
	})
	return res
}

func lessByName(nameA, idA, nameB, idB string) bool {
	a, b := strings.ToLower(nameA), strings.ToLower(nameB)
	if a != b {
		return a < b
	}
	return idA < idB
}
