// Package cache 实现用户关系缓存
// 本文件定义缓存条目及其合并规则
package cache

import (
	"time"

	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/constants"
)

// Relationship 缓存对某个用户的关系分类
type Relationship int

const (
	RelationshipUnknown Relationship = iota
	RelationshipCurrentUser
	RelationshipFriend
	RelationshipKnown
)

func (r Relationship) String() string {
	switch r {
	case RelationshipCurrentUser:
		return "current_user"
	case RelationshipFriend:
		return "friend"
	case RelationshipKnown:
		return "known"
	default:
		return "unknown"
	}
}

// MarshalText 接口层以字符串形式输出
func (r Relationship) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CachedUser 单个用户的缓存条目
// Location 为空、offline 或 private 时视为不在线
type CachedUser struct {
	ID                             string                   `json:"id"`
	DisplayName                    string                   `json:"displayName"`
	Username                       string                   `json:"username,omitempty"`
	UserIcon                       string                   `json:"userIcon,omitempty"`
	ProfilePicOverride             string                   `json:"profilePicOverride,omitempty"`
	ProfilePicOverrideThumbnail    string                   `json:"profilePicOverrideThumbnail,omitempty"`
	CurrentAvatarImageURL          string                   `json:"currentAvatarImageUrl,omitempty"`
	CurrentAvatarThumbnailImageURL string                   `json:"currentAvatarThumbnailImageUrl,omitempty"`
	Bio                            string                   `json:"bio"`
	Status                         model.UserStatus         `json:"status"`
	StatusDescription              string                   `json:"statusDescription"`
	Location                       string                   `json:"location,omitempty"`
	Platform                       model.Platform           `json:"platform,omitempty"`
	Relationship                   Relationship             `json:"relationship"`
	FullUser                       *model.User              `json:"fullUser,omitempty"`
	FriendData                     *model.LimitedUserFriend `json:"friendData,omitempty"`
	LastUpdated                    time.Time                `json:"lastUpdated"`
}

// IsOnline 根据位置判断是否在线
func (u *CachedUser) IsOnline() bool {
	return isOnlineLocation(u.Location)
}

// Age 条目距上次更新的时长
func (u *CachedUser) Age(now time.Time) time.Duration {
	return now.Sub(u.LastUpdated)
}

func (u *CachedUser) clone() *CachedUser {
	c := *u
	c.FullUser = u.FullUser.Clone()
	c.FriendData = u.FriendData.Clone()
	return &c
}

func isOnlineLocation(loc string) bool {
	return loc != "" && loc != constants.LOCATION_OFFLINE && loc != constants.LOCATION_PRIVATE
}

func newFromFriend(f *model.LimitedUserFriend, now time.Time) *CachedUser {
	u := &CachedUser{ID: f.ID, Relationship: RelationshipFriend}
	u.mergeFriend(f, now)
	return u
}

func newFromUser(p *model.User, rel Relationship, now time.Time) *CachedUser {
	u := &CachedUser{ID: p.ID, Relationship: rel}
	u.mergeUser(p, now)
	return u
}

// mergeFriend 用好友条目覆盖展示字段，不改变关系分类
func (u *CachedUser) mergeFriend(f *model.LimitedUserFriend, now time.Time) {
	u.DisplayName = f.DisplayName
	u.UserIcon = f.UserIcon
	u.ProfilePicOverride = f.ProfilePicOverride
	u.ProfilePicOverrideThumbnail = f.ProfilePicOverrideThumbnail
	u.CurrentAvatarImageURL = f.CurrentAvatarImageURL
	u.CurrentAvatarThumbnailImageURL = f.CurrentAvatarThumbnailImageURL
	u.Bio = f.Bio
	u.Status = f.Status
	u.StatusDescription = f.StatusDescription
	u.Location = f.Location
	u.Platform = f.Platform
	u.FriendData = f.Clone()
	u.LastUpdated = now
}

// mergeSelfFriend 当前用户收到好友形态数据时只合并位置和状态
// username 与 bio 以完整资料为准
func (u *CachedUser) mergeSelfFriend(f *model.LimitedUserFriend, now time.Time) {
	if f.Location != "" {
		u.Location = f.Location
		if u.FullUser != nil {
			u.FullUser.Location = f.Location
		}
	}
	if !f.Platform.IsEmpty() {
		u.Platform = f.Platform
		if u.FullUser != nil {
			u.FullUser.Platform = f.Platform
		}
	}
	u.Status = f.Status
	if u.FullUser != nil {
		u.FullUser.Status = f.Status
	}
	if f.StatusDescription != "" {
		u.StatusDescription = f.StatusDescription
		if u.FullUser != nil {
			u.FullUser.StatusDescription = f.StatusDescription
		}
	}
	u.FriendData = f.Clone()
	u.LastUpdated = now
}

// mergeUser 用完整资料覆盖字段，空 username 不覆盖已有值
func (u *CachedUser) mergeUser(p *model.User, now time.Time) {
	u.DisplayName = p.DisplayName
	if p.Username != "" {
		u.Username = p.Username
	}
	u.UserIcon = p.UserIcon
	u.ProfilePicOverride = p.ProfilePicOverride
	u.ProfilePicOverrideThumbnail = p.ProfilePicOverrideThumbnail
	u.CurrentAvatarImageURL = p.CurrentAvatarImageURL
	u.CurrentAvatarThumbnailImageURL = p.CurrentAvatarThumbnailImageURL
	u.Bio = p.Bio
	u.Status = p.Status
	u.StatusDescription = p.StatusDescription
	u.Location = p.Location
	u.Platform = p.Platform
	u.FullUser = p.Clone()
	if u.FullUser.Username == "" {
		u.FullUser.Username = u.Username
	}
	u.LastUpdated = now
}

// setOffline 位置置为 offline，好友数据中的平台清空
func (u *CachedUser) setOffline(now time.Time) {
	u.Location = constants.LOCATION_OFFLINE
	u.LastUpdated = now
	if u.FriendData != nil {
		u.FriendData.Location = constants.LOCATION_OFFLINE
		u.FriendData.Platform = ""
	}
}

// setLocation 更新位置，平台为空表示本次未携带
// 好友数据中的平台字段同步为原始字符串
func (u *CachedUser) setLocation(location string, platform model.Platform, now time.Time) {
	u.Location = location
	if !platform.IsEmpty() {
		u.Platform = platform
	}
	u.LastUpdated = now
	if u.FriendData != nil {
		u.FriendData.Location = location
		if !u.Platform.IsEmpty() {
			u.FriendData.Platform = u.Platform
		}
	}
}

// demote 好友关系终止，保留资料
func (u *CachedUser) demote(now time.Time) {
	u.Relationship = RelationshipKnown
	u.FriendData = nil
	u.Location = ""
	u.Platform = ""
	u.LastUpdated = now
}
