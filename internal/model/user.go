// Package model 定义上游服务下发的用户数据结构
// 本文件定义完整用户资料和好友列表条目
package model

// Badge 用户徽章
type Badge struct {
	BadgeID          string `json:"badgeId"`
	BadgeName        string `json:"badgeName,omitempty"`
	BadgeDescription string `json:"badgeDescription,omitempty"`
	BadgeImageURL    string `json:"badgeImageUrl,omitempty"`
	AssignedAt       string `json:"assignedAt,omitempty"`
	Showcased        bool   `json:"showcased,omitempty"`
}

// User 完整用户资料
// 通过资料查询接口获取，username 仅对当前登录用户非空
type User struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username,omitempty"`
	DisplayName         string     `json:"displayName"`
	State               string     `json:"state,omitempty"`
	Status              UserStatus `json:"status"`
	StatusDescription   string     `json:"statusDescription"`
	Bio                 string     `json:"bio"`
	BioLinks            []string   `json:"bioLinks,omitempty"`
	Pronouns            string     `json:"pronouns,omitempty"`
	DateJoined          string     `json:"date_joined,omitempty"`
	LastLogin           string     `json:"last_login,omitempty"`
	LastActivity        string     `json:"last_activity,omitempty"`
	LastPlatform        string     `json:"last_platform,omitempty"`
	Platform            Platform   `json:"platform"`
	Location            string     `json:"location,omitempty"`
	TravelingToLocation string     `json:"travelingToLocation,omitempty"`
	HomeLocation        string     `json:"homeLocation,omitempty"`
	WorldID             string     `json:"worldId,omitempty"`
	InstanceID          string     `json:"instanceId,omitempty"`

	// 头像与展示图片
	CurrentAvatar                  string `json:"currentAvatar,omitempty"`
	FallbackAvatar                 string `json:"fallbackAvatar,omitempty"`
	CurrentAvatarImageURL          string `json:"currentAvatarImageUrl,omitempty"`
	CurrentAvatarThumbnailImageURL string `json:"currentAvatarThumbnailImageUrl,omitempty"`
	ProfilePicOverride             string `json:"profilePicOverride,omitempty"`
	ProfilePicOverrideThumbnail    string `json:"profilePicOverrideThumbnail,omitempty"`
	UserIcon                       string `json:"userIcon,omitempty"`

	Friends       []string `json:"friends,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Badges        []Badge  `json:"badges,omitempty"`
	IsFriend      bool     `json:"isFriend,omitempty"`
	DeveloperType string   `json:"developerType,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// Clone 深拷贝，切片字段不与原对象共享底层数组
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.BioLinks = cloneStrings(u.BioLinks)
	c.Friends = cloneStrings(u.Friends)
	c.Tags = cloneStrings(u.Tags)
	if u.Badges != nil {
		c.Badges = append([]Badge(nil), u.Badges...)
	}
	return &c
}

// LimitedUserFriend 好友列表条目
// 比 User 精简，缺少 username 等资料字段
type LimitedUserFriend struct {
	ID                             string     `json:"id"`
	DisplayName                    string     `json:"displayName"`
	Bio                            string     `json:"bio"`
	BioLinks                       []string   `json:"bioLinks,omitempty"`
	CurrentAvatarImageURL          string     `json:"currentAvatarImageUrl,omitempty"`
	CurrentAvatarThumbnailImageURL string     `json:"currentAvatarThumbnailImageUrl,omitempty"`
	CurrentAvatarTags              []string   `json:"currentAvatarTags,omitempty"`
	DeveloperType                  string     `json:"developerType,omitempty"`
	FriendKey                      string     `json:"friendKey,omitempty"`
	IsFriend                       bool       `json:"isFriend"`
	ImageURL                       string     `json:"imageUrl,omitempty"`
	LastPlatform                   string     `json:"last_platform,omitempty"`
	Location                       string     `json:"location,omitempty"`
	LastLogin                      string     `json:"last_login,omitempty"`
	LastActivity                   string     `json:"last_activity,omitempty"`
	LastMobile                     string     `json:"last_mobile,omitempty"`
	Platform                       Platform   `json:"platform"`
	ProfilePicOverride             string     `json:"profilePicOverride,omitempty"`
	ProfilePicOverrideThumbnail    string     `json:"profilePicOverrideThumbnail,omitempty"`
	Status                         UserStatus `json:"status"`
	StatusDescription              string     `json:"statusDescription"`
	Tags                           []string   `json:"tags,omitempty"`
	UserIcon                       string     `json:"userIcon,omitempty"`
}

// Clone 深拷贝
func (f *LimitedUserFriend) Clone() *LimitedUserFriend {
	if f == nil {
		return nil
	}
	c := *f
	c.BioLinks = cloneStrings(f.BioLinks)
	c.CurrentAvatarTags = cloneStrings(f.CurrentAvatarTags)
	c.Tags = cloneStrings(f.Tags)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
