// Package pipeline 实现推送长连接客户端
// 本文件定义推送事件类型，每种服务端事件对应一个结构体
package pipeline

import (
	"encoding/json"

	"circle_pipeline/internal/model"
)

// EventKind 推送事件类型，取值与信封中的 type 字段一致
type EventKind string

const (
	KindNotification         EventKind = "notification"
	KindResponseNotification EventKind = "response-notification"
	KindSeeNotification      EventKind = "see-notification"
	KindHideNotification     EventKind = "hide-notification"
	KindClearNotification    EventKind = "clear-notification"
	KindNotificationV2       EventKind = "notification-v2"
	KindNotificationV2Update EventKind = "notification-v2-update"
	KindNotificationV2Delete EventKind = "notification-v2-delete"
	KindFriendAdd            EventKind = "friend-add"
	KindFriendDelete         EventKind = "friend-delete"
	KindFriendUpdate         EventKind = "friend-update"
	KindFriendOnline         EventKind = "friend-online"
	KindFriendActive         EventKind = "friend-active"
	KindFriendOffline        EventKind = "friend-offline"
	KindFriendLocation       EventKind = "friend-location"
	KindUserUpdate           EventKind = "user-update"
	KindUserLocation         EventKind = "user-location"
	KindBadgeAssigned        EventKind = "user-badge-assigned"
	KindBadgeUnassigned      EventKind = "user-badge-unassigned"
	KindContentRefresh       EventKind = "content-refresh"
	KindModifiedImageUpdate  EventKind = "modified-image-update"
	KindInstanceQueueJoined  EventKind = "instance-queue-joined"
	KindInstanceQueueReady   EventKind = "instance-queue-ready"
	KindGroupJoined          EventKind = "group-joined"
	KindGroupLeft            EventKind = "group-left"
	KindGroupMemberUpdated   EventKind = "group-member-updated"
	KindGroupRoleUpdated     EventKind = "group-role-updated"
	KindUnknown              EventKind = "unknown"
)

// Event 解码后的推送事件
// 具体类型只能是本包定义的结构体，未识别的 type 解码为 Unknown
type Event interface {
	Kind() EventKind
	isEvent()
}

// ==================== 通知 ====================

// Notification v1 通知
type Notification struct {
	ID              string          `json:"id,omitempty"`
	Type            string          `json:"type,omitempty"`
	Category        string          `json:"category,omitempty"`
	SenderUserID    string          `json:"senderUserId,omitempty"`
	SenderUsername  string          `json:"senderUsername,omitempty"`
	ReceiverUserID  string          `json:"receiverUserId,omitempty"`
	Message         string          `json:"message,omitempty"`
	Details         json.RawMessage `json:"details,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Link            string          `json:"link,omitempty"`
	LinkText        string          `json:"linkText,omitempty"`
	Seen            *bool           `json:"seen,omitempty"`
	CanRespond      *bool           `json:"canRespond,omitempty"`
	ExpiresAt       string          `json:"expiresAt,omitempty"`
	ExpiryAfterSeen *int64          `json:"expiryAfterSeen,omitempty"`
	RequireSeen     *bool           `json:"requireSeen,omitempty"`
	HideAfterSeen   *bool           `json:"hideAfterSeen,omitempty"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

// ResponseNotification 通知已被响应
type ResponseNotification struct {
	NotificationID string `json:"notificationId" validate:"required"`
	ReceiverID     string `json:"receiverId"`
	ResponseID     string `json:"responseId"`
}

// SeeNotification 通知已读，content 为通知 ID
type SeeNotification struct {
	NotificationID string `json:"notificationId"`
}

// HideNotification 通知隐藏，content 为通知 ID
type HideNotification struct {
	NotificationID string `json:"notificationId"`
}

// ClearNotification 清空通知，无 content
type ClearNotification struct{}

// NotificationV2Response v2 通知上的可选操作
type NotificationV2Response struct {
	Type string `json:"type,omitempty"`
	Data string `json:"data,omitempty"`
	Icon string `json:"icon,omitempty"`
	Text string `json:"text,omitempty"`
}

// NotificationV2 v2 通知
type NotificationV2 struct {
	ID                     string                   `json:"id" validate:"required"`
	Version                int                      `json:"version"`
	Type                   string                   `json:"type"`
	Category               string                   `json:"category"`
	IsSystem               bool                     `json:"isSystem"`
	IgnoreDND              bool                     `json:"ignoreDND"`
	SenderUserID           string                   `json:"senderUserId,omitempty"`
	SenderUsername         string                   `json:"senderUsername,omitempty"`
	ReceiverUserID         string                   `json:"receiverUserId"`
	RelatedNotificationsID string                   `json:"relatedNotificationsId,omitempty"`
	Title                  string                   `json:"title,omitempty"`
	Message                string                   `json:"message,omitempty"`
	ImageURL               string                   `json:"imageUrl,omitempty"`
	Link                   string                   `json:"link,omitempty"`
	LinkText               string                   `json:"linkText,omitempty"`
	Responses              []NotificationV2Response `json:"responses,omitempty"`
	ExpiresAt              string                   `json:"expiresAt,omitempty"`
	ExpiryAfterSeen        *int64                   `json:"expiryAfterSeen,omitempty"`
	RequireSeen            *bool                    `json:"requireSeen,omitempty"`
	Seen                   *bool                    `json:"seen,omitempty"`
	CanDelete              *bool                    `json:"canDelete,omitempty"`
	CreatedAt              string                   `json:"createdAt,omitempty"`
	UpdatedAt              string                   `json:"updatedAt,omitempty"`
}

// NotificationV2Update v2 通知字段更新
type NotificationV2Update struct {
	ID      string                     `json:"id" validate:"required"`
	Version int                        `json:"version"`
	Updates map[string]json.RawMessage `json:"updates"`
}

// NotificationV2Delete v2 通知删除
type NotificationV2Delete struct {
	IDs     []string `json:"ids"`
	Version int      `json:"version"`
}

// ==================== 好友 ====================

// FriendAdd 新增好友
type FriendAdd struct {
	UserID string                  `json:"userId" validate:"required"`
	User   model.LimitedUserFriend `json:"user"`
}

// FriendDelete 好友关系解除
type FriendDelete struct {
	UserID string `json:"userId" validate:"required"`
}

// FriendUpdate 好友资料变化
type FriendUpdate struct {
	UserID string                  `json:"userId" validate:"required"`
	User   model.LimitedUserFriend `json:"user"`
}

// FriendOnline 好友上线，location 与 platform 可能缺失
type FriendOnline struct {
	UserID           string                  `json:"userId" validate:"required"`
	Platform         *string                 `json:"platform,omitempty"`
	Location         *string                 `json:"location,omitempty"`
	CanRequestInvite *bool                   `json:"canRequestInvite,omitempty"`
	User             model.LimitedUserFriend `json:"user"`
}

// FriendActive 好友在网页端活跃
// 上游字段名为 userid，encoding/json 大小写不敏感匹配同样接受 userId
type FriendActive struct {
	UserID   string                  `json:"userid" validate:"required"`
	Platform *string                 `json:"platform,omitempty"`
	User     model.LimitedUserFriend `json:"user"`
}

// FriendOffline 好友离线
type FriendOffline struct {
	UserID   string  `json:"userId" validate:"required"`
	Platform *string `json:"platform,omitempty"`
}

// FriendLocation 好友位置变化
type FriendLocation struct {
	UserID              string                   `json:"userId" validate:"required"`
	Location            string                   `json:"location"`
	TravelingToLocation string                   `json:"travelingToLocation,omitempty"`
	WorldID             string                   `json:"worldId,omitempty"`
	CanRequestInvite    *bool                    `json:"canRequestInvite,omitempty"`
	User                *model.LimitedUserFriend `json:"user,omitempty"`
}

// ==================== 当前用户 ====================

// PipelineUserSummary user-update 携带的当前用户摘要
// 指针字段为 nil 表示本次未携带
type PipelineUserSummary struct {
	ID                                  string   `json:"id" validate:"required"`
	Bio                                 *string  `json:"bio,omitempty"`
	CurrentAvatar                       *string  `json:"currentAvatar,omitempty"`
	CurrentAvatarAssetURL               *string  `json:"currentAvatarAssetUrl,omitempty"`
	CurrentAvatarImageURL               *string  `json:"currentAvatarImageUrl,omitempty"`
	CurrentAvatarThumbnailImageURL      *string  `json:"currentAvatarThumbnailImageUrl,omitempty"`
	DisplayName                         *string  `json:"displayName,omitempty"`
	FallbackAvatar                      *string  `json:"fallbackAvatar,omitempty"`
	ProfilePicOverride                  *string  `json:"profilePicOverride,omitempty"`
	ProfilePicOverrideThumbnailImageURL *string  `json:"profilePicOverrideThumbnailImageUrl,omitempty"`
	Status                              *string  `json:"status,omitempty"`
	StatusDescription                   *string  `json:"statusDescription,omitempty"`
	Tags                                []string `json:"tags,omitempty"`
	UserIcon                            *string  `json:"userIcon,omitempty"`
	Username                            *string  `json:"username,omitempty"`
}

// UserUpdate 当前用户资料变化
type UserUpdate struct {
	UserID string              `json:"userId" validate:"required"`
	User   PipelineUserSummary `json:"user"`
}

// UserLocation 当前用户位置变化
type UserLocation struct {
	UserID              string                   `json:"userId" validate:"required"`
	User                *model.LimitedUserFriend `json:"user,omitempty"`
	Location            string                   `json:"location"`
	Instance            string                   `json:"instance,omitempty"`
	TravelingToLocation string                   `json:"travelingToLocation,omitempty"`
}

// BadgeAssigned 获得徽章
type BadgeAssigned struct {
	Badge model.Badge `json:"badge"`
}

// BadgeUnassigned 徽章被移除
type BadgeUnassigned struct {
	BadgeID string `json:"badgeId" validate:"required"`
}

// ==================== 内容与实例 ====================

// ContentRefresh 内容（头像、世界、图片等）需要刷新
type ContentRefresh struct {
	ContentType string `json:"contentType" validate:"required"`
	FileID      string `json:"fileId,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	ItemType    string `json:"itemType,omitempty"`
	ActionType  string `json:"actionType,omitempty"`
}

// ModifiedImageUpdate 图片处理完成
type ModifiedImageUpdate struct {
	FileID          string `json:"fileId" validate:"required"`
	PixelSize       int64  `json:"pixelSize"`
	VersionNumber   int64  `json:"versionNumber"`
	NeedsProcessing bool   `json:"needsProcessing"`
}

// InstanceQueueJoined 进入实例排队
type InstanceQueueJoined struct {
	InstanceLocation string `json:"instanceLocation" validate:"required"`
	Position         int64  `json:"position"`
}

// InstanceQueueReady 排队完成可进入实例
type InstanceQueueReady struct {
	InstanceLocation string `json:"instanceLocation" validate:"required"`
	Expiry           string `json:"expiry"`
}

// ==================== 群组 ====================

// GroupJoined 加入群组
type GroupJoined struct {
	GroupID string `json:"groupId" validate:"required"`
}

// GroupLeft 离开群组
type GroupLeft struct {
	GroupID string `json:"groupId" validate:"required"`
}

// GroupMemberUpdated 群成员信息变化，member 原样透传
type GroupMemberUpdated struct {
	Member json.RawMessage `json:"member"`
}

// GroupRoleUpdated 群角色变化，role 原样透传
type GroupRoleUpdated struct {
	Role json.RawMessage `json:"role"`
}

// Unknown 未识别的事件类型
type Unknown struct {
	Type string `json:"type"`
}

func (Notification) Kind() EventKind         { return KindNotification }
func (ResponseNotification) Kind() EventKind { return KindResponseNotification }
func (SeeNotification) Kind() EventKind      { return KindSeeNotification }
func (HideNotification) Kind() EventKind     { return KindHideNotification }
func (ClearNotification) Kind() EventKind    { return KindClearNotification }
func (NotificationV2) Kind() EventKind       { return KindNotificationV2 }
func (NotificationV2Update) Kind() EventKind { return KindNotificationV2Update }
func (NotificationV2Delete) Kind() EventKind { return KindNotificationV2Delete }
func (FriendAdd) Kind() EventKind            { return KindFriendAdd }
func (FriendDelete) Kind() EventKind         { return KindFriendDelete }
func (FriendUpdate) Kind() EventKind         { return KindFriendUpdate }
func (FriendOnline) Kind() EventKind         { return KindFriendOnline }
func (FriendActive) Kind() EventKind         { return KindFriendActive }
func (FriendOffline) Kind() EventKind        { return KindFriendOffline }
func (FriendLocation) Kind() EventKind       { return KindFriendLocation }
func (UserUpdate) Kind() EventKind           { return KindUserUpdate }
func (UserLocation) Kind() EventKind         { return KindUserLocation }
func (BadgeAssigned) Kind() EventKind        { return KindBadgeAssigned }
func (BadgeUnassigned) Kind() EventKind      { return KindBadgeUnassigned }
func (ContentRefresh) Kind() EventKind       { return KindContentRefresh }
func (ModifiedImageUpdate) Kind() EventKind  { return KindModifiedImageUpdate }
func (InstanceQueueJoined) Kind() EventKind  { return KindInstanceQueueJoined }
func (InstanceQueueReady) Kind() EventKind   { return KindInstanceQueueReady }
func (GroupJoined) Kind() EventKind          { return KindGroupJoined }
func (GroupLeft) Kind() EventKind            { return KindGroupLeft }
func (GroupMemberUpdated) Kind() EventKind   { return KindGroupMemberUpdated }
func (GroupRoleUpdated) Kind() EventKind     { return KindGroupRoleUpdated }
func (Unknown) Kind() EventKind              { return KindUnknown }

func (Notification) isEvent()         {}
func (ResponseNotification) isEvent() {}
func (SeeNotification) isEvent()      {}
func (HideNotification) isEvent()     {}
func (ClearNotification) isEvent()    {}
func (NotificationV2) isEvent()       {}
func (NotificationV2Update) isEvent() {}
func (NotificationV2Delete) isEvent() {}
func (FriendAdd) isEvent()            {}
func (FriendDelete) isEvent()         {}
func (FriendUpdate) isEvent()         {}
func (FriendOnline) isEvent()         {}
func (FriendActive) isEvent()         {}
func (FriendOffline) isEvent()        {}
func (FriendLocation) isEvent()       {}
func (UserUpdate) isEvent()           {}
func (UserLocation) isEvent()         {}
func (BadgeAssigned) isEvent()        {}
func (BadgeUnassigned) isEvent()      {}
func (ContentRefresh) isEvent()       {}
func (ModifiedImageUpdate) isEvent()  {}
func (InstanceQueueJoined) isEvent()  {}
func (InstanceQueueReady) isEvent()   {}
func (GroupJoined) isEvent()          {}
func (GroupLeft) isEvent()            {}
func (GroupMemberUpdated) isEvent()   {}
func (GroupRoleUpdated) isEvent()     {}
func (Unknown) isEvent()              {}
