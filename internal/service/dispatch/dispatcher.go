// Package dispatch 把解码后的推送事件应用到关系缓存并对外通知
// 缓存写入先于通知完成，订阅方收到通知时读到的已是新状态
package dispatch

import (
	"context"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/gateway/pipeline"
	"circle_pipeline/internal/infrastructure/mq"
	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/constants"

	"go.uber.org/zap"
)

// FriendUpdatePayload friend-added / friend-update 通知内容
type FriendUpdatePayload struct {
	UserID string                  `json:"userId"`
	User   model.LimitedUserFriend `json:"user"`
}

// FriendRemovedPayload friend-removed 通知内容
type FriendRemovedPayload struct {
	UserID string `json:"userId"`
}

// FriendOnlinePayload friend-online / friend-active 通知内容
type FriendOnlinePayload struct {
	UserID string                  `json:"userId"`
	User   model.LimitedUserFriend `json:"user"`
}

// FriendOfflinePayload friend-offline 通知内容
type FriendOfflinePayload struct {
	UserID string `json:"userId"`
}

// Dispatcher 推送事件分发器
type Dispatcher struct {
	cache    cache.EventWriter
	notifier mq.Notifier
}

// NewDispatcher 创建分发器
func NewDispatcher(c cache.EventWriter, notifier mq.Notifier) *Dispatcher {
	return &Dispatcher{cache: c, notifier: notifier}
}

// HandleFrame 解码一帧并分发，解码失败时返回错误由调用方记录
func (d *Dispatcher) HandleFrame(ctx context.Context, frame []byte) error {
	ev, err := pipeline.Decode(frame)
	if err != nil {
		return err
	}
	d.Dispatch(ctx, ev)
	return nil
}

// Dispatch 应用单个事件
func (d *Dispatcher) Dispatch(ctx context.Context, ev pipeline.Event) {
	switch e := ev.(type) {
	// 好友
	case pipeline.FriendAdd:
		zap.L().Info("friend added", zap.String("user_id", e.UserID), zap.String("display_name", e.User.DisplayName))
		d.cache.UpsertFriend(e.User)
		payload := FriendUpdatePayload{UserID: e.UserID, User: e.User}
		d.emit(ctx, constants.NOTIFY_FRIEND_ADDED, payload)
		d.emit(ctx, constants.NOTIFY_FRIEND_UPDATE, payload)
	case pipeline.FriendDelete:
		zap.L().Info("friend removed", zap.String("user_id", e.UserID))
		d.cache.RemoveFriend(e.UserID)
		d.emit(ctx, constants.NOTIFY_FRIEND_REMOVED, FriendRemovedPayload{UserID: e.UserID})
	case pipeline.FriendUpdate:
		zap.L().Debug("friend updated", zap.String("user_id", e.UserID))
		d.cache.UpsertFriend(e.User)
		d.emit(ctx, constants.NOTIFY_FRIEND_UPDATE, FriendUpdatePayload{UserID: e.UserID, User: e.User})
	case pipeline.FriendOnline:
		zap.L().Info("friend online", zap.String("user_id", e.UserID), zap.String("display_name", e.User.DisplayName))
		d.cache.UpsertFriend(e.User)
		if e.Location != nil {
			d.cache.UpdateLocation(e.UserID, *e.Location, platformOf(e.Platform))
		}
		d.emit(ctx, constants.NOTIFY_FRIEND_ONLINE, FriendOnlinePayload{UserID: e.UserID, User: e.User})
	case pipeline.FriendActive:
		zap.L().Debug("friend active", zap.String("user_id", e.UserID))
		d.cache.UpsertFriend(e.User)
		payload := FriendOnlinePayload{UserID: e.UserID, User: e.User}
		d.emit(ctx, constants.NOTIFY_FRIEND_ACTIVE, payload)
		d.emit(ctx, constants.NOTIFY_FRIEND_ONLINE, payload)
	case pipeline.FriendOffline:
		zap.L().Info("friend offline", zap.String("user_id", e.UserID))
		d.cache.SetOffline(e.UserID)
		d.emit(ctx, constants.NOTIFY_FRIEND_OFFLINE, FriendOfflinePayload{UserID: e.UserID})
	case pipeline.FriendLocation:
		zap.L().Debug("friend location", zap.String("user_id", e.UserID), zap.String("location", e.Location))
		var platform model.Platform
		if e.User != nil {
			d.cache.UpsertFriend(*e.User)
			platform = e.User.Platform
		}
		d.cache.UpdateLocation(e.UserID, e.Location, platform)
		d.emit(ctx, constants.NOTIFY_FRIEND_LOCATION, e)

	// 当前用户
	case pipeline.UserUpdate:
		zap.L().Debug("current user update", zap.String("user_id", e.UserID))
		d.cache.ApplyCurrentUserPatch(patchFromSummary(e.User))
		d.emit(ctx, constants.NOTIFY_USER_UPDATE, e)
	case pipeline.UserLocation:
		zap.L().Debug("current user location", zap.String("user_id", e.UserID), zap.String("location", e.Location))
		var platform model.Platform
		if e.User != nil {
			d.cache.UpsertFriend(*e.User)
			platform = e.User.Platform
		}
		d.cache.UpdateLocation(e.UserID, e.Location, platform)
		d.emit(ctx, constants.NOTIFY_USER_LOCATION, e)
	case pipeline.BadgeAssigned:
		zap.L().Info("badge assigned", zap.String("badge_id", e.Badge.BadgeID))
		d.emit(ctx, constants.NOTIFY_BADGE_ASSIGNED, e)
	case pipeline.BadgeUnassigned:
		zap.L().Info("badge unassigned", zap.String("badge_id", e.BadgeID))
		d.emit(ctx, constants.NOTIFY_BADGE_UNASSIGNED, e)

	// 通知
	case pipeline.Notification:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION, e)
	case pipeline.ResponseNotification:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_RESPONSE, e)
	case pipeline.SeeNotification:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_SEE, e.NotificationID)
	case pipeline.HideNotification:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_HIDE, e.NotificationID)
	case pipeline.ClearNotification:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_CLEAR, nil)
	case pipeline.NotificationV2:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_V2, e)
	case pipeline.NotificationV2Update:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_V2_UPDATE, e)
	case pipeline.NotificationV2Delete:
		d.emit(ctx, constants.NOTIFY_NOTIFICATION_V2_DELETE, e)

	// 内容、实例与群组
	case pipeline.ContentRefresh:
		d.emit(ctx, constants.NOTIFY_CONTENT_REFRESH, e)
	case pipeline.ModifiedImageUpdate:
		d.emit(ctx, constants.NOTIFY_MODIFIED_IMAGE_UPDATE, e)
	case pipeline.InstanceQueueJoined:
		zap.L().Info("instance queue joined", zap.String("location", e.InstanceLocation), zap.Int64("position", e.Position))
		d.emit(ctx, constants.NOTIFY_QUEUE_JOINED, e)
	case pipeline.InstanceQueueReady:
		zap.L().Info("instance queue ready", zap.String("location", e.InstanceLocation))
		d.emit(ctx, constants.NOTIFY_QUEUE_READY, e)
	case pipeline.GroupJoined:
		zap.L().Info("group joined", zap.String("group_id", e.GroupID))
		d.emit(ctx, constants.NOTIFY_GROUP_JOINED, e)
	case pipeline.GroupLeft:
		zap.L().Info("group left", zap.String("group_id", e.GroupID))
		d.emit(ctx, constants.NOTIFY_GROUP_LEFT, e)
	case pipeline.GroupMemberUpdated:
		d.emit(ctx, constants.NOTIFY_GROUP_MEMBER_UPDATED, e)
	case pipeline.GroupRoleUpdated:
		d.emit(ctx, constants.NOTIFY_GROUP_ROLE_UPDATED, e)

	case pipeline.Unknown:
		zap.L().Debug("unknown pipeline event", zap.String("type", e.Type))
	default:
		zap.L().Debug("unhandled pipeline event", zap.String("kind", string(ev.Kind())))
	}
}

func (d *Dispatcher) emit(ctx context.Context, name string, payload any) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, name, payload); err != nil {
		zap.L().Warn("notify failed", zap.String("name", name), zap.Error(err))
	}
}

func platformOf(p *string) model.Platform {
	if p == nil {
		return ""
	}
	return model.Platform(*p)
}

// patchFromSummary 推送摘要转换为缓存增量
func patchFromSummary(u pipeline.PipelineUserSummary) cache.CurrentUserPatch {
	return cache.CurrentUserPatch{
		ID:                             u.ID,
		DisplayName:                    u.DisplayName,
		Username:                       u.Username,
		Status:                         u.Status,
		StatusDescription:              u.StatusDescription,
		Bio:                            u.Bio,
		UserIcon:                       u.UserIcon,
		ProfilePicOverride:             u.ProfilePicOverride,
		ProfilePicOverrideThumbnail:    u.ProfilePicOverrideThumbnailImageURL,
		CurrentAvatar:                  u.CurrentAvatar,
		CurrentAvatarImageURL:          u.CurrentAvatarImageURL,
		CurrentAvatarThumbnailImageURL: u.CurrentAvatarThumbnailImageURL,
		FallbackAvatar:                 u.FallbackAvatar,
		Tags:                           u.Tags,
	}
}

var _ pipeline.FrameHandler = (*Dispatcher)(nil)
