package constants

import "time"

const (
	CHANNEL_SIZE = 100 // 通道大小

	LOCATION_OFFLINE = "offline" // 离线位置哨兵值
	LOCATION_PRIVATE = "private" // 隐私位置哨兵值

	PIPELINE_ENDPOINT   = "wss://pipeline.vrchat.cloud/" // 推送服务地址
	PIPELINE_HOST       = "pipeline.vrchat.cloud"        // 推送服务 Host 头
	PIPELINE_USER_AGENT = "circle-pipeline/0.1"          // 推送连接 User-Agent

	BACKOFF_FLOOR = 2 * time.Second  // 重连退避下限
	BACKOFF_MAX   = 60 * time.Second // 重连退避上限
	IDLE_POLL     = 5 * time.Second  // 无凭据时的轮询间隔

	EVICT_INTERVAL  = 10 * time.Minute // 过期清理周期
	STALE_MAX_AGE   = time.Hour        // 非好友条目最长保留时间
	ACCESS_TOKEN_ID = "local-operator" // 本地接口 Token 的默认主体

	NOTIFY_SNAPSHOT_TTL = 24 * time.Hour // Redis 中最近一条通知的保留时长
	WS_WRITE_WAIT       = 10 * time.Second
	WS_PING_PERIOD      = 30 * time.Second
)

// MAX_EVICT_AGE 手动清理允许的最大时长，与 EvictRequest 的 lte 一致
const MAX_EVICT_AGE = 10 * 365 * 24 * time.Hour

// 对外通知名称
const (
	NOTIFY_PIPELINE_CONNECTED    = "pipeline-connected"
	NOTIFY_PIPELINE_DISCONNECTED = "pipeline-disconnected"

	NOTIFY_FRIEND_ADDED    = "friend-added"
	NOTIFY_FRIEND_REMOVED  = "friend-removed"
	NOTIFY_FRIEND_UPDATE   = "friend-update"
	NOTIFY_FRIEND_ONLINE   = "friend-online"
	NOTIFY_FRIEND_ACTIVE   = "friend-active"
	NOTIFY_FRIEND_OFFLINE  = "friend-offline"
	NOTIFY_FRIEND_LOCATION = "friend-location"
	NOTIFY_USER_UPDATE     = "user-update"
	NOTIFY_USER_LOCATION   = "user-location"

	NOTIFY_BADGE_ASSIGNED        = "user-badge-assigned"
	NOTIFY_BADGE_UNASSIGNED      = "user-badge-unassigned"
	NOTIFY_CONTENT_REFRESH       = "content-refresh"
	NOTIFY_MODIFIED_IMAGE_UPDATE = "modified-image-update"
	NOTIFY_QUEUE_JOINED          = "instance-queue-joined"
	NOTIFY_QUEUE_READY           = "instance-queue-ready"
	NOTIFY_GROUP_JOINED          = "group-joined"
	NOTIFY_GROUP_LEFT            = "group-left"
	NOTIFY_GROUP_MEMBER_UPDATED  = "group-member-updated"
	NOTIFY_GROUP_ROLE_UPDATED    = "group-role-updated"

	NOTIFY_NOTIFICATION           = "notification"
	NOTIFY_NOTIFICATION_RESPONSE  = "notification-response"
	NOTIFY_NOTIFICATION_SEE       = "notification-see"
	NOTIFY_NOTIFICATION_HIDE      = "notification-hide"
	NOTIFY_NOTIFICATION_CLEAR     = "notification-clear"
	NOTIFY_NOTIFICATION_V2        = "notification-v2"
	NOTIFY_NOTIFICATION_V2_UPDATE = "notification-v2-update"
	NOTIFY_NOTIFICATION_V2_DELETE = "notification-v2-delete"
)
