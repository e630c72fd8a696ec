// Package pipeline 实现推送长连接客户端
// 本文件负责把一帧文本消息解码为 Event
package pipeline

import (
	"encoding/json"
	"reflect"

	"circle_pipeline/pkg/errorx"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// envelopeKind 信封本身解析失败时 DecodeError 使用的类型名
const envelopeKind EventKind = "envelope"

// DecodeError 已知事件类型的 content 无法解码
type DecodeError struct {
	Kind EventKind
	*errorx.CodeError
}

// Unwrap 返回内部 CodeError，errorx.GetCode 可取到 CodeDecodeError
func (e *DecodeError) Unwrap() error {
	return e.CodeError
}

func newDecodeError(kind EventKind, err error) *DecodeError {
	return &DecodeError{
		Kind:      kind,
		CodeError: errorx.Wrapf(err, errorx.CodeDecodeError, "decode %s payload", kind),
	}
}

var payloadValidator = validator.New()

type decodeFunc func(content gjson.Result) (Event, error)

// decoders 已知事件类型表，未列出的类型解码为 Unknown
var decoders = map[EventKind]decodeFunc{
	KindNotification:         decodeAs[Notification](KindNotification),
	KindResponseNotification: decodeAs[ResponseNotification](KindResponseNotification),
	KindSeeNotification: func(content gjson.Result) (Event, error) {
		id, err := decodeContent[string](KindSeeNotification, content)
		if err != nil {
			return nil, err
		}
		return SeeNotification{NotificationID: id}, nil
	},
	KindHideNotification: func(content gjson.Result) (Event, error) {
		id, err := decodeContent[string](KindHideNotification, content)
		if err != nil {
			return nil, err
		}
		return HideNotification{NotificationID: id}, nil
	},
	KindClearNotification: func(gjson.Result) (Event, error) {
		return ClearNotification{}, nil
	},
	KindNotificationV2:       decodeAs[NotificationV2](KindNotificationV2),
	KindNotificationV2Update: decodeAs[NotificationV2Update](KindNotificationV2Update),
	KindNotificationV2Delete: decodeAs[NotificationV2Delete](KindNotificationV2Delete),
	KindFriendAdd:            decodeAs[FriendAdd](KindFriendAdd),
	KindFriendDelete:         decodeAs[FriendDelete](KindFriendDelete),
	KindFriendUpdate:         decodeAs[FriendUpdate](KindFriendUpdate),
	KindFriendOnline:         decodeAs[FriendOnline](KindFriendOnline),
	KindFriendActive:         decodeAs[FriendActive](KindFriendActive),
	KindFriendOffline:        decodeAs[FriendOffline](KindFriendOffline),
	KindFriendLocation:       decodeAs[FriendLocation](KindFriendLocation),
	KindUserUpdate:           decodeAs[UserUpdate](KindUserUpdate),
	KindUserLocation:         decodeAs[UserLocation](KindUserLocation),
	KindBadgeAssigned:        decodeAs[BadgeAssigned](KindBadgeAssigned),
	KindBadgeUnassigned:      decodeAs[BadgeUnassigned](KindBadgeUnassigned),
	KindContentRefresh:       decodeAs[ContentRefresh](KindContentRefresh),
	KindModifiedImageUpdate:  decodeAs[ModifiedImageUpdate](KindModifiedImageUpdate),
	KindInstanceQueueJoined:  decodeAs[InstanceQueueJoined](KindInstanceQueueJoined),
	KindInstanceQueueReady:   decodeAs[InstanceQueueReady](KindInstanceQueueReady),
	KindGroupJoined:          decodeAs[GroupJoined](KindGroupJoined),
	KindGroupLeft:            decodeAs[GroupLeft](KindGroupLeft),
	KindGroupMemberUpdated:   decodeAs[GroupMemberUpdated](KindGroupMemberUpdated),
	KindGroupRoleUpdated:     decodeAs[GroupRoleUpdated](KindGroupRoleUpdated),
}

// Decode 解析一帧 {"type": ..., "content": ...} 消息
// 未识别的 type 返回 Unknown，不视为错误
func Decode(frame []byte) (Event, error) {
	if !gjson.ValidBytes(frame) {
		return nil, newDecodeError(envelopeKind, errorx.New(errorx.CodeDecodeError, "frame is not valid json"))
	}
	envelope := gjson.ParseBytes(frame)
	if !envelope.IsObject() {
		return nil, newDecodeError(envelopeKind, errorx.New(errorx.CodeDecodeError, "frame is not a json object"))
	}
	typ := envelope.Get("type")
	if typ.Type != gjson.String {
		return nil, newDecodeError(envelopeKind, errorx.New(errorx.CodeDecodeError, "missing string field \"type\""))
	}

	decode, ok := decoders[EventKind(typ.String())]
	if !ok {
		return Unknown{Type: typ.String()}, nil
	}
	return decode(envelope.Get("content"))
}

func decodeAs[T Event](kind EventKind) decodeFunc {
	return func(content gjson.Result) (Event, error) {
		v, err := decodeContent[T](kind, content)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// decodeContent 处理上游把 payload 再次 JSON 编码成字符串的情况
// content 为字符串且其内容本身是合法 JSON 时先按内层解码，失败再按原值解码
// 其余情况直接按原值解码
func decodeContent[T any](kind EventKind, content gjson.Result) (T, error) {
	var zero T
	if !content.Exists() {
		return zero, newDecodeError(kind, errorx.New(errorx.CodeDecodeError, "missing field \"content\""))
	}

	if content.Type == gjson.String {
		if inner := content.String(); gjson.Valid(inner) {
			var v T
			if innerErr := unmarshalPayload([]byte(inner), &v); innerErr == nil {
				return v, nil
			} else if _, isString := any(zero).(string); !isString {
				return zero, newDecodeError(kind, innerErr)
			}
		}
	}

	var v T
	if err := unmarshalPayload([]byte(content.Raw), &v); err != nil {
		return zero, newDecodeError(kind, err)
	}
	return v, nil
}

// unmarshalPayload 解码并校验必填字段，未知字段忽略
func unmarshalPayload(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	return payloadValidator.Struct(v)
}
