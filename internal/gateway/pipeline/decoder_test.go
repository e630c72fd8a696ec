package pipeline

import (
	"encoding/json"
	"fmt"
	"testing"

	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const friendJSON = `{"id":"usr_a","displayName":"Alice","bio":"hello","location":"wrld_1:1","platform":"standalonewindows","status":"join me","statusDescription":"hi","isFriend":true,"someFutureField":{"x":1}}`

// contentSamples 每种已知事件的单层编码 content
var contentSamples = map[EventKind]string{
	KindNotification:         `{"id":"not_1","type":"friendRequest","senderUserId":"usr_b","message":"hi","details":{"k":"v"},"seen":false}`,
	KindResponseNotification: `{"notificationId":"not_1","receiverId":"usr_me","responseId":"rsp_1"}`,
	KindSeeNotification:      `"not_1"`,
	KindHideNotification:     `"not_2"`,
	KindNotificationV2:       `{"id":"n2","version":2,"type":"group.announcement","category":"social","isSystem":false,"ignoreDND":true,"receiverUserId":"usr_me","responses":[{"type":"accept","text":"ok"}]}`,
	KindNotificationV2Update: `{"id":"n2","version":3,"updates":{"seen":true}}`,
	KindNotificationV2Delete: `{"ids":["n2","n3"],"version":4}`,
	KindFriendAdd:            `{"userId":"usr_a","user":` + friendJSON + `}`,
	KindFriendDelete:         `{"userId":"usr_a"}`,
	KindFriendUpdate:         `{"userId":"usr_a","user":` + friendJSON + `}`,
	KindFriendOnline:         `{"userId":"usr_a","platform":"android","location":"wrld_1:1","canRequestInvite":true,"user":` + friendJSON + `}`,
	KindFriendActive:         `{"userid":"usr_a","platform":"web","user":` + friendJSON + `}`,
	KindFriendOffline:        `{"userId":"usr_a","platform":""}`,
	KindFriendLocation:       `{"userId":"usr_a","location":"wrld_2:7","worldId":"wrld_2","user":` + friendJSON + `}`,
	KindUserUpdate:           `{"userId":"usr_me","user":{"id":"usr_me","displayName":"Me","username":"","status":"busy","tags":["a"]}}`,
	KindUserLocation:         `{"userId":"usr_me","location":"wrld_3:1","instance":"1"}`,
	KindBadgeAssigned:        `{"badge":{"badgeId":"bdg_1","badgeName":"Supporter"}}`,
	KindBadgeUnassigned:      `{"badgeId":"bdg_1"}`,
	KindContentRefresh:       `{"contentType":"gallery","fileId":"file_1","actionType":"created"}`,
	KindModifiedImageUpdate:  `{"fileId":"file_1","pixelSize":512,"versionNumber":2,"needsProcessing":false}`,
	KindInstanceQueueJoined:  `{"instanceLocation":"wrld_1:1","position":3}`,
	KindInstanceQueueReady:   `{"instanceLocation":"wrld_1:1","expiry":"2024-01-01T00:00:00Z"}`,
	KindGroupJoined:          `{"groupId":"grp_1"}`,
	KindGroupLeft:            `{"groupId":"grp_1"}`,
	KindGroupMemberUpdated:   `{"member":{"id":"gmem_1","roleIds":["r1"]}}`,
	KindGroupRoleUpdated:     `{"role":{"id":"grol_1","name":"Admin"}}`,
}

func envelope(kind EventKind, content string) []byte {
	return []byte(fmt.Sprintf(`{"type":%q,"content":%s}`, kind, content))
}

func doubleEncode(t *testing.T, content string) string {
	t.Helper()
	b, err := json.Marshal(content)
	require.NoError(t, err)
	return string(b)
}

func TestDecode_SingleAndDoubleEncodingAgree(t *testing.T) {
	// clear-notification 没有 content，其余已知类型都应覆盖
	require.Len(t, contentSamples, len(decoders)-1)

	for kind, content := range contentSamples {
		t.Run(string(kind), func(t *testing.T) {
			single, err := Decode(envelope(kind, content))
			require.NoError(t, err)
			require.Equal(t, kind, single.Kind())

			double, err := Decode(envelope(kind, doubleEncode(t, content)))
			require.NoError(t, err)
			assert.Equal(t, single, double)
		})
	}
}

func TestDecode_PayloadFields(t *testing.T) {
	ev, err := Decode(envelope(KindFriendOnline, contentSamples[KindFriendOnline]))
	require.NoError(t, err)
	online, ok := ev.(FriendOnline)
	require.True(t, ok)
	assert.Equal(t, "usr_a", online.UserID)
	require.NotNil(t, online.Location)
	assert.Equal(t, "wrld_1:1", *online.Location)
	assert.Equal(t, model.StatusJoinMe, online.User.Status)
	assert.Equal(t, model.PlatformStandaloneWindows, online.User.Platform.Kind())

	ev, err = Decode(envelope(KindSeeNotification, contentSamples[KindSeeNotification]))
	require.NoError(t, err)
	assert.Equal(t, SeeNotification{NotificationID: "not_1"}, ev)

	ev, err = Decode(envelope(KindUserUpdate, contentSamples[KindUserUpdate]))
	require.NoError(t, err)
	update := ev.(UserUpdate)
	require.NotNil(t, update.User.Username)
	assert.Equal(t, "", *update.User.Username)
	assert.Nil(t, update.User.Bio)
}

func TestDecode_FriendActiveAcceptsBothIDSpellings(t *testing.T) {
	for _, key := range []string{"userid", "userId"} {
		frame := envelope(KindFriendActive, fmt.Sprintf(`{%q:"usr_a","user":%s}`, key, friendJSON))
		ev, err := Decode(frame)
		require.NoError(t, err, key)
		assert.Equal(t, "usr_a", ev.(FriendActive).UserID, key)
	}
}

func TestDecode_ClearNotificationWithoutContent(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"clear-notification"}`))
	require.NoError(t, err)
	assert.Equal(t, ClearNotification{}, ev)
}

func TestDecode_UnknownTypeIsNotAnError(t *testing.T) {
	for _, frame := range []string{
		`{"type":"brand-new-event","content":{"anything":[1,2,3]}}`,
		`{"type":"brand-new-event","content":"{\"x\":1}"}`,
		`{"type":"brand-new-event"}`,
	} {
		ev, err := Decode([]byte(frame))
		require.NoError(t, err)
		assert.Equal(t, Unknown{Type: "brand-new-event"}, ev)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		kind  EventKind
	}{
		{"not json", `not json`, envelopeKind},
		{"not an object", `[1,2]`, envelopeKind},
		{"missing type", `{"content":{}}`, envelopeKind},
		{"wrong content shape", `{"type":"friend-delete","content":[1]}`, KindFriendDelete},
		{"missing required id", `{"type":"friend-delete","content":{}}`, KindFriendDelete},
		{"double encoded garbage", `{"type":"friend-add","content":"{\"userId\":5}"}`, KindFriendAdd},
		{"string that is not json", `{"type":"group-joined","content":"grp_1"}`, KindGroupJoined},
		{"missing content", `{"type":"friend-offline"}`, KindFriendOffline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Decode([]byte(tc.frame))
			require.Error(t, err)
			assert.Nil(t, ev)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, tc.kind, decodeErr.Kind)
			assert.Equal(t, errorx.CodeDecodeError, errorx.GetCode(err))
		})
	}
}
