package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/gateway/pipeline"
	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	name    string
	payload any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []emitted
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, name string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, emitted{name: name, payload: payload})
	return n.err
}

func (n *recordingNotifier) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.sent))
	for _, e := range n.sent {
		names = append(names, e.name)
	}
	return names
}

func (n *recordingNotifier) Reset() {
	n.mu.Lock()
	n.sent = nil
	n.mu.Unlock()
}

func userJSON(id, name, location, platform string) string {
	return fmt.Sprintf(`{"id":%q,"displayName":%q,"location":%q,"platform":%q,"status":"active","isFriend":true}`,
		id, name, location, platform)
}

func frame(kind, content string) []byte {
	return []byte(fmt.Sprintf(`{"type":%q,"content":%s}`, kind, content))
}

func newTestDispatcher() (*Dispatcher, *cache.RelationshipCache, *recordingNotifier) {
	c := cache.New()
	n := &recordingNotifier{}
	return NewDispatcher(c, n), c, n
}

func TestDispatch_OnlineOfflineLocationReplay(t *testing.T) {
	d, c, n := newTestDispatcher()
	ctx := context.Background()

	online := fmt.Sprintf(`{"userId":"usr_a","location":"wrld_1:1","platform":"android","user":%s}`,
		userJSON("usr_a", "Alice", "", "standalonewindows"))
	require.NoError(t, d.HandleFrame(ctx, frame("friend-online", online)))
	assert.True(t, c.IsFriend("usr_a"))
	assert.True(t, c.IsOnline("usr_a"))
	got, ok := c.GetCachedUser("usr_a")
	require.True(t, ok)
	assert.Equal(t, "wrld_1:1", got.Location)
	assert.Equal(t, model.PlatformAndroid, got.Platform.Kind())

	require.NoError(t, d.HandleFrame(ctx, frame("friend-offline", `{"userId":"usr_a","platform":""}`)))
	assert.False(t, c.IsOnline("usr_a"))

	location := fmt.Sprintf(`{"userId":"usr_a","location":"wrld_2:9","worldId":"wrld_2","user":%s}`,
		userJSON("usr_a", "Alice", "", "standalonewindows"))
	require.NoError(t, d.HandleFrame(ctx, frame("friend-location", location)))

	got, ok = c.GetCachedUser("usr_a")
	require.True(t, ok)
	assert.Equal(t, "wrld_2:9", got.Location)
	assert.True(t, c.IsOnline("usr_a"))
	assert.Equal(t, []string{
		constants.NOTIFY_FRIEND_ONLINE,
		constants.NOTIFY_FRIEND_OFFLINE,
		constants.NOTIFY_FRIEND_LOCATION,
	}, n.Names())
}

func TestDispatch_DoubleEmits(t *testing.T) {
	d, c, n := newTestDispatcher()
	ctx := context.Background()

	add := fmt.Sprintf(`{"userId":"usr_b","user":%s}`, userJSON("usr_b", "Bob", "offline", ""))
	require.NoError(t, d.HandleFrame(ctx, frame("friend-add", add)))
	assert.True(t, c.IsFriend("usr_b"))
	assert.Equal(t, []string{constants.NOTIFY_FRIEND_ADDED, constants.NOTIFY_FRIEND_UPDATE}, n.Names())
	assert.Equal(t, n.sent[0].payload, n.sent[1].payload)

	n.Reset()
	active := fmt.Sprintf(`{"userid":"usr_b","platform":"web","user":%s}`, userJSON("usr_b", "Bob", "offline", "web"))
	require.NoError(t, d.HandleFrame(ctx, frame("friend-active", active)))
	assert.Equal(t, []string{constants.NOTIFY_FRIEND_ACTIVE, constants.NOTIFY_FRIEND_ONLINE}, n.Names())
	assert.Equal(t, "usr_b", n.sent[1].payload.(FriendOnlinePayload).UserID)
}

func TestDispatch_FriendDeleteDemotes(t *testing.T) {
	d, c, n := newTestDispatcher()
	c.UpsertFriend(model.LimitedUserFriend{ID: "usr_c", DisplayName: "Carol", Location: "wrld_1:1"})

	require.NoError(t, d.HandleFrame(context.Background(), frame("friend-delete", `"{\"userId\":\"usr_c\"}"`)))

	assert.False(t, c.IsFriend("usr_c"))
	got, ok := c.GetCachedUser("usr_c")
	require.True(t, ok)
	assert.Equal(t, cache.RelationshipKnown, got.Relationship)
	assert.Equal(t, []string{constants.NOTIFY_FRIEND_REMOVED}, n.Names())
	assert.Equal(t, FriendRemovedPayload{UserID: "usr_c"}, n.sent[0].payload)
}

func TestDispatch_UserUpdatePatchesCurrentUser(t *testing.T) {
	d, c, n := newTestDispatcher()
	c.SetCurrentUser(model.User{ID: "usr_me", DisplayName: "Me", Username: "me", Bio: "old"})

	content := `{"userId":"usr_me","user":{"id":"usr_me","displayName":"New Me","username":"","bio":"new","status":"busy","profilePicOverrideThumbnailImageUrl":"https://img/thumb"}}`
	require.NoError(t, d.HandleFrame(context.Background(), frame("user-update", content)))

	me, ok := c.GetCurrentUser()
	require.True(t, ok)
	assert.Equal(t, "New Me", me.DisplayName)
	assert.Equal(t, "me", me.Username)
	assert.Equal(t, "new", me.Bio)
	assert.Equal(t, model.StatusBusy, me.Status)
	assert.Equal(t, "https://img/thumb", me.ProfilePicOverrideThumbnail)
	assert.Equal(t, []string{constants.NOTIFY_USER_UPDATE}, n.Names())
	assert.IsType(t, pipeline.UserUpdate{}, n.sent[0].payload)
}

func TestDispatch_UserLocationKeepsCurrentUserTag(t *testing.T) {
	d, c, n := newTestDispatcher()
	c.SetCurrentUser(model.User{ID: "usr_me", DisplayName: "Me", Username: "me", Bio: "mine"})

	content := fmt.Sprintf(`{"userId":"usr_me","location":"wrld_3:1","user":%s}`, userJSON("usr_me", "Me", "wrld_3:1", "android"))
	require.NoError(t, d.HandleFrame(context.Background(), frame("user-location", content)))

	got, ok := c.GetCachedUser("usr_me")
	require.True(t, ok)
	assert.Equal(t, cache.RelationshipCurrentUser, got.Relationship)
	assert.Equal(t, "wrld_3:1", got.Location)
	assert.Equal(t, "mine", got.Bio)
	assert.Equal(t, []string{constants.NOTIFY_USER_LOCATION}, n.Names())
}

func TestDispatch_PassThroughKinds(t *testing.T) {
	cases := []struct {
		frame   []byte
		name    string
		payload any
	}{
		{frame("see-notification", `"\"not_1\""`), constants.NOTIFY_NOTIFICATION_SEE, "not_1"},
		{frame("hide-notification", `"not_2"`), constants.NOTIFY_NOTIFICATION_HIDE, "not_2"},
		{[]byte(`{"type":"clear-notification"}`), constants.NOTIFY_NOTIFICATION_CLEAR, nil},
		{frame("group-joined", `{"groupId":"grp_1"}`), constants.NOTIFY_GROUP_JOINED, pipeline.GroupJoined{GroupID: "grp_1"}},
		{frame("user-badge-unassigned", `{"badgeId":"bdg_1"}`), constants.NOTIFY_BADGE_UNASSIGNED, pipeline.BadgeUnassigned{BadgeID: "bdg_1"}},
		{frame("instance-queue-joined", `{"instanceLocation":"wrld_1:1","position":2}`), constants.NOTIFY_QUEUE_JOINED,
			pipeline.InstanceQueueJoined{InstanceLocation: "wrld_1:1", Position: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, c, n := newTestDispatcher()
			require.NoError(t, d.HandleFrame(context.Background(), tc.frame))
			require.Len(t, n.sent, 1)
			assert.Equal(t, tc.name, n.sent[0].name)
			assert.Equal(t, tc.payload, n.sent[0].payload)
			assert.Equal(t, 0, c.Stats().TotalCached)
		})
	}
}

func TestHandleFrame_DecodeErrorAndUnknown(t *testing.T) {
	d, _, n := newTestDispatcher()

	err := d.HandleFrame(context.Background(), frame("friend-offline", `{"platform":"web"}`))
	var decodeErr *pipeline.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, pipeline.KindFriendOffline, decodeErr.Kind)

	require.NoError(t, d.HandleFrame(context.Background(), frame("brand-new-event", `{}`)))
	assert.Empty(t, n.Names())
}

func TestDispatch_NotifyFailureKeepsCacheWrite(t *testing.T) {
	d, c, n := newTestDispatcher()
	n.err = errors.New("sink down")

	add := fmt.Sprintf(`{"userId":"usr_d","user":%s}`, userJSON("usr_d", "Dan", "wrld_1:1", ""))
	require.NoError(t, d.HandleFrame(context.Background(), frame("friend-update", add)))
	assert.True(t, c.IsOnline("usr_d"))
}
