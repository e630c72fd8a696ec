package relation

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/config"
	"circle_pipeline/internal/dto/request"
	"circle_pipeline/internal/model"
	"circle_pipeline/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationService_MissesAreNotFound(t *testing.T) {
	s := NewRelationService(cache.New(), time.Hour)

	_, err := s.Friend("usr_x")
	assert.True(t, errorx.IsNotFound(err))
	_, err = s.User("usr_x")
	assert.True(t, errorx.IsNotFound(err))
	_, err = s.Profile("usr_x")
	assert.True(t, errorx.IsNotFound(err))
	_, err = s.CurrentUser()
	assert.True(t, errorx.IsNotFound(err))

	r := s.Relation("usr_x")
	assert.False(t, r.IsFriend)
	assert.Equal(t, "unknown", r.Relationship)
}

func TestRelationService_FriendsAndRelation(t *testing.T) {
	s := NewRelationService(cache.New(), time.Hour)

	got := s.InitializeFriends(request.InitializeFriendsRequest{Friends: []model.LimitedUserFriend{
		{ID: "usr_a", DisplayName: "Alice", Location: "wrld_1:1", IsFriend: true},
		{ID: "usr_b", DisplayName: "Bob", Location: "offline", IsFriend: true},
	}})
	assert.Equal(t, 2, got.Count)
	assert.Len(t, s.Friends(), 2)
	require.Len(t, s.OnlineFriends(), 1)
	assert.Equal(t, "usr_a", s.OnlineFriends()[0].ID)

	r := s.Relation("usr_a")
	assert.True(t, r.IsFriend)
	assert.True(t, r.IsOnline)
	assert.Equal(t, "friend", r.Relationship)

	hits := s.Search(request.SearchUsersRequest{Query: "ali"})
	require.Len(t, hits, 1)
	assert.Equal(t, "usr_a", hits[0].ID)
}

func TestRelationService_RejectsEmptyIDs(t *testing.T) {
	s := NewRelationService(cache.New(), time.Hour)

	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(s.SetCurrentUser(model.User{DisplayName: "Me"})))
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(s.CacheProfile(model.User{ID: "  "})))

	require.NoError(t, s.SetCurrentUser(model.User{ID: "usr_me", DisplayName: "Me"}))
	me, err := s.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "Me", me.DisplayName)

	s.ClearCurrentUser()
	_, err = s.CurrentUser()
	assert.True(t, errorx.IsNotFound(err))
}

func TestRelationService_EvictUsesDefaultAge(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.New(cache.WithClock(clock))
	s := NewRelationService(c, time.Hour)

	require.NoError(t, s.CacheProfile(model.User{ID: "usr_k", DisplayName: "Known"}))
	now = now.Add(30 * time.Minute)
	assert.Equal(t, 0, s.Evict(request.EvictRequest{}).Count)
	assert.Equal(t, 1, s.Evict(request.EvictRequest{MaxAgeSeconds: 60}).Count)
}

func TestRelationService_EvictClampsHugeAge(t *testing.T) {
	s := NewRelationService(cache.New(), time.Hour)
	require.NoError(t, s.CacheProfile(model.User{ID: "usr_k", DisplayName: "Known"}))

	// 超大秒数不能溢出成负时长
	assert.Equal(t, 0, s.Evict(request.EvictRequest{MaxAgeSeconds: 10_000_000_000}).Count)
	assert.Equal(t, 0, s.Evict(request.EvictRequest{MaxAgeSeconds: math.MaxInt64}).Count)
	_, err := s.User("usr_k")
	assert.NoError(t, err)
}

func TestRelationService_RelationOfKnownAndSelf(t *testing.T) {
	s := NewRelationService(cache.New(), time.Hour)
	require.NoError(t, s.CacheProfile(model.User{ID: "usr_k", DisplayName: "Known", Location: "wrld_1:1"}))
	require.NoError(t, s.SetCurrentUser(model.User{ID: "usr_me", DisplayName: "Me"}))

	r := s.Relation("usr_k")
	assert.False(t, r.IsFriend)
	assert.True(t, r.IsOnline)
	assert.Equal(t, "known", r.Relationship)

	r = s.Relation("usr_me")
	assert.False(t, r.IsFriend)
	assert.Equal(t, "current_user", r.Relationship)
}

type countingMaintenance struct {
	calls  atomic.Int32
	cancel context.CancelFunc
	stopAt int32
}

func (m *countingMaintenance) ClearCache() {}
func (m *countingMaintenance) ClearAll()   {}
func (m *countingMaintenance) EvictStale(time.Duration) int {
	if m.calls.Add(1) >= m.stopAt {
		m.cancel()
	}
	return 1
}

func TestEvictor_RunsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := &countingMaintenance{cancel: cancel, stopAt: 3}

	e, err := NewEvictor(m, &config.CacheConfig{EvictInterval: time.Millisecond, StaleMaxAge: time.Hour})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("evictor did not stop")
	}
	assert.GreaterOrEqual(t, m.calls.Load(), int32(3))
}

func TestEvictor_CronSchedule(t *testing.T) {
	_, err := NewEvictor(&countingMaintenance{}, &config.CacheConfig{EvictCron: "not a cron"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	e, err := NewEvictor(&countingMaintenance{}, &config.CacheConfig{EvictCron: "*/10 * * * *", EvictInterval: time.Hour})
	require.NoError(t, err)

	ref := time.Date(2024, 1, 1, 12, 3, 0, 0, time.UTC)
	assert.Equal(t, 7*time.Minute, e.next(ref))

	e.cron = ""
	assert.Equal(t, time.Hour, e.next(ref))
}
