package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"circle_pipeline/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient 指向无人监听的端口，不重试
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: time.Second})
}

func TestSubmitTask_WorkersRunTasks(t *testing.T) {
	rc := NewRedisCache(unreachableClient(), 2, 8)
	defer rc.Close()

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		rc.SubmitTask(func() { done.Add(1) })
	}
	require.Eventually(t, func() bool { return done.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestSubmitTask_FullChannelRunsInline(t *testing.T) {
	// 没有 worker，缓冲区为 1
	rc := NewRedisCache(unreachableClient(), 0, 1)
	defer rc.Close()

	var first, second bool
	rc.SubmitTask(func() { first = true })
	rc.SubmitTask(func() { second = true })

	assert.False(t, first)
	assert.True(t, second)
}

func TestPublish_WrapsClientError(t *testing.T) {
	rc := NewRedisCache(unreachableClient(), 0, 1)
	defer rc.Close()

	err := rc.Publish(context.Background(), "pipeline-events", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))

	err = rc.Set(context.Background(), "k", []byte("v"), time.Minute)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))
}

func TestSubmitTask_AfterCloseIsDropped(t *testing.T) {
	rc := NewRedisCache(unreachableClient(), 1, 4)
	require.NoError(t, rc.Close())

	var ran atomic.Bool
	assert.NotPanics(t, func() { rc.SubmitTask(func() { ran.Store(true) }) })
	assert.False(t, ran.Load())

	// 重复关闭不报错
	assert.NoError(t, rc.Close())
}

func TestSubmitTask_ConcurrentWithClose(t *testing.T) {
	rc := NewRedisCache(unreachableClient(), 2, 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rc.SubmitTask(func() {})
			}
		}()
	}
	assert.NotPanics(t, func() { _ = rc.Close() })
	wg.Wait()
}
