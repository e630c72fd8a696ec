package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"circle_pipeline/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type recordingSink struct {
	mu  sync.Mutex
	got []Notification
	err error
}

func (s *recordingSink) Deliver(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func TestEmitter_SharesNotificationAcrossSinks(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	e := NewEmitter(a, b)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	require.NoError(t, e.Notify(context.Background(), "friend-online", map[string]string{"userId": "usr_a"}))

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, a.got[0], b.got[0])
	assert.NotEmpty(t, a.got[0].ID)
	assert.Equal(t, "friend-online", a.got[0].Name)
	assert.Equal(t, fixed, a.got[0].EmittedAt)
}

func TestEmitter_FailingSinkDoesNotBlockOthers(t *testing.T) {
	bad := &recordingSink{err: errors.New("broker down")}
	good := &recordingSink{}
	e := NewEmitter(bad, good)

	err := e.Notify(context.Background(), "friend-offline", nil)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotifyError, errorx.GetCode(err))
	assert.Len(t, good.got, 1)
}

func TestHub_SubscribeDeliverUnsubscribe(t *testing.T) {
	hub := NewHub(1)
	id, ch := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	n := Notification{ID: "n1", Name: "user-update"}
	require.NoError(t, hub.Deliver(context.Background(), n))
	// 缓冲已满，第二条被丢弃，不阻塞
	require.NoError(t, hub.Deliver(context.Background(), Notification{ID: "n2"}))

	assert.Equal(t, n, <-ch)

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.SubscriberCount())
	_, open := <-ch
	assert.False(t, open)
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSink_Encodings(t *testing.T) {
	n := Notification{
		ID:        "n1",
		Name:      "friend-location",
		Payload:   map[string]any{"userId": "usr_a"},
		EmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonEncode, err := encoderFor("json")
	require.NoError(t, err)
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w, encode: jsonEncode}
	require.NoError(t, sink.Deliver(context.Background(), n))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("friend-location"), w.msgs[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "n1", decoded["id"])
	assert.Equal(t, "friend-location", decoded["name"])

	packEncode, err := encoderFor("msgpack")
	require.NoError(t, err)
	w = &fakeWriter{}
	sink = &KafkaSink{writer: w, encode: packEncode}
	require.NoError(t, sink.Deliver(context.Background(), n))

	var packed map[string]any
	require.NoError(t, msgpack.Unmarshal(w.msgs[0].Value, &packed))
	assert.Equal(t, "n1", packed["id"])
	assert.Equal(t, "friend-location", packed["name"])

	_, err = encoderFor("xml")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

type fakeStore struct {
	mu        sync.Mutex
	published map[string][][]byte
	values    map[string][]byte
	ttls      map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		published: map[string][][]byte{},
		values:    map[string][]byte{},
		ttls:      map[string]time.Duration{},
	}
}

func (s *fakeStore) Publish(_ context.Context, channel string, message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published[channel] = append(s.published[channel], message)
	return nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

// SubmitTask 同步执行
func (s *fakeStore) SubmitTask(action func()) { action() }

func TestRedisSink_PublishesAndKeepsLast(t *testing.T) {
	store := newFakeStore()
	sink := NewRedisSink(store, "pipeline-events", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, sink.Deliver(ctx, Notification{ID: "n1", Name: "friend-online"}))
	require.NoError(t, sink.Deliver(ctx, Notification{ID: "n2", Name: "friend-online"}))

	assert.Len(t, store.published["pipeline-events"], 2)
	var last Notification
	require.NoError(t, json.Unmarshal(store.values["circle:last:friend-online"], &last))
	assert.Equal(t, "n2", last.ID)
	assert.Equal(t, time.Hour, store.ttls["circle:last:friend-online"])
}
