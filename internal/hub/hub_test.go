package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

func newTestClient(h *Hub, key RoomKey, buffer int) *Client {
	return &Client{hub: h, key: key, send: make(chan []byte, buffer)}
}

func paintedGrid() (*domain.FloodFill, domain.PaintAction) {
	ff := &domain.FloodFill{
		ID: 7, UserID: "alice", Name: "board", SizeX: 1, SizeY: 1,
		Colors: []string{"red", "blue"},
		Pixels: []domain.Pixel{{X: 1, Y: 1, Color: "blue"}},
	}
	action := domain.PaintAction{
		FloodFillID: 7, UserID: "alice", X: 1, Y: 1,
		Color: "blue", PreviousColor: "red", Repainted: 1,
	}
	return ff, action
}

func decodeEvent(t *testing.T, msg []byte) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev), string(msg))
	return ev
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected event: %s", msg)
	default:
	}
}

func TestHub_LocalNotifyOnlyReachesRoom(t *testing.T) {
	h := NewHub(nil, "ff:")
	watcher := newTestClient(h, RoomKey{UserID: "alice", FloodFillID: 7}, 4)
	otherGrid := newTestClient(h, RoomKey{UserID: "alice", FloodFillID: 8}, 4)
	otherUser := newTestClient(h, RoomKey{UserID: "bob", FloodFillID: 7}, 4)
	h.Register(watcher)
	h.Register(otherGrid)
	h.Register(otherUser)

	ff, action := paintedGrid()
	require.NoError(t, h.Notify(context.Background(), ff, action))

	ev := decodeEvent(t, receive(t, watcher))
	assert.Equal(t, EventPaint, ev.Type)
	require.NotNil(t, ev.Action)
	assert.Equal(t, "red", ev.Action.PreviousColor)
	assert.Equal(t, ff.Pixels, ev.FloodFill.Pixels)

	assertNoMessage(t, otherGrid)
	assertNoMessage(t, otherUser)
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	h := NewHub(nil, "ff:")
	key := RoomKey{UserID: "alice", FloodFillID: 7}
	c := newTestClient(h, key, 1)
	h.Register(c)
	assert.Equal(t, 1, h.Watchers(key))

	h.Unregister(c)
	h.Unregister(c)
	assert.Equal(t, 0, h.Watchers(key))

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	h := NewHub(nil, "ff:")
	key := RoomKey{UserID: "alice", FloodFillID: 7}
	slow := newTestClient(h, key, 1)
	fast := newTestClient(h, key, 4)
	h.Register(slow)
	h.Register(fast)

	ff, action := paintedGrid()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			_ = h.Notify(context.Background(), ff, action)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full client buffer")
	}

	assert.Len(t, slow.send, 1)
	assert.Len(t, fast.send, 3)
}

func newRedisHub(t *testing.T) (*Hub, *miniredis.Miniredis, context.CancelFunc) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHub(rdb, "ff:")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// 等待订阅生效，之前发布的消息会丢失
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub("ff:events")["ff:events"] == 1
	}, 2*time.Second, 10*time.Millisecond)
	return h, mr, cancel
}

func TestHub_NotifyThroughRedis(t *testing.T) {
	h, _, _ := newRedisHub(t)
	key := RoomKey{UserID: "alice", FloodFillID: 7}
	watcher := newTestClient(h, key, 4)
	other := newTestClient(h, RoomKey{UserID: "bob", FloodFillID: 7}, 4)
	h.Register(watcher)
	h.Register(other)

	ff, action := paintedGrid()
	require.NoError(t, h.Notify(context.Background(), ff, action))

	ev := decodeEvent(t, receive(t, watcher))
	assert.Equal(t, EventPaint, ev.Type)
	assert.Equal(t, uint(7), ev.FloodFill.ID)
	require.NotNil(t, ev.Action)
	assert.Equal(t, 1, ev.Action.Repainted)

	// 经由 Redis 投递时不会在本地重复广播
	assertNoMessage(t, watcher)
	assertNoMessage(t, other)
}

func TestHub_RunSkipsMalformedMessages(t *testing.T) {
	h, mr, _ := newRedisHub(t)
	key := RoomKey{UserID: "alice", FloodFillID: 7}
	watcher := newTestClient(h, key, 4)
	h.Register(watcher)

	mr.Publish("ff:events", "not json")

	ff, action := paintedGrid()
	require.NoError(t, h.Notify(context.Background(), ff, action))

	ev := decodeEvent(t, receive(t, watcher))
	assert.Equal(t, EventPaint, ev.Type)
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	_, mr, cancel := newRedisHub(t)
	cancel()

	assert.Eventually(t, func() bool {
		return mr.PubSubNumSub("ff:events")["ff:events"] == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RunWithoutRedisReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewHub(nil, "ff:").Run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately without Redis")
	}
}
