// Package hub 把填色事件推送给正在观看同一个画布的 WebSocket 客户端。
// 配置了 Redis 时事件经由 Redis Pub/Sub 分发，多个实例的客户端都能收到。
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// 观看连接只接收控制帧，不需要大的读缓冲
	maxMessageSize = 512
)

const (
	EventSnapshot = "snapshot"
	EventPaint    = "paint"
)

// Event 是推送给客户端的消息
type Event struct {
	Type      string              `json:"type"`
	FloodFill *domain.FloodFill   `json:"floodfill"`
	Action    *domain.PaintAction `json:"action,omitempty"`
}

// RoomKey 标识一个被观看的画布。画布 ID 只在所属用户内有意义。
type RoomKey struct {
	UserID      string
	FloodFillID uint
}

// envelope 是 Redis 频道上传递的消息
type envelope struct {
	UserID      string          `json:"userId"`
	FloodFillID uint            `json:"floodfillId"`
	Event       json.RawMessage `json:"event"`
}

// Hub 维护按画布分组的客户端集合
type Hub struct {
	rooms   map[RoomKey]map[*Client]bool
	roomsMu sync.RWMutex

	redis   *redis.Client // 为 nil 时只在进程内广播
	channel string
}

// NewHub 创建 Hub。redisClient 可以为 nil。
func NewHub(redisClient *redis.Client, keyPrefix string) *Hub {
	return &Hub{
		rooms:   make(map[RoomKey]map[*Client]bool),
		redis:   redisClient,
		channel: keyPrefix + "events",
	}
}

// Register 把客户端加入它所观看的画布
func (h *Hub) Register(client *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	clients, ok := h.rooms[client.key]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[client.key] = clients
	}
	clients[client] = true
	logrus.WithFields(logrus.Fields{
		"user_id":      client.key.UserID,
		"floodfill_id": client.key.FloodFillID,
		"watchers":     len(clients),
	}).Info("Hub: Client registered")
}

// Unregister 移除客户端并关闭其发送通道，可以重复调用
func (h *Hub) Unregister(client *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()
	clients, ok := h.rooms[client.key]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.key)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      client.key.UserID,
		"floodfill_id": client.key.FloodFillID,
	}).Info("Hub: Client unregistered")
}

// Watchers 返回正在观看某个画布的客户端数量
func (h *Hub) Watchers(key RoomKey) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[key])
}

// Notify 发布一次填色结果，实现 service.PaintNotifier
func (h *Hub) Notify(ctx context.Context, ff *domain.FloodFill, action domain.PaintAction) error {
	key := RoomKey{UserID: action.UserID, FloodFillID: ff.ID}
	payload, err := json.Marshal(Event{Type: EventPaint, FloodFill: ff, Action: &action})
	if err != nil {
		return fmt.Errorf("failed to marshal paint event: %w", err)
	}

	if h.redis == nil {
		h.broadcast(key, payload)
		return nil
	}
	msg, err := json.Marshal(envelope{UserID: key.UserID, FloodFillID: key.FloodFillID, Event: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	if err := h.redis.Publish(ctx, h.channel, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish paint event: %w", err)
	}
	return nil
}

// Run 订阅 Redis 频道并把收到的事件转发给本地客户端，直到 ctx 结束。
// 没有配置 Redis 时立即返回。
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}
	log := logrus.WithFields(logrus.Fields{"component": "hub", "channel": h.channel})
	pubsub := h.redis.Subscribe(ctx, h.channel)
	defer pubsub.Close()
	log.Info("Hub is running...")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Info("Hub is shutting down...")
			return
		case msg, ok := <-ch:
			if !ok {
				log.Warn("Hub: Subscription channel closed")
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.WithError(err).Warn("Hub: Dropping malformed event")
				continue
			}
			h.broadcast(RoomKey{UserID: env.UserID, FloodFillID: env.FloodFillID}, env.Event)
		}
	}
}

// broadcast 非阻塞地把消息发给画布的全部客户端
func (h *Hub) broadcast(key RoomKey, message []byte) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	for client := range h.rooms[key] {
		select {
		case client.send <- message:
		default:
			logrus.WithFields(logrus.Fields{
				"user_id":      key.UserID,
				"floodfill_id": key.FloodFillID,
			}).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}
