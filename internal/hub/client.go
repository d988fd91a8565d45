package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// Client 代表一个观看画布的 WebSocket 连接
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	key  RoomKey
	send chan []byte
}

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, key RoomKey) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		key:  key,
		send: make(chan []byte, 64),
	}
}

// SendSnapshot 把画布当前状态放入发送队列，队列满时返回 false
func (c *Client) SendSnapshot(ff *domain.FloodFill) bool {
	payload, err := json.Marshal(Event{Type: EventSnapshot, FloodFill: ff})
	if err != nil {
		logrus.WithError(err).Error("Client: Failed to marshal snapshot")
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"user_id": c.key.UserID, "floodfill_id": c.key.FloodFillID})
}

// readPump 只处理控制帧，连接断开后注销客户端
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().WithError(err).Warn("WebSocket read error (unexpected close)")
			}
			return
		}
		// 客户端发来的数据帧直接忽略
	}
}

// writePump 把 send 通道中的消息写到连接上，并定期发送 Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了通道
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger().WithError(err).Warn("Failed to write message to websocket")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger().WithError(err).Debug("Failed to send ping message")
				return
			}
		}
	}
}
