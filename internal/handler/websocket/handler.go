package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	httpHandler "github.com/acsiqueiraGit/FloodFillBackend/internal/handler/http"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/hub"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/middleware"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/service"
)

// WatchHandler 把 HTTP 连接升级为 WebSocket，推送画布的快照和后续填色
type WatchHandler struct {
	upgrader         websocket.Upgrader
	hub              *hub.Hub
	floodfillService *service.FloodFillService
}

// NewWatchHandler 创建 WatchHandler 实例。allowedOrigin 为 "*" 时不检查 Origin。
func NewWatchHandler(h *hub.Hub, floodfillService *service.FloodFillService, allowedOrigin string) *WatchHandler {
	if h == nil {
		panic("Hub cannot be nil for WatchHandler")
	}
	if floodfillService == nil {
		panic("FloodFillService cannot be nil for WatchHandler")
	}
	return &WatchHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
		hub:              h,
		floodfillService: floodfillService,
	}
}

// RegisterRoutes 在 rg 下注册观看路由，rg 需要已经挂载 UserID 中间件
func (h *WatchHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/floodfills/:floodfillId/watch", h.HandleWatch)
}

// HandleWatch 处理 WebSocket 连接请求
func (h *WatchHandler) HandleWatch(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	raw := c.Param("floodfillId")
	id64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		httpHandler.ErrorResponse(c, http.StatusBadRequest, "floodfillId must be a non-negative integer")
		return
	}
	id := uint(id64)
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id})

	// 升级之前确认画布存在，这样还能返回普通的 HTTP 错误
	if _, err := h.floodfillService.GetFloodFill(c.Request.Context(), userID, id); err != nil {
		httpHandler.HandleServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写了 HTTP 错误响应
		logCtx.WithError(err).Warn("WS Handler: Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, hub.RoomKey{UserID: userID, FloodFillID: id})
	h.hub.Register(client)

	// 注册之后再读取快照，之后的填色都会通过广播送达
	ff, err := h.floodfillService.GetFloodFill(c.Request.Context(), userID, id)
	if err != nil || !client.SendSnapshot(ff) {
		logCtx.WithError(err).Warn("WS Handler: Could not send snapshot, closing connection")
		h.hub.Unregister(client)
		conn.Close()
		return
	}

	client.Run()
	logCtx.Info("WS Handler: Watcher connected")
}
