package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/wfunc/match-game/internal/config"
	"github.com/wfunc/match-game/internal/middleware"
	"github.com/wfunc/match-game/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler 管理端监控WebSocket处理器
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
	log      *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *websocket.Hub, cfg config.WebSocketConfig, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// 管理面板与API不同源，握手已有JWT校验
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// AdminFeed 管理端回合事件订阅
// @Summary 管理端实时回合推送
// @Description 升级为WebSocket连接，推送每局结算的回合记录
// @Tags Admin
// @Security Bearer
// @Router /ws/admin [get]
func (h *WebSocketHandler) AdminFeed(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("WebSocket升级失败", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, username)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
