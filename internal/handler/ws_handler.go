package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"Skill_Link/internal/pkg"
	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub     *pkg.Hub
	chatSvc *service.ChatService
}

func NewWSHandler(hub *pkg.Hub, chatSvc *service.ChatService) *WSHandler {
	return &WSHandler{hub: hub, chatSvc: chatSvc}
}

var upgrader = websocket.Upgrader{
	// 浏览器同源策略之外再由 token 鉴权兜底
	CheckOrigin: func(r *http.Request) bool { return true },
}

// 浏览器 WebSocket 不能带 Authorization 头，token 走 query
func wsUserID(c *gin.Context) uint64 {
	claims, err := pkg.ParseAccess(c.Query("token"))
	if err != nil {
		return 0
	}
	return claims.UserID
}

// ChatWS 打开会话视图时订阅该会话的新消息，视图关闭即退订
func (h *WSHandler) ChatWS(c *gin.Context) {
	chatID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	userID := wsUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
		return
	}
	ok, err := h.chatSvc.IsMember(c.Request.Context(), chatID, userID)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{"msg": "not a member of this chat"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := pkg.NewClient(conn)
	h.hub.JoinChat(chatID, client)
	defer func() {
		h.hub.LeaveChat(chatID, client)
		client.Close()
	}()

	h.serve(conn, client)
}

// BadgeWS 未读角标通道，整个页面会话挂一条
func (h *WSHandler) BadgeWS(c *gin.Context) {
	userID := wsUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := pkg.NewClient(conn)
	h.hub.JoinBadge(userID, client)
	defer func() {
		h.hub.LeaveBadge(userID, client)
		client.Close()
	}()

	h.serve(conn, client)
}

// serve 读循环只负责保活，客户端不通过 ws 上行业务数据；
// ping 走 client 的写锁，避免和 hub 推送抢同一条连接
func (h *WSHandler) serve(conn *websocket.Conn, client *pkg.Client) {
	conn.SetReadLimit(pkg.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pkg.PongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pkg.PongWait))
	})

	// Stop 不会关闭 ticker 的通道，读循环退出时靠 done 收掉这个 goroutine
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pkg.PingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := client.Ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}
	}
}
