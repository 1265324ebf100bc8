package pkg

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 512
)

// Client 包一层写锁：同一条 ws 连接同一时刻只允许一个写者，
// 广播、角标、保活 ping 都可能并发打到同一条连接上，必须在这里串行化
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Ping 保活帧，和业务写共用一把锁
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Hub 单页会话内的在线连接表：按会话分房间推新消息，按用户推未读角标
type Hub struct {
	mu     sync.RWMutex
	chats  map[uint64]map[*Client]bool // chatID -> clients
	badges map[uint64]map[*Client]bool // userID -> clients
}

func NewHub() *Hub {
	return &Hub{
		chats:  make(map[uint64]map[*Client]bool),
		badges: make(map[uint64]map[*Client]bool),
	}
}

func (h *Hub) JoinChat(chatID uint64, client *Client) {
	h.mu.Lock()
	if h.chats[chatID] == nil {
		h.chats[chatID] = make(map[*Client]bool)
	}
	h.chats[chatID][client] = true
	h.mu.Unlock()
}

func (h *Hub) LeaveChat(chatID uint64, client *Client) {
	h.mu.Lock()
	if clients, ok := h.chats[chatID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.chats, chatID)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) JoinBadge(userID uint64, client *Client) {
	h.mu.Lock()
	if h.badges[userID] == nil {
		h.badges[userID] = make(map[*Client]bool)
	}
	h.badges[userID][client] = true
	h.mu.Unlock()
}

func (h *Hub) LeaveBadge(userID uint64, client *Client) {
	h.mu.Lock()
	if clients, ok := h.badges[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.badges, userID)
		}
	}
	h.mu.Unlock()
}

// BroadcastMessage 向房间内所有连接推送，失败的连接顺手摘除
func (h *Hub) BroadcastMessage(chatID uint64, payload any) {
	h.mu.RLock()
	clients, ok := h.chats[chatID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}
	copied := make([]*Client, 0, len(clients))
	for client := range clients {
		copied = append(copied, client)
	}
	h.mu.RUnlock()

	for _, client := range copied {
		if err := client.WriteJSON(payload); err != nil {
			log.Printf("chat broadcast failed: %v", err)
			h.LeaveChat(chatID, client)
			client.Close()
		}
	}
}

// NotifyUnread 未读总数角标的旁路通知
func (h *Hub) NotifyUnread(userID uint64, total int64) {
	h.mu.RLock()
	clients, ok := h.badges[userID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}
	copied := make([]*Client, 0, len(clients))
	for client := range clients {
		copied = append(copied, client)
	}
	h.mu.RUnlock()

	for _, client := range copied {
		err := client.WriteJSON(map[string]any{
			"type":         "unread_total",
			"unread_total": total,
		})
		if err != nil {
			log.Printf("badge notify failed: %v", err)
			h.LeaveBadge(userID, client)
			client.Close()
		}
	}
}
