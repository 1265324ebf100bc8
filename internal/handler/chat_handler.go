package handler

import (
	"net/http"
	"strconv"

	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type openDirectReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
	Content  string `json:"content"`
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

// List 会话列表聚合
func (h *ChatHandler) List(c *gin.Context) {
	uid := userIDFromCtx(c)
	rows, total, err := h.svc.ListConversations(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "unread_total": total})
}

// OpenDirect 新消息入口：已有 1:1 会话则返回原会话
func (h *ChatHandler) OpenDirect(c *gin.Context) {
	var req openDirectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	chat, created, err := h.svc.OpenDirect(c.Request.Context(), uid, req.TargetID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": chat.ID, "created": created})
}

// SendMessage 发消息
func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	msg, err := h.svc.SendMessage(c.Request.Context(), uid, chatID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": msg.ID, "sent_at": msg.SentAt})
}

// Messages 会话消息按时间升序
func (h *ChatHandler) Messages(c *gin.Context) {
	chatID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListMessages(c.Request.Context(), uid, chatID, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// MarkRead 已读回执
func (h *ChatHandler) MarkRead(c *gin.Context) {
	chatID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	uid := userIDFromCtx(c)
	if err := h.svc.MarkRead(c.Request.Context(), uid, chatID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
