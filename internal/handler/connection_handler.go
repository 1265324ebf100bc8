package handler

import (
	"net/http"
	"strconv"

	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	svc *service.ConnectionService
}

func NewConnectionHandler(emailSvc *service.EmailService) *ConnectionHandler {
	return &ConnectionHandler{svc: service.NewConnectionService(emailSvc)}
}

type connectReq struct {
	TargetID uint64 `json:"target_id" binding:"required"`
}

type respondReq struct {
	EdgeID uint64 `json:"edge_id" binding:"required"`
	Accept *bool  `json:"accept" binding:"required"`
}

// Request 发起连接请求
func (h *ConnectionHandler) Request(c *gin.Context) {
	var req connectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	edge, err := h.svc.Request(c.Request.Context(), uid, req.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"edge_id": edge.ID, "status": edge.Status})
}

// Respond 接受或拒绝连接请求
func (h *ConnectionHandler) Respond(c *gin.Context) {
	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	edge, err := h.svc.Respond(c.Request.Context(), uid, req.EdgeID, *req.Accept)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"edge_id": edge.ID, "status": edge.Status})
}

// Remove 撤回请求或移除连接，直接删边
func (h *ConnectionHandler) Remove(c *gin.Context) {
	edgeID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	uid := userIDFromCtx(c)
	if err := h.svc.Remove(c.Request.Context(), uid, edgeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// List 已建立的连接列表
func (h *ConnectionHandler) List(c *gin.Context) {
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListConnections(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// Pending 等我回复的请求列表
func (h *ConnectionHandler) Pending(c *gin.Context) {
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListPending(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// Relation 查询与某个用户的连接状态
func (h *ConnectionHandler) Relation(c *gin.Context) {
	other, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	uid := userIDFromCtx(c)
	status, edgeID, err := h.svc.Relation(c.Request.Context(), uid, other)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "edge_id": edgeID})
}
