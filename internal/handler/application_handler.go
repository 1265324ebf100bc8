package handler

import (
	"net/http"
	"strconv"

	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	svc *service.ApplicationService
}

func NewApplicationHandler(chatSvc *service.ChatService, emailSvc *service.EmailService) *ApplicationHandler {
	return &ApplicationHandler{svc: service.NewApplicationService(chatSvc, emailSvc)}
}

type applyReq struct {
	ProjectID   uint64 `json:"project_id" binding:"required"`
	Description string `json:"description"`
}

type replyReq struct {
	Accept *bool  `json:"accept" binding:"required"`
	Note   string `json:"note"`
}

// Apply 申请加入项目
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	a, err := h.svc.Apply(c.Request.Context(), uid, req.ProjectID, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": a.ID, "status": a.Status})
}

// ListForProject 项目方查看某项目的申请
func (h *ApplicationHandler) ListForProject(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListForProject(uid, projectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// Mine 我发出的申请
func (h *ApplicationHandler) Mine(c *gin.Context) {
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListMine(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// Reply 接受/拒绝申请，并给申请人发一条决定消息
func (h *ApplicationHandler) Reply(c *gin.Context) {
	applicationID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	if err := h.svc.Reply(c.Request.Context(), uid, applicationID, *req.Accept, req.Note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
