package handler

import (
	"net/http"

	"Skill_Link/internal/pkg"
	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	svc *service.EmailService
}

func NewEmailHandler(cfg pkg.SMTPConfig) *EmailHandler {
	return &EmailHandler{svc: service.NewEmailService(cfg)}
}

func (h *EmailHandler) Service() *service.EmailService {
	return h.svc
}

type sendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

// SendCode 按场景发送验证码，scope 取 register / reset
func (h *EmailHandler) SendCode(c *gin.Context) {
	scope := c.Param("scope")
	if scope != "register" && scope != "reset" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown scope"})
		return
	}

	var req sendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.SendCode(scope, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
