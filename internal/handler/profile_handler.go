package handler

import (
	"net/http"
	"strconv"

	"Skill_Link/internal/pkg"
	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc     *service.ProfileService
	storage pkg.Storage
}

func NewProfileHandler(storage pkg.Storage) *ProfileHandler {
	return &ProfileHandler{
		svc:     service.NewProfileService(),
		storage: storage,
	}
}

type updateProfileReq struct {
	Bio          string   `json:"bio"`
	Location     string   `json:"location"`
	Availability string   `json:"availability" binding:"required,oneof=part-time full-time project-based weekends"`
	Skills       []string `json:"skills"`
	LookingFor   []string `json:"looking_for"`
	Conditions   []string `json:"conditions"`
}

// Me 自己的资料页
func (h *ProfileHandler) Me(c *gin.Context) {
	uid := userIDFromCtx(c)
	detail, err := h.svc.Get(c.Request.Context(), 0, uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Get 别人的资料页，顺带记浏览
func (h *ProfileHandler) Get(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	uid := userIDFromCtx(c)
	detail, err := h.svc.Get(c.Request.Context(), uid, targetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update 保存资料，技能和协作需求整体替换
func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	err := h.svc.Update(c.Request.Context(), uid, service.ProfileUpdate{
		Bio:          req.Bio,
		Location:     req.Location,
		Availability: req.Availability,
		Skills:       req.Skills,
		LookingFor:   req.LookingFor,
		Conditions:   req.Conditions,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// UploadAvatar 头像上传，存储后把公开地址写回资料
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "avatar file required"})
		return
	}
	uid := userIDFromCtx(c)
	url, err := h.storage.Save(file, pkg.AvatarKey(uid, file.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	if err = h.svc.UpdateAvatar(uid, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

// Viewers 谁看过我
func (h *ProfileHandler) Viewers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListViewers(uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// SearchSkills 技能标签补全
func (h *ProfileHandler) SearchSkills(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.SearchSkills(c.Query("q"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}
