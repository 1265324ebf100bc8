package handler

import (
	"net/http"
	"strconv"

	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{svc: service.NewProjectService()}
}

type projectReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Accepting   *bool  `json:"accepting"`
}

// Create 发布项目
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	accepting := true
	if req.Accepting != nil {
		accepting = *req.Accepting
	}
	uid := userIDFromCtx(c)
	p, err := h.svc.Create(uid, req.Title, req.Description, req.URL, accepting)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// Update 仅项目方可改
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	fields := map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"url":         req.URL,
	}
	if req.Accepting != nil {
		fields["accepting"] = *req.Accepting
	}
	uid := userIDFromCtx(c)
	if err := h.svc.Update(uid, projectID, fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	uid := userIDFromCtx(c)
	if err := h.svc.Delete(uid, projectID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.svc.Get(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "project not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// List 开放申请的项目流，游标分页
func (h *ProjectHandler) List(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListOpen(cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *ProjectHandler) Mine(c *gin.Context) {
	uid := userIDFromCtx(c)
	rows, err := h.svc.ListMine(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}
