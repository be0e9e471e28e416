package handler

import (
	"fmt"
	"net/http"

	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	svc *service.GroupService
	log *zap.Logger
}

type GroupCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GroupEditReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func NewGroupHandler(svc *service.GroupService, log *zap.Logger) *GroupHandler {
	return &GroupHandler{svc: svc, log: log}
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req GroupCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	group, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"createdAt":   group.CreatedAt,
	})
}

func (h *GroupHandler) Edit(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	var req GroupEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.log, fmt.Errorf("%w: invalid params", pkg.ErrValidation))
		return
	}

	group, err := h.svc.Edit(c.Request.Context(), groupID, userID, req.Name, req.Description)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"updatedAt":   group.UpdatedAt,
	})
}

func (h *GroupHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	groups, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups, "total": len(groups)})
}

func (h *GroupHandler) Members(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID, err := pathID(c, "id")
	if err != nil {
		fail(c, h.log, err)
		return
	}

	members, err := h.svc.Members(c.Request.Context(), groupID, userID)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
